package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-dashboard/internal/content"
	"github.com/yungbote/neurobridge-dashboard/internal/http/response"
	"github.com/yungbote/neurobridge-dashboard/internal/platform/apierr"
	"github.com/yungbote/neurobridge-dashboard/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-dashboard/internal/reorder"
	"github.com/yungbote/neurobridge-dashboard/internal/tabs"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream"
)

var (
	errNotAuthenticated = errors.New("not authenticated")
	errInvalidBody      = errors.New("invalid request body")
)

// toAPIError maps domain errors onto HTTP answers.
func toAPIError(err error) *apierr.Error {
	var (
		ae   *apierr.Error
		verr *content.ValidationError
		perr *content.PersistError
		cf   *upstream.CallFailure
	)
	switch {
	case errors.As(err, &ae):
		return ae
	case errors.As(err, &verr):
		out := apierr.New(http.StatusUnprocessableEntity, "validation_failed", err)
		out.Fields = verr.FieldErrors()
		return out
	case errors.As(err, &perr):
		if perr.UpstreamStatus() == http.StatusNotFound {
			return apierr.NotFound("not_found", err)
		}
		return apierr.BadGateway("upstream_failed", err)
	case errors.Is(err, reorder.ErrUnknownKind), errors.Is(err, tabs.ErrUnknownTab):
		return apierr.NotFound("not_found", err)
	case errors.Is(err, reorder.ErrUnknownItem), errors.Is(err, reorder.ErrInvalidMove):
		return apierr.BadRequest("invalid_move", err)
	case errors.As(err, &cf):
		if cf.StatusCode == http.StatusNotFound {
			return apierr.NotFound("not_found", err)
		}
		return apierr.BadGateway("upstream_failed", err)
	default:
		return apierr.From(err, "internal_error")
	}
}

func respondErr(c *gin.Context, err error) {
	response.RespondAPIError(c, toAPIError(err))
}

// caller returns the authenticated request data, answering 401 when it is absent.
func caller(c *gin.Context) (*ctxutil.RequestData, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == "" {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errNotAuthenticated)
		return nil, false
	}
	return rd, true
}

// sessionOf is the stream a caller's realtime events are routed to.
func sessionOf(rd *ctxutil.RequestData) string {
	if rd.SessionID != "" {
		return rd.SessionID
	}
	return rd.UserID
}
