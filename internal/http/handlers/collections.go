package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-dashboard/internal/http/response"
	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
	"github.com/yungbote/neurobridge-dashboard/internal/reorder"
)

// CollectionHandler exposes the editable content lists and their optimistic reorder.
type CollectionHandler struct {
	log      *logger.Logger
	registry *reorder.Registry
}

func NewCollectionHandler(log *logger.Logger, registry *reorder.Registry) *CollectionHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &CollectionHandler{log: log.With("handler", "CollectionHandler"), registry: registry}
}

type collectionResponse struct {
	Kind        reorder.Kind   `json:"kind"`
	ScopeID     string         `json:"scopeId"`
	State       string         `json:"state"`
	Outstanding int            `json:"outstanding"`
	Items       []reorder.Item `json:"items"`
}

type reorderRequest struct {
	ItemID  string `json:"itemId" binding:"required"`
	ToIndex *int   `json:"toIndex" binding:"required"`
	// Wait holds the response until the upstream has answered.
	Wait bool `json:"wait"`
}

type reorderResponse struct {
	Seq    uint64         `json:"seq"`
	ItemID string         `json:"itemId"`
	From   int            `json:"from"`
	To     int            `json:"to"`
	Status reorder.Status `json:"status"`
	Items  []reorder.Item `json:"items"`
	Error  string         `json:"error,omitempty"`
}

func (h *CollectionHandler) key(c *gin.Context) (reorder.Key, bool) {
	rd, ok := caller(c)
	if !ok {
		return reorder.Key{}, false
	}
	kind, err := reorder.ParseKind(c.Param("kind"))
	if err != nil {
		respondErr(c, err)
		return reorder.Key{}, false
	}
	scopeID := strings.TrimSpace(c.Param("scopeId"))
	if scopeID == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_scope", errInvalidBody)
		return reorder.Key{}, false
	}
	return reorder.Key{Session: sessionOf(rd), Kind: kind, ScopeID: scopeID}, true
}

// GET /collections/:kind/:scopeId
func (h *CollectionHandler) Get(c *gin.Context) {
	key, ok := h.key(c)
	if !ok {
		return
	}
	col, err := h.registry.Refresh(c.Request.Context(), key)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, collectionResponse{
		Kind:        key.Kind,
		ScopeID:     key.ScopeID,
		State:       col.State().String(),
		Outstanding: col.Outstanding(),
		Items:       col.Items(),
	})
}

// POST /collections/:kind/:scopeId/reorder
//
// Without wait the move is acknowledged with 202 and the optimistic list; the outcome
// arrives on the caller's event stream.
func (h *CollectionHandler) Reorder(c *gin.Context) {
	key, ok := h.key(c)
	if !ok {
		return
	}
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", errInvalidBody)
		return
	}

	col, err := h.registry.Open(c.Request.Context(), key)
	if err != nil {
		respondErr(c, err)
		return
	}
	in, items, err := col.Reorder(c.Request.Context(), req.ItemID, *req.ToIndex)
	if err != nil {
		respondErr(c, err)
		return
	}

	out := reorderResponse{
		Seq:    in.Seq,
		ItemID: in.ItemID,
		From:   in.From,
		To:     in.To,
		Status: in.Status(),
		Items:  items,
	}
	if !req.Wait {
		code := http.StatusAccepted
		if out.Status == reorder.StatusConfirmed {
			code = http.StatusOK
		}
		c.JSON(code, out)
		return
	}

	status, err := in.Wait(c.Request.Context())
	out.Status = status
	out.Items = col.Items()
	switch {
	case status == reorder.StatusConfirmed:
		c.JSON(http.StatusOK, out)
	case status.Final():
		out.Error = errString(err)
		c.JSON(http.StatusBadGateway, out)
	default:
		// the client went away first; persistence carries on without it
		out.Error = errString(err)
		c.JSON(http.StatusAccepted, out)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
