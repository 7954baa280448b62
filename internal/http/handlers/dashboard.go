package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-dashboard/internal/dashboard"
	"github.com/yungbote/neurobridge-dashboard/internal/http/response"
	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
	"github.com/yungbote/neurobridge-dashboard/internal/tabs"
)

// DashboardHandler serves the aggregated views. Views always answer 200; partial
// upstream failure is reported in each payload's meta.
type DashboardHandler struct {
	log  *logger.Logger
	svc  *dashboard.Service
	tabs *tabs.Catalog[string]
}

func NewDashboardHandler(log *logger.Logger, svc *dashboard.Service) *DashboardHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardHandler{
		log:  log.With("handler", "DashboardHandler"),
		svc:  svc,
		tabs: svc.Tabs(),
	}
}

func (h *DashboardHandler) Overview(c *gin.Context) {
	response.RespondOK(c, h.svc.Overview(c.Request.Context()))
}

func (h *DashboardHandler) Engagement(c *gin.Context) {
	response.RespondOK(c, h.svc.Engagement(c.Request.Context()))
}

func (h *DashboardHandler) Students(c *gin.Context) {
	response.RespondOK(c, h.svc.Students(c.Request.Context()))
}

func (h *DashboardHandler) Demographics(c *gin.Context) {
	response.RespondOK(c, h.svc.Demographics(c.Request.Context()))
}

func (h *DashboardHandler) Financials(c *gin.Context) {
	response.RespondOK(c, h.svc.Financials(c.Request.Context()))
}

func (h *DashboardHandler) CourseContent(c *gin.Context) {
	courseID := strings.TrimSpace(c.Param("id"))
	if courseID == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_course", errInvalidBody)
		return
	}
	response.RespondOK(c, h.svc.CourseContent(c.Request.Context(), courseID))
}

type tabResponse struct {
	Tab   string             `json:"tab"`
	State tabs.State[string] `json:"state"`
	Data  any                `json:"data"`
}

// Tab answers one tab switch. With skeleton=1 only the placeholder is returned so a
// client can paint before the real load; from names the tab being left.
func (h *DashboardHandler) Tab(c *gin.Context) {
	id := strings.ToLower(strings.TrimSpace(c.Param("tab")))
	if !h.tabs.Has(id) {
		respondErr(c, tabs.ErrUnknownTab)
		return
	}
	from := strings.ToLower(strings.TrimSpace(c.Query("from")))
	if from == "" || !h.tabs.Has(from) {
		from = h.tabs.IDs()[0]
	}
	ctrl, err := h.tabs.Controller(from)
	if err != nil {
		respondErr(c, err)
		return
	}

	if c.Query("skeleton") == "1" {
		if _, err := ctrl.Select(id); err != nil {
			respondErr(c, err)
			return
		}
		data, _ := h.tabs.Skeleton(id)
		response.RespondOK(c, tabResponse{Tab: id, State: ctrl.State(), Data: data})
		return
	}

	data, err := h.tabs.Navigate(c.Request.Context(), ctrl, id, nil)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, tabResponse{Tab: id, State: ctrl.State(), Data: data})
}
