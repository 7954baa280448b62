package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-dashboard/internal/content"
	"github.com/yungbote/neurobridge-dashboard/internal/http/response"
	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
	"github.com/yungbote/neurobridge-dashboard/internal/upstream"
)

type ContentHandler struct {
	log *logger.Logger
	svc *content.Service
}

func NewContentHandler(log *logger.Logger, svc *content.Service) *ContentHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ContentHandler{log: log.With("handler", "ContentHandler"), svc: svc}
}

// POST /courses/:id/modules
func (h *ContentHandler) CreateModule(c *gin.Context) {
	var in upstream.ModuleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", errInvalidBody)
		return
	}
	m, err := h.svc.CreateModule(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"module": m})
}

// PUT /modules/:id
func (h *ContentHandler) UpdateModule(c *gin.Context) {
	var in upstream.ModuleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", errInvalidBody)
		return
	}
	m, err := h.svc.UpdateModule(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"module": m})
}

// DELETE /modules/:id?courseId=
func (h *ContentHandler) DeleteModule(c *gin.Context) {
	if err := h.svc.DeleteModule(c.Request.Context(), c.Param("id"), c.Query("courseId")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ContentHandler) ListModules(c *gin.Context) {
	out, err := h.svc.ListModules(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"modules": out})
}

func (h *ContentHandler) ListLessons(c *gin.Context) {
	out, err := h.svc.ListLessons(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lessons": out})
}

func (h *ContentHandler) ListResources(c *gin.Context) {
	out, err := h.svc.ListResources(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"resources": out})
}

func (h *ContentHandler) ListAssignments(c *gin.Context) {
	out, err := h.svc.ListAssignments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"assignments": out})
}
