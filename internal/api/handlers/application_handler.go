package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/placementcell/internal/export"
	"github.com/yoockh/placementcell/internal/services"
	"github.com/yoockh/placementcell/internal/utils"
)

type ApplicationHandler struct {
	svc services.ApplicationService
}

func NewApplicationHandler(svc services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

func (h *ApplicationHandler) List(c *gin.Context) {
	studentID, ok := requireUserID(c)
	if !ok {
		return
	}

	list, err := h.svc.ListForStudent(c.Request.Context(), studentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list})
}

func (h *ApplicationHandler) Stats(c *gin.Context) {
	studentID, ok := requireUserID(c)
	if !ok {
		return
	}

	stats, err := h.svc.StatsForStudent(c.Request.Context(), studentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	studentID, ok := requireUserID(c)
	if !ok {
		return
	}

	v, err := h.svc.GetForStudent(c.Request.Context(), c.Param("id"), studentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *ApplicationHandler) ReassignResume(c *gin.Context) {
	studentID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req ReassignResumeRequest
	if !bindJSON(c, "ApplicationHandler.ReassignResume", &req) {
		return
	}

	a, err := h.svc.ReassignResume(c.Request.Context(), c.Param("id"), studentID, req.ResumeID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// --- placement cell ---

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	var req ApplicationStatusRequest
	if !bindJSON(c, "ApplicationHandler.UpdateStatus", &req) {
		return
	}

	a, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	list, err := h.svc.ListForJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list})
}

// ExportForJob renders the applicant sheet (?format=xlsx|csv, default xlsx).
func (h *ApplicationHandler) ExportForJob(c *gin.Context) {
	const op = "ApplicationHandler.ExportForJob"

	f, ok := export.ParseFormat(c.Query("format"))
	if !ok {
		writeError(c, utils.Invalid(op, "invalid query", map[string]string{"format": "must be xlsx or csv"}))
		return
	}

	jobID := c.Param("id")
	var buf bytes.Buffer
	if err := h.svc.ExportForJob(c.Request.Context(), jobID, f, &buf); err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename("applicants", jobID, f)+`"`)
	c.Data(http.StatusOK, f.ContentType(), buf.Bytes())
}
