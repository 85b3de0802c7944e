package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/placementcell/internal/models"
	pgrepo "github.com/yoockh/placementcell/internal/repositories/postgres"
	"github.com/yoockh/placementcell/internal/services"
)

type JobHandler struct {
	jobs services.JobService
	apps services.ApplicationService
}

func NewJobHandler(jobs services.JobService, apps services.ApplicationService) *JobHandler {
	return &JobHandler{jobs: jobs, apps: apps}
}

// --- placement cell ---

func (h *JobHandler) Create(c *gin.Context) {
	var req JobRequest
	if !bindJSON(c, "JobHandler.Create", &req) {
		return
	}

	j, err := h.jobs.Create(c.Request.Context(), services.JobInput{
		Name:              req.Name,
		Company:           req.Company,
		Location:          req.Location,
		Type:              req.Type,
		CTC:               req.CTC,
		Description:       req.Description,
		Status:            req.Status,
		ApplicationOpen:   req.ApplicationOpen,
		ApplicationClosed: req.ApplicationClosed,
		Eligibility:       req.Eligibility,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, j)
}

func (h *JobHandler) List(c *gin.Context) {
	limit, err := queryInt(c, "limit", 50)
	if err != nil {
		writeError(c, err)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		writeError(c, err)
		return
	}

	list, err := h.jobs.List(c.Request.Context(), pgrepo.JobFilter{
		Status: models.JobStatus(c.Query("status")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list})
}

func (h *JobHandler) Get(c *gin.Context) {
	j, err := h.jobs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, j)
}

func (h *JobHandler) Update(c *gin.Context) {
	var req JobPatchRequest
	if !bindJSON(c, "JobHandler.Update", &req) {
		return
	}

	j, err := h.jobs.Update(c.Request.Context(), c.Param("id"), services.JobPatch{
		Name:              req.Name,
		Company:           req.Company,
		Location:          req.Location,
		Type:              req.Type,
		CTC:               req.CTC,
		Description:       req.Description,
		ApplicationOpen:   req.ApplicationOpen,
		ApplicationClosed: req.ApplicationClosed,
		Eligibility:       req.Eligibility,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, j)
}

func (h *JobHandler) UpdateStatus(c *gin.Context) {
	var req JobStatusRequest
	if !bindJSON(c, "JobHandler.UpdateStatus", &req) {
		return
	}

	j, err := h.jobs.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, j)
}

func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.jobs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- student ---

func (h *JobHandler) StudentList(c *gin.Context) {
	studentID, ok := requireUserID(c)
	if !ok {
		return
	}

	list, err := h.jobs.ListForStudent(c.Request.Context(), studentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list})
}

func (h *JobHandler) StudentGet(c *gin.Context) {
	studentID, ok := requireUserID(c)
	if !ok {
		return
	}

	v, err := h.jobs.GetForStudent(c.Request.Context(), c.Param("id"), studentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *JobHandler) Apply(c *gin.Context) {
	studentID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req ApplyRequest
	// An empty body is a valid apply with no cover letter or resume.
	if c.Request.ContentLength != 0 {
		if !bindJSON(c, "JobHandler.Apply", &req) {
			return
		}
	}

	a, err := h.apps.Apply(c.Request.Context(), services.ApplyInput{
		JobID:       c.Param("id"),
		StudentID:   studentID,
		CoverLetter: req.CoverLetter,
		ResumeID:    req.ResumeID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}
