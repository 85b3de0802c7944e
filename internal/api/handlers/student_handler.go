package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/placementcell/internal/export"
	pgrepo "github.com/yoockh/placementcell/internal/repositories/postgres"
	"github.com/yoockh/placementcell/internal/services"
)

// StudentHandler serves /student/my-information and the placement-cell
// student directory.
type StudentHandler struct {
	svc services.StudentService
}

func NewStudentHandler(svc services.StudentService) *StudentHandler {
	return &StudentHandler{svc: svc}
}

func (h *StudentHandler) GetProfile(c *gin.Context) {
	studentID, ok := requireUserID(c)
	if !ok {
		return
	}
	p, err := h.svc.Profile(c.Request.Context(), studentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *StudentHandler) UpdateProfile(c *gin.Context) {
	studentID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req ProfileRequest
	if !bindJSON(c, "StudentHandler.UpdateProfile", &req) {
		return
	}
	p, err := h.svc.UpdateProfile(c.Request.Context(), studentID, services.ProfilePatch{Name: req.Name, Phone: req.Phone})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *StudentHandler) GetPersonal(c *gin.Context) {
	studentID, ok := requireUserID(c)
	if !ok {
		return
	}
	p, err := h.svc.Personal(c.Request.Context(), studentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *StudentHandler) UpdatePersonal(c *gin.Context) {
	studentID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req PersonalRequest
	if !bindJSON(c, "StudentHandler.UpdatePersonal", &req) {
		return
	}
	p, err := h.svc.UpdatePersonal(c.Request.Context(), studentID, services.PersonalPatch{
		Gender:      req.Gender,
		DateOfBirth: req.date(),
		Address:     req.Address,
		IsPWD:       req.IsPWD,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *StudentHandler) GetAcademic(c *gin.Context) {
	studentID, ok := requireUserID(c)
	if !ok {
		return
	}
	a, err := h.svc.Academic(c.Request.Context(), studentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *StudentHandler) UpdateAcademic(c *gin.Context) {
	studentID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req AcademicRequest
	if !bindJSON(c, "StudentHandler.UpdateAcademic", &req) {
		return
	}
	a, err := h.svc.UpdateAcademic(c.Request.Context(), studentID, services.AcademicPatch{
		Degree:       req.Degree,
		Branch:       req.Branch,
		CurrentYear:  req.CurrentYear,
		GPA:          req.GPA,
		CGPA:         req.CGPA,
		TenthMarks:   req.TenthMarks,
		TwelfthMarks: req.TwelfthMarks,
		UGPercentage: req.UGPercentage,
		Backlogs:     req.Backlogs,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *StudentHandler) GetSkills(c *gin.Context) {
	studentID, ok := requireUserID(c)
	if !ok {
		return
	}
	list, err := h.svc.Skills(c.Request.Context(), studentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list})
}

func (h *StudentHandler) ReplaceSkills(c *gin.Context) {
	studentID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req SkillsRequest
	if !bindJSON(c, "StudentHandler.ReplaceSkills", &req) {
		return
	}
	in := make([]services.SkillInput, 0, len(req.Skills))
	for _, s := range req.Skills {
		in = append(in, services.SkillInput{Name: s.Name, Level: s.Level})
	}
	list, err := h.svc.ReplaceSkills(c.Request.Context(), studentID, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list})
}

func (h *StudentHandler) AddSkill(c *gin.Context) {
	studentID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req SkillRequest
	if !bindJSON(c, "StudentHandler.AddSkill", &req) {
		return
	}
	s, err := h.svc.AddSkill(c.Request.Context(), studentID, services.SkillInput{Name: req.Name, Level: req.Level})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *StudentHandler) DeleteSkill(c *gin.Context) {
	studentID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteSkill(c.Request.Context(), studentID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- placement cell ---

func studentFilter(c *gin.Context) (pgrepo.StudentFilter, error) {
	f := pgrepo.StudentFilter{Branch: c.Query("branch")}
	var err error
	if f.CurrentYear, err = queryInt(c, "currentYear", 0); err != nil {
		return f, err
	}
	if f.Active, err = queryBool(c, "active"); err != nil {
		return f, err
	}
	if f.Limit, err = queryInt(c, "limit", 100); err != nil {
		return f, err
	}
	if f.Offset, err = queryInt(c, "offset", 0); err != nil {
		return f, err
	}
	return f, nil
}

func (h *StudentHandler) List(c *gin.Context) {
	f, err := studentFilter(c)
	if err != nil {
		writeError(c, err)
		return
	}
	list, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list})
}

func (h *StudentHandler) Get(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *StudentHandler) SetStatus(c *gin.Context) {
	var req StudentStatusRequest
	if !bindJSON(c, "StudentHandler.SetStatus", &req) {
		return
	}
	id := c.Param("id")
	if err := h.svc.SetActive(c.Request.Context(), id, *req.IsActive); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "isActive": *req.IsActive})
}

func (h *StudentHandler) Export(c *gin.Context) {
	f, err := studentFilter(c)
	if err != nil {
		writeError(c, err)
		return
	}
	if c.Query("limit") == "" {
		f.Limit = 10000
	}
	var buf bytes.Buffer
	if err := h.svc.ExportCSV(c.Request.Context(), f, &buf); err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(export.Filename("students", "all", export.FormatCSV)))
	c.Data(http.StatusOK, export.FormatCSV.ContentType(), buf.Bytes())
}
