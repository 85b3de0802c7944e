package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/placementcell/internal/services"
)

type DashboardHandler struct {
	svc services.DashboardService
}

func NewDashboardHandler(svc services.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) Get(c *gin.Context) {
	studentID, ok := requireUserID(c)
	if !ok {
		return
	}

	d, err := h.svc.ForStudent(c.Request.Context(), studentID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
