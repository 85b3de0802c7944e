package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/placementcell/internal/services"
)

type EventHandler struct {
	svc services.EventService
}

func NewEventHandler(svc services.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) Create(c *gin.Context) {
	var req EventRequest
	if !bindJSON(c, "EventHandler.Create", &req) {
		return
	}

	e, err := h.svc.Create(c.Request.Context(), services.EventInput{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		Venue:       req.Venue,
		Type:        req.Type,
		IsActive:    req.IsActive,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *EventHandler) List(c *gin.Context) {
	limit, err := queryInt(c, "limit", 100)
	if err != nil {
		writeError(c, err)
		return
	}
	list, err := h.svc.List(c.Request.Context(), int64(limit))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list})
}

func (h *EventHandler) Update(c *gin.Context) {
	var req EventPatchRequest
	if !bindJSON(c, "EventHandler.Update", &req) {
		return
	}

	e, err := h.svc.Update(c.Request.Context(), c.Param("id"), services.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		Venue:       req.Venue,
		Type:        req.Type,
		IsActive:    req.IsActive,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Upcoming is the student feed: active events from now on.
func (h *EventHandler) Upcoming(c *gin.Context) {
	limit, err := queryInt(c, "limit", services.DefaultUpcomingEvents)
	if err != nil {
		writeError(c, err)
		return
	}
	list, err := h.svc.Upcoming(c.Request.Context(), int64(limit))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list})
}
