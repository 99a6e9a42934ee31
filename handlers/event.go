package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"gatherly/middleware"
	"gatherly/models"
	"gatherly/services/event"
	"gatherly/utils"
)

// EventHandler exposes event lifecycle and roster endpoints.
type EventHandler struct {
	Service event.EventService
}

func NewEventHandler(service event.EventService) *EventHandler {
	return &EventHandler{Service: service}
}

// CreateEvent stores a new event with the caller as creator and first
// participant.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var input struct {
		Title           string `json:"title" binding:"required"`
		Type            string `json:"type" binding:"required"`
		MinParticipants int    `json:"minParticipants" binding:"required"`
		MaxParticipants int    `json:"maxParticipants" binding:"required"`
		JoinPassword    string `json:"joinPassword"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	created, err := h.Service.Create(c.Request.Context(), event.CreateEventInput{
		CreatorID:       middleware.AuthenticatedUserID(c),
		Title:           input.Title,
		Type:            models.EventType(input.Type),
		MinParticipants: input.MinParticipants,
		MaxParticipants: input.MaxParticipants,
		JoinPassword:    input.JoinPassword,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetEvent loads an event by id.
func (h *EventHandler) GetEvent(c *gin.Context) {
	loaded, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loaded)
}

// JoinEvent adds the caller to the event roster.
func (h *EventHandler) JoinEvent(c *gin.Context) {
	var input struct {
		Password string `json:"password"`
	}
	// The body is optional for open events.
	_ = c.ShouldBindJSON(&input)

	joined, err := h.Service.Join(c.Request.Context(), c.Param("id"), middleware.AuthenticatedUserID(c), input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, joined)
}

// LeaveEvent closes the caller's participant record.
func (h *EventHandler) LeaveEvent(c *gin.Context) {
	left, err := h.Service.Leave(c.Request.Context(), c.Param("id"), middleware.AuthenticatedUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, left)
}

// CompleteEvent is the administrative override into COMPLETED.
func (h *EventHandler) CompleteEvent(c *gin.Context) {
	h.override(c, h.Service.Complete)
}

// CancelEvent is the administrative override into CANCELLED.
func (h *EventHandler) CancelEvent(c *gin.Context) {
	h.override(c, h.Service.Cancel)
}

func (h *EventHandler) override(c *gin.Context, op func(ctx context.Context, eventID string) (*models.Event, error)) {
	loaded, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if loaded.CreatorID != middleware.AuthenticatedUserID(c) {
		utils.JSONError(c, http.StatusForbidden, "forbidden", "only the creator can override event status")
		return
	}
	updated, err := op(c.Request.Context(), loaded.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
