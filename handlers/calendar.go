package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gatherly/middleware"
	"gatherly/services/calendar"
	"gatherly/utils"
)

// CalendarHandler exposes calendar source registration and syncing.
type CalendarHandler struct {
	Service calendar.CalendarService
}

func NewCalendarHandler(service calendar.CalendarService) *CalendarHandler {
	return &CalendarHandler{Service: service}
}

// RegisterSource stores a new feed for the caller and runs a first sync.
func (h *CalendarHandler) RegisterSource(c *gin.Context) {
	var input struct {
		URL         string `json:"url" binding:"required"`
		DisplayName string `json:"displayName"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	userID := middleware.AuthenticatedUserID(c)
	source, err := h.Service.RegisterSource(c.Request.Context(), userID, input.URL, input.DisplayName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, source)
}

// ListSources returns the caller's registered feeds.
func (h *CalendarHandler) ListSources(c *gin.Context) {
	userID := middleware.AuthenticatedUserID(c)
	sources, err := h.Service.ListSources(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sources": sources})
}

// DeleteSource removes one of the caller's feeds.
func (h *CalendarHandler) DeleteSource(c *gin.Context) {
	userID := middleware.AuthenticatedUserID(c)
	if err := h.Service.DeleteSource(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// SyncSources re-syncs every feed of the caller and reports per-source outcomes.
func (h *CalendarHandler) SyncSources(c *gin.Context) {
	userID := middleware.AuthenticatedUserID(c)
	results := h.Service.SyncAllForUser(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"results": results})
}
