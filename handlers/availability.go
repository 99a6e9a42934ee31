package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gatherly/middleware"
	"gatherly/services/availability"
	"gatherly/utils"
)

// AvailabilityHandler exposes busy-interval merging, slot search and dual
// recommendations.
type AvailabilityHandler struct {
	Service availability.AvailabilityService
}

func NewAvailabilityHandler(service availability.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: service}
}

type windowInput struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (w windowInput) parse() (availability.SearchWindow, error) {
	var out availability.SearchWindow
	if w.Start == "" && w.End == "" {
		return out, nil
	}
	start, err := time.ParseInLocation(dateLayout, w.Start, time.UTC)
	if err != nil {
		return out, err
	}
	end, err := time.ParseInLocation(dateLayout, w.End, time.UTC)
	if err != nil {
		return out, err
	}
	return availability.SearchWindow{Start: start, End: end}, nil
}

// GetMergedBusyIntervals returns the minimal disjoint busy set of a
// participant set.
func (h *AvailabilityHandler) GetMergedBusyIntervals(c *gin.Context) {
	var input struct {
		Participants []string    `json:"participants" binding:"required"`
		Window       windowInput `json:"window"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	window, err := input.Window.parse()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid window", "expected YYYY-MM-DD bounds")
		return
	}

	intervals, err := h.Service.GetMergedBusyIntervals(c.Request.Context(), input.Participants, window)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"busyIntervals": intervals})
}

// FindAvailableSlots returns scored free slots for a participant set.
func (h *AvailabilityHandler) FindAvailableSlots(c *gin.Context) {
	var input struct {
		Participants []string    `json:"participants" binding:"required"`
		Window       windowInput `json:"window"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	window, err := input.Window.parse()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid window", "expected YYYY-MM-DD bounds")
		return
	}

	slots, err := h.Service.FindAvailableSlots(c.Request.Context(), input.Participants, window)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// GetDualRecommendation compares the event's availability with and without
// the caller as a candidate participant.
func (h *AvailabilityHandler) GetDualRecommendation(c *gin.Context) {
	userID := middleware.AuthenticatedUserID(c)
	rec, err := h.Service.GetDualRecommendation(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
