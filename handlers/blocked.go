package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gatherly/middleware"
	"gatherly/services/availability"
	"gatherly/utils"
)

const dateLayout = "2006-01-02"

// BlockedDateHandler exposes the blocked-date store.
type BlockedDateHandler struct {
	Store availability.BlockedDateStore
}

func NewBlockedDateHandler(store availability.BlockedDateStore) *BlockedDateHandler {
	return &BlockedDateHandler{Store: store}
}

// ListBlockedDates returns the caller's blocked days inside the rolling window.
func (h *BlockedDateHandler) ListBlockedDates(c *gin.Context) {
	userID := middleware.AuthenticatedUserID(c)
	dates, err := h.Store.GetBlockedDates(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(dateLayout))
	}
	c.JSON(http.StatusOK, gin.H{"blockedDates": out})
}

// BlockDate marks one day as unavailable.
func (h *BlockedDateHandler) BlockDate(c *gin.Context) {
	var input struct {
		Date string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	date, err := time.ParseInLocation(dateLayout, input.Date, time.UTC)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", "expected YYYY-MM-DD")
		return
	}

	userID := middleware.AuthenticatedUserID(c)
	if err := h.Store.BlockDate(c.Request.Context(), userID, date); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "blocked"})
}

// BlockRange marks every day of an inclusive range as unavailable.
func (h *BlockedDateHandler) BlockRange(c *gin.Context) {
	var input struct {
		Start string `json:"start" binding:"required"`
		End   string `json:"end" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	start, err1 := time.ParseInLocation(dateLayout, input.Start, time.UTC)
	end, err2 := time.ParseInLocation(dateLayout, input.End, time.UTC)
	if err1 != nil || err2 != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid date range", "expected YYYY-MM-DD")
		return
	}

	userID := middleware.AuthenticatedUserID(c)
	if err := h.Store.BlockRange(c.Request.Context(), userID, start, end); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "blocked"})
}

// UnblockDate clears one blocked day.
func (h *BlockedDateHandler) UnblockDate(c *gin.Context) {
	date, err := time.ParseInLocation(dateLayout, c.Param("date"), time.UTC)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid date", "expected YYYY-MM-DD")
		return
	}

	userID := middleware.AuthenticatedUserID(c)
	if err := h.Store.UnblockDate(c.Request.Context(), userID, date); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unblocked"})
}
