package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gatherly/services/availability"
	"gatherly/services/event"
	"gatherly/utils"
)

// respondError maps domain error types onto HTTP statuses: validation
// failures are 400, membership/concurrency conflicts are 409, everything
// else is 500.
func respondError(c *gin.Context, err error) {
	var availValidation *availability.ValidationError
	var eventValidation *event.ValidationError
	var conflict *event.ConflictError

	switch {
	case errors.As(err, &availValidation):
		utils.JSONError(c, http.StatusBadRequest, "invalid request", availValidation.Message)
	case errors.As(err, &eventValidation):
		utils.JSONError(c, http.StatusBadRequest, "invalid request", eventValidation.Message)
	case errors.As(err, &conflict):
		utils.JSONError(c, http.StatusConflict, "conflict", conflict.Message)
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
