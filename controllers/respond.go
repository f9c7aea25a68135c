package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shubh1hulk/SIH-Demo/models"
)

// respond wraps a JSON reply in the models.APIResponse envelope every
// endpoint uses.
func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, models.APIResponse{
		Success:   status < http.StatusBadRequest,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// respondError maps domain errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case models.IsValidation(err):
		status = http.StatusBadRequest
	case models.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrServiceUnavailable):
		status = http.StatusServiceUnavailable
	}
	respond(c, status, err.Error(), nil)
}

func respondBadRequest(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, message, nil)
}
