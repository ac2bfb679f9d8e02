package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hisakawa/tsunagari/internal/entities"
)

// === Shared helpers for all handlers ===

// respondError maps a service error onto an HTTP status and writes the
// JSON envelope. Handlers own all user-facing message text; 4xx responses
// echo the error, 5xx responses hide it behind a generic message.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		message = "internal server error"
	}
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entities.ErrInvalidArgument), errors.Is(err, entities.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound
	default:
		// ErrUnavailable and anything unexpected.
		return http.StatusInternalServerError
	}
}

// respondOK writes the success envelope, merging payload into the body.
func respondOK(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}
