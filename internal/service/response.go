package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/splitshare/internal/draft"
	"github.com/mmynk/splitshare/internal/storage"
)

// APIResponse is the envelope every endpoint responds with.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, APIResponse{Success: true, Data: data})
}

func respondFail(c *gin.Context, status int, message string, data any) {
	c.JSON(status, APIResponse{Success: false, Message: message, Data: data})
}

func badRequest(c *gin.Context, message string) {
	respondFail(c, http.StatusBadRequest, message, nil)
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, draft.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		respondFail(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, draft.ErrUnknownParticipant):
		respondFail(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, draft.ErrStrategyMismatch):
		respondFail(c, http.StatusConflict, err.Error(), nil)
	default:
		slog.Error("Unhandled error", "path", c.Request.URL.Path, "error", err)
		respondFail(c, http.StatusInternalServerError, "internal server error", nil)
	}
}
