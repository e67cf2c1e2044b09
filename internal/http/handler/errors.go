package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"hireline.app/engine/internal/persist"
	"hireline.app/engine/internal/service"
	"hireline.app/engine/internal/store"
)

// respondError maps the engine error taxonomy onto HTTP statuses. Responses
// never echo candidate names, phones, or notes.
func respondError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var invalidTransition *store.InvalidTransitionError
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &invalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": invalidTransition.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "concurrent update in progress, retry"})
	case errors.Is(err, persist.ErrSnapshot):
		// The mutation is applied in memory; only durability lagged.
		slog.ErrorContext(ctx, "snapshot persistence failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "persistence failure"})
	default:
		slog.ErrorContext(ctx, "request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
