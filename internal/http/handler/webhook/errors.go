package webhook

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"hireline.app/engine/internal/persist"
	"hireline.app/engine/internal/service"
	"hireline.app/engine/internal/store"
)

func respondLedgerError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrConflict):
		// Same delivery id already in flight; the provider retries.
		c.JSON(http.StatusConflict, gin.H{"error": "delivery already in flight"})
	case errors.Is(err, persist.ErrSnapshot):
		slog.ErrorContext(ctx, "delivery recorded but snapshot failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "persistence failure"})
	default:
		slog.ErrorContext(ctx, "webhook processing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
