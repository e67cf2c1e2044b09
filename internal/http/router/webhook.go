package router

import (
	"github.com/gin-gonic/gin"

	"hireline.app/engine/internal/http/handler/webhook"
)

func WebhookRouter(router *gin.RouterGroup, handler *webhook.Handler) {
	router.POST("/whatsapp", handler.WhatsApp)
	router.POST("/telephony", handler.Telephony)
	router.GET("/deliveries", handler.ListDeliveries)
}
