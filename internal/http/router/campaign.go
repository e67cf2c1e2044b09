package router

import (
	"github.com/gin-gonic/gin"

	"hireline.app/engine/internal/http/handler"
)

func CampaignRouter(router *gin.RouterGroup, handler *handler.CampaignHandler) {
	router.GET("", handler.List)
	router.POST("/first-n/bootstrap", handler.Bootstrap)
	router.POST("/:campaign_id/events", handler.ApplyEvent)
	router.GET("/:campaign_id/progress", handler.Progress)
}
