package router

import (
	"github.com/gin-gonic/gin"

	"hireline.app/engine/internal/http/handler"
)

func LeadRouter(router *gin.RouterGroup, handler *handler.LeadHandler) {
	leads := router.Group("/leads")
	{
		leads.POST("/manual", handler.CreateManual)
		leads.GET("/manual", handler.ListManual)
		leads.POST("/manual/:lead_id/contacted", handler.MarkManualContacted)
		leads.POST("/website", handler.CreateWebsite)
		leads.GET("/website", handler.ListWebsite)
		leads.POST("/website/:lead_id/contacted", handler.MarkWebsiteContacted)
	}
	router.POST("/website-events", handler.RecordEvent)
	router.GET("/funnel/website/summary", handler.FunnelSummary)
}
