package router

import (
	"github.com/gin-gonic/gin"

	"hireline.app/engine/core/config"
	"hireline.app/engine/internal/http/handler"
	"hireline.app/engine/internal/http/handler/webhook"
	"hireline.app/engine/internal/service"
)

func SetupRoutes(router *gin.Engine, services *service.Services, cfg config.Config) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	webhookHandler := webhook.NewHandler(services.Ledger, cfg.Webhooks)
	WebhookRouter(router.Group("/webhooks"), webhookHandler)

	v1 := router.Group("/api/v1")
	{
		intakeHandler := handler.NewIntakeHandler(services.Intake)
		IntakeRouter(v1, intakeHandler)

		candidateHandler := handler.NewCandidateHandler(services.Workflow, services.Intake)
		CandidateRouter(v1, candidateHandler)

		leadHandler := handler.NewLeadHandler(services.Leads)
		LeadRouter(v1, leadHandler)

		campaignHandler := handler.NewCampaignHandler(services.Funnel)
		CampaignRouter(v1.Group("/campaigns"), campaignHandler)
	}
}
