package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"hireline.app/engine/internal/http/dto"
	"hireline.app/engine/internal/service"
)

type CampaignHandler struct {
	funnel *service.FunnelService
}

func NewCampaignHandler(funnel *service.FunnelService) *CampaignHandler {
	return &CampaignHandler{funnel: funnel}
}

func (h *CampaignHandler) Bootstrap(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CampaignBootstrapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid campaign bootstrap request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.funnel.Bootstrap(ctx, service.BootstrapParams{
		EmployerName:      req.EmployerName,
		City:              req.City,
		NeighborhoodFocus: req.NeighborhoodFocus,
		WhatsAppNumber:    req.WhatsAppNumber,
		TargetJoiners:     req.TargetJoiners,
		FresherPreferred:  req.FresherPreferred,
		SLAMinutes:        req.SLAMinutes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *CampaignHandler) ApplyEvent(c *gin.Context) {
	ctx := c.Request.Context()
	campaignID, err := pathID(c, "campaign_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid campaign id"})
		return
	}

	var req dto.CampaignEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid campaign event request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	progress, err := h.funnel.ApplyEvent(ctx, campaignID, req.EventType, req.Count, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *CampaignHandler) List(c *gin.Context) {
	progress, err := h.funnel.ListProgress(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": progress})
}

func (h *CampaignHandler) Progress(c *gin.Context) {
	campaignID, err := pathID(c, "campaign_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid campaign id"})
		return
	}
	progress, err := h.funnel.Progress(c.Request.Context(), campaignID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}
