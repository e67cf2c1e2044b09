package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hireline.app/engine/internal/http/dto"
	"hireline.app/engine/internal/model"
	"hireline.app/engine/internal/service"
)

type LeadHandler struct {
	leads *service.LeadService
}

func NewLeadHandler(leads *service.LeadService) *LeadHandler {
	return &LeadHandler{leads: leads}
}

func (h *LeadHandler) CreateManual(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ManualLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid manual lead request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead, candidate, deduplicated, err := h.leads.CreateManualLead(ctx, service.ManualLeadParams{
		SourceChannel: req.SourceChannel,
		Name:          req.Name,
		Phone:         req.Phone,
		Neighborhood:  req.Neighborhood,
		Notes:         req.Notes,
		CreatedBy:     req.CreatedBy,
		JobID:         req.JobID,
		Languages:     req.Languages,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ManualLeadResponse{
		Lead:         lead,
		CandidateID:  candidate.ID,
		Deduplicated: deduplicated,
	})
}

func (h *LeadHandler) ListManual(c *gin.Context) {
	filter := service.ManualLeadFilter{
		Search:      c.Query("q"),
		Uncontacted: c.Query("uncontacted") == "true",
		Limit:       queryInt(c, "limit", 50),
	}
	if source := c.Query("source_channel"); source != "" {
		channel := model.SourceChannel(source)
		filter.SourceChannel = &channel
	}
	if neighborhood := c.Query("neighborhood"); neighborhood != "" {
		filter.Neighborhood = &neighborhood
	}
	if createdBy := c.Query("created_by"); createdBy != "" {
		filter.CreatedBy = &createdBy
	}
	from, err := queryDate(c, "date_from", time.Time{})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_from"})
		return
	}
	if !from.IsZero() {
		filter.From = &from
	}
	to, err := queryDate(c, "date_to", time.Time{})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_to"})
		return
	}
	if !to.IsZero() {
		filter.To = &to
	}

	leads, err := h.leads.ListManualLeads(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": leads})
}

func (h *LeadHandler) MarkManualContacted(c *gin.Context) {
	leadID, err := pathID(c, "lead_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead id"})
		return
	}
	lead, err := h.leads.MarkManualLeadContacted(c.Request.Context(), leadID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lead": lead})
}

func (h *LeadHandler) CreateWebsite(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.WebsiteLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid website lead request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead, candidate, deduplicated, err := h.leads.CreateWebsiteLead(ctx, service.WebsiteLeadParams{
		Name:         req.Name,
		Phone:        req.Phone,
		Neighborhood: req.Neighborhood,
		CampaignID:   req.CampaignID,
		JobID:        req.JobID,
		Languages:    req.Languages,
		UTMSource:    req.UTMSource,
		UTMMedium:    req.UTMMedium,
		UTMCampaign:  req.UTMCampaign,
		UTMTerm:      req.UTMTerm,
		UTMContent:   req.UTMContent,
		LandingPath:  req.LandingPath,
		Referrer:     req.Referrer,
		SessionID:    req.SessionID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.WebsiteLeadResponse{
		Lead:         lead,
		CandidateID:  candidate.ID,
		Deduplicated: deduplicated,
	})
}

func (h *LeadHandler) ListWebsite(c *gin.Context) {
	query := service.WebsiteLeadQuery{
		Mode:  service.QueueMode(c.DefaultQuery("queue_mode", string(service.QueueAll))),
		Limit: queryInt(c, "limit", 50),
	}
	if raw := c.Query("campaign_id"); raw != "" {
		campaignID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid campaign id"})
			return
		}
		query.CampaignID = &campaignID
	}

	leads, err := h.leads.ListWebsiteLeads(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": leads})
}

func (h *LeadHandler) MarkWebsiteContacted(c *gin.Context) {
	leadID, err := pathID(c, "lead_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead id"})
		return
	}
	lead, err := h.leads.MarkWebsiteLeadContacted(c.Request.Context(), leadID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lead": lead})
}

func (h *LeadHandler) RecordEvent(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.WebsiteEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid website event request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.leads.RecordWebsiteEvent(ctx, service.WebsiteEventParams{
		EventType:   req.EventType,
		LeadID:      req.LeadID,
		CampaignID:  req.CampaignID,
		SessionID:   req.SessionID,
		UTMSource:   req.UTMSource,
		UTMMedium:   req.UTMMedium,
		UTMCampaign: req.UTMCampaign,
		LandingPath: req.LandingPath,
		Referrer:    req.Referrer,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": event})
}

func (h *LeadHandler) FunnelSummary(c *gin.Context) {
	from, err := queryDate(c, "date_from", time.Now().UTC().AddDate(0, 0, -7))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_from"})
		return
	}
	to, err := queryDate(c, "date_to", time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_to"})
		return
	}

	var campaignID *int64
	if raw := c.Query("campaign_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid campaign id"})
			return
		}
		campaignID = &parsed
	}

	summary, err := h.leads.FunnelSummary(c.Request.Context(), from, to, campaignID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	if raw := c.Query(name); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			return value
		}
	}
	return fallback
}

// queryDate parses a YYYY-MM-DD query parameter. The end of a date range is
// pushed to the end of that day so the range is inclusive.
func queryDate(c *gin.Context, name string, fallback time.Time) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	if name == "date_to" {
		parsed = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	return parsed, nil
}
