package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"hireline.app/engine/internal/http/dto"
	"hireline.app/engine/internal/service"
)

type CandidateHandler struct {
	workflow *service.WorkflowService
	intake   *service.IntakeService
}

func NewCandidateHandler(workflow *service.WorkflowService, intake *service.IntakeService) *CandidateHandler {
	return &CandidateHandler{workflow: workflow, intake: intake}
}

func (h *CandidateHandler) Ingest(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CandidateIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid candidate ingest request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	candidate, deduplicated, err := h.workflow.IngestCandidate(ctx, service.IngestCandidateParams{
		Name:                req.Name,
		Phone:               req.Phone,
		SourceChannel:       req.SourceChannel,
		Languages:           req.Languages,
		TherapyExperience:   req.TherapyExperience,
		ExperienceYears:     req.ExperienceYears,
		Certifications:      req.Certifications,
		ExpectedPay:         req.ExpectedPay,
		CurrentLocation:     req.CurrentLocation,
		PreferredShiftStart: req.PreferredShiftStart,
		PreferredShiftEnd:   req.PreferredShiftEnd,
		ReferredBy:          req.ReferredBy,
		LastEmployer:        req.LastEmployer,
		JobID:               req.JobID,
		Actor:               "api",
	})
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if deduplicated {
		status = http.StatusOK
	}
	c.JSON(status, dto.CandidateIngestResponse{Candidate: candidate, Deduplicated: deduplicated})
}

func (h *CandidateHandler) Get(c *gin.Context) {
	candidateID, err := pathID(c, "candidate_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidate id"})
		return
	}
	candidate, err := h.workflow.GetCandidate(c.Request.Context(), candidateID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidate": candidate})
}

func (h *CandidateHandler) Advance(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, candidateID int64, req dto.StageTransitionRequest) (any, error) {
		return h.workflow.Advance(ctx.Request.Context(), candidateID, req.JobID, req.TargetStage, req.Actor, req.Note)
	})
}

func (h *CandidateHandler) Reject(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, candidateID int64, req dto.StageTransitionRequest) (any, error) {
		return h.workflow.Reject(ctx.Request.Context(), candidateID, req.JobID, req.Actor, req.Note)
	})
}

func (h *CandidateHandler) Withdraw(c *gin.Context) {
	h.transition(c, func(ctx *gin.Context, candidateID int64, req dto.StageTransitionRequest) (any, error) {
		return h.workflow.Withdraw(ctx.Request.Context(), candidateID, req.JobID, req.Actor, req.Note)
	})
}

func (h *CandidateHandler) transition(c *gin.Context, apply func(*gin.Context, int64, dto.StageTransitionRequest) (any, error)) {
	candidateID, err := pathID(c, "candidate_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidate id"})
		return
	}

	var req dto.StageTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(c.Request.Context(), "invalid stage transition request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := apply(c, candidateID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event})
}

func (h *CandidateHandler) StageTrail(c *gin.Context) {
	candidateID, err := pathID(c, "candidate_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidate id"})
		return
	}
	events, err := h.workflow.StageTrail(c.Request.Context(), candidateID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StageTrailResponse{CandidateID: candidateID, Events: events})
}

func (h *CandidateHandler) Score(c *gin.Context) {
	ctx := c.Request.Context()
	candidateID, err := pathID(c, "candidate_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidate id"})
		return
	}

	var req dto.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	candidate, err := h.workflow.GetCandidate(ctx, candidateID)
	if err != nil {
		respondError(c, err)
		return
	}
	job, err := h.intake.GetJob(ctx, req.JobID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ScoreResponse{
		CandidateID: candidateID,
		JobID:       job.ID,
		Breakdown:   service.ScoreCandidate(candidate, job),
	})
}

func (h *CandidateHandler) Pipeline(c *gin.Context) {
	jobID, err := pathID(c, "job_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}
	pipeline, err := h.workflow.GetPipeline(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pipeline)
}
