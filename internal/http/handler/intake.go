package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hireline.app/engine/internal/http/dto"
	"hireline.app/engine/internal/service"
)

type IntakeHandler struct {
	service *service.IntakeService
}

func NewIntakeHandler(service *service.IntakeService) *IntakeHandler {
	return &IntakeHandler{service: service}
}

func (h *IntakeHandler) CreateEmployerAndJob(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.EmployerIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid employer intake request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	employer, job, err := h.service.CreateEmployerAndJob(ctx, service.EmployerIntakeParams{
		EmployerName:          req.EmployerName,
		ContactPhone:          req.ContactPhone,
		Role:                  req.Role,
		RequiredTherapies:     req.RequiredTherapies,
		RequiredCertification: req.RequiredCertification,
		ShiftStart:            req.ShiftStart,
		ShiftEnd:              req.ShiftEnd,
		PayMin:                req.PayMin,
		PayMax:                req.PayMax,
		LocationName:          req.LocationName,
		Location:              req.Location,
		Languages:             req.Languages,
		SLADays:               req.SLADays,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.EmployerIntakeResponse{
		EmployerID: employer.ID,
		Job:        job,
	})
}

func (h *IntakeHandler) GetEmployer(c *gin.Context) {
	employerID, err := pathID(c, "employer_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employer id"})
		return
	}
	employer, err := h.service.GetEmployer(c.Request.Context(), employerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"employer": employer})
}

func (h *IntakeHandler) ListJobs(c *gin.Context) {
	jobs, err := h.service.ListJobs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (h *IntakeHandler) GetJob(c *gin.Context) {
	jobID, err := pathID(c, "job_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}
	job, err := h.service.GetJob(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *IntakeHandler) CloseJob(c *gin.Context) {
	jobID, err := pathID(c, "job_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}
	job, err := h.service.CloseJob(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func pathID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
