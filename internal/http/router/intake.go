package router

import (
	"github.com/gin-gonic/gin"

	"hireline.app/engine/internal/http/handler"
)

func IntakeRouter(router *gin.RouterGroup, handler *handler.IntakeHandler) {
	router.POST("/employers/intake", handler.CreateEmployerAndJob)
	router.GET("/employers/:employer_id", handler.GetEmployer)
	router.GET("/jobs", handler.ListJobs)
	router.GET("/jobs/:job_id", handler.GetJob)
	router.POST("/jobs/:job_id/close", handler.CloseJob)
}
