package router

import (
	"github.com/gin-gonic/gin"

	"hireline.app/engine/internal/http/handler"
)

func CandidateRouter(router *gin.RouterGroup, handler *handler.CandidateHandler) {
	candidates := router.Group("/candidates")
	{
		candidates.POST("/ingest", handler.Ingest)
		candidates.GET("/:candidate_id", handler.Get)
		candidates.POST("/:candidate_id/advance", handler.Advance)
		candidates.POST("/:candidate_id/reject", handler.Reject)
		candidates.POST("/:candidate_id/withdraw", handler.Withdraw)
		candidates.GET("/:candidate_id/stage-events", handler.StageTrail)
		candidates.POST("/:candidate_id/score", handler.Score)
	}
	router.GET("/jobs/:job_id/pipeline", handler.Pipeline)
}
