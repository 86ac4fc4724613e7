package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/learnpath/core-service/internal/http/handlers"
	httpMW "github.com/learnpath/core-service/internal/http/middleware"
	"github.com/learnpath/core-service/internal/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	PathHandler      *httpH.PathHandler
	KnowledgeHandler *httpH.KnowledgeHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachTraceContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Learning paths (conversational planner)
		if cfg.PathHandler != nil {
			api.POST("/learning-paths/start", cfg.PathHandler.StartPath)
			api.POST("/learning-paths/:thread_id/resume", cfg.PathHandler.ResumePath)
			api.GET("/learning-paths", cfg.PathHandler.ListPaths)
			api.GET("/learning-paths/:thread_id", cfg.PathHandler.GetPath)
			api.GET("/learning-paths/:thread_id/conversation", cfg.PathHandler.GetConversation)
			api.GET("/learning-paths/:thread_id/graph", cfg.PathHandler.GetPathGraph)
		}

		// User knowledge
		if cfg.KnowledgeHandler != nil {
			api.POST("/users/:user_id/knowledge/known/:concept_id", cfg.KnowledgeHandler.MarkKnown)
			api.POST("/users/:user_id/knowledge/learning/:concept_id", cfg.KnowledgeHandler.MarkLearning)
			api.POST("/users/:user_id/knowledge/paths/:thread_id", cfg.KnowledgeHandler.AssignPath)
			api.GET("/users/:user_id/knowledge/known", cfg.KnowledgeHandler.KnownConcepts)
			api.GET("/users/:user_id/knowledge/known/:concept_id", cfg.KnowledgeHandler.KnowsConcept)
			api.GET("/users/:user_id/knowledge/learning", cfg.KnowledgeHandler.LearningConcepts)
			api.GET("/users/:user_id/graph", cfg.KnowledgeHandler.GetUserGraph)
		}
	}

	return r
}
