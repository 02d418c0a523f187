package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/serenehq/serene-backend/internal/http/handlers"
	httpMW "github.com/serenehq/serene-backend/internal/http/middleware"
	"github.com/serenehq/serene-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	HealthHandler            *httpH.HealthHandler
	AuthHandler              *httpH.AuthHandler
	AuthMiddleware           *httpMW.AuthMiddleware
	AnalysisHandler          *httpH.AnalysisHandler
	ConversationHandler      *httpH.ConversationHandler
	AssessmentHandler        *httpH.AssessmentHandler
	PreferenceSummaryHandler *httpH.PreferenceSummaryHandler
	EventsHandler            *httpH.EventsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AnalysisHandler != nil {
			protected.POST("/analysis", cfg.AnalysisHandler.Analyze)
		}

		if cfg.ConversationHandler != nil {
			protected.POST("/conversations", cfg.ConversationHandler.Save)
			protected.GET("/conversations", cfg.ConversationHandler.List)
			protected.GET("/conversations/:id", cfg.ConversationHandler.Get)
		}

		if cfg.AssessmentHandler != nil {
			protected.POST("/assessments", cfg.AssessmentHandler.Save)
			protected.GET("/assessments", cfg.AssessmentHandler.List)
			protected.GET("/assessments/:id", cfg.AssessmentHandler.Get)
		}

		if cfg.PreferenceSummaryHandler != nil {
			protected.GET("/preference-summaries", cfg.PreferenceSummaryHandler.List)
			protected.GET("/preference-summaries/:id", cfg.PreferenceSummaryHandler.Get)
			protected.GET("/conversations/:id/preference-summary", cfg.PreferenceSummaryHandler.GetByConversation)
		}

		if cfg.EventsHandler != nil {
			protected.GET("/events/stream", cfg.EventsHandler.Stream)
		}
	}

	return r
}
