package app

import (
	"github.com/gin-gonic/gin"

	internalhttp "github.com/serenehq/serene-backend/internal/http"
	httpH "github.com/serenehq/serene-backend/internal/http/handlers"
	httpMW "github.com/serenehq/serene-backend/internal/http/middleware"
	"github.com/serenehq/serene-backend/internal/pkg/logger"
	"github.com/serenehq/serene-backend/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health            *httpH.HealthHandler
	Auth              *httpH.AuthHandler
	Analysis          *httpH.AnalysisHandler
	Conversation      *httpH.ConversationHandler
	Assessment        *httpH.AssessmentHandler
	PreferenceSummary *httpH.PreferenceSummaryHandler
	Events            *httpH.EventsHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, hub *realtime.Hub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:            httpH.NewHealthHandler(),
		Auth:              httpH.NewAuthHandler(serviceset.Auth),
		Analysis:          httpH.NewAnalysisHandler(log, serviceset.Analysis),
		Conversation:      httpH.NewConversationHandler(log, serviceset.Conversation),
		Assessment:        httpH.NewAssessmentHandler(log, serviceset.Assessment),
		PreferenceSummary: httpH.NewPreferenceSummaryHandler(log, serviceset.PreferenceSummary),
		Events:            httpH.NewEventsHandler(log, hub),
	}
}

func wireMiddleware(log *logger.Logger, serviceset Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, serviceset.Auth),
	}
}

func wireRouter(log *logger.Logger, handlerset Handlers, middleware Middleware) *gin.Engine {
	return internalhttp.NewRouter(internalhttp.RouterConfig{
		Log:                      log,
		HealthHandler:            handlerset.Health,
		AuthHandler:              handlerset.Auth,
		AuthMiddleware:           middleware.Auth,
		AnalysisHandler:          handlerset.Analysis,
		ConversationHandler:      handlerset.Conversation,
		AssessmentHandler:        handlerset.Assessment,
		PreferenceSummaryHandler: handlerset.PreferenceSummary,
		EventsHandler:            handlerset.Events,
	})
}
