package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/serenehq/serene-backend/internal/clients/insight"
	"github.com/serenehq/serene-backend/internal/pkg/logger"
	"github.com/serenehq/serene-backend/internal/platform/media"
	"github.com/serenehq/serene-backend/internal/services"
)

type Services struct {
	Auth              services.AuthService
	Aggregator        services.ContextAggregator
	Analysis          services.AnalysisService
	Enrichment        services.EnrichmentService
	Conversation      services.ConversationService
	Assessment        services.AssessmentService
	PreferenceSummary services.PreferenceSummaryService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, notifier services.EventNotifier) (Services, error) {
	log.Info("Wiring services...")

	mediaStore, err := media.NewStore(log)
	if err != nil {
		return Services{}, fmt.Errorf("init media store: %w", err)
	}

	insightClient := insight.NewClient(log, cfg.Insight)

	aggregator := services.NewContextAggregator(db, log, reposet.Conversation, reposet.Assessment)
	analysis := services.NewAnalysisService(log, aggregator, insightClient)
	enrichment := services.NewEnrichmentService(
		db,
		log,
		insightClient,
		reposet.PreferenceSummary,
		reposet.Conversation,
		notifier,
		cfg.Insight.SummarizeTimeout,
	)

	return Services{
		Auth:              services.NewAuthService(db, log, reposet.User, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Aggregator:        aggregator,
		Analysis:          analysis,
		Enrichment:        enrichment,
		Conversation:      services.NewConversationService(db, log, reposet.Conversation, enrichment, notifier),
		Assessment:        services.NewAssessmentService(db, log, reposet.Assessment, mediaStore),
		PreferenceSummary: services.NewPreferenceSummaryService(db, log, reposet.PreferenceSummary, reposet.Conversation),
	}, nil
}
