package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/serenehq/serene-backend/internal/clients/insight"
	"github.com/serenehq/serene-backend/internal/pkg/logger"
)

// AnalysisService is the synchronous request/response bridge between an
// uploaded image and the insight service. One upstream call per inbound call;
// every failure reaches the caller.
type AnalysisService interface {
	AnalyzeImage(ctx context.Context, userID uuid.UUID, image insight.ImageUpload) (*insight.AnalysisResult, error)
}

type analysisService struct {
	log        *logger.Logger
	aggregator ContextAggregator
	client     insight.Client
}

func NewAnalysisService(log *logger.Logger, aggregator ContextAggregator, client insight.Client) AnalysisService {
	return &analysisService{
		log:        log.With("service", "AnalysisService"),
		aggregator: aggregator,
		client:     client,
	}
}

func (as *analysisService) AnalyzeImage(ctx context.Context, userID uuid.UUID, image insight.ImageUpload) (*insight.AnalysisResult, error) {
	userContext := as.aggregator.BuildUserContext(ctx, userID)

	var contextJSON []byte
	if !userContext.Empty() {
		var err error
		contextJSON, err = json.Marshal(userContext)
		if err != nil {
			return nil, fmt.Errorf("serialize user context: %w", err)
		}
	}

	result, err := as.client.Analyze(ctx, image, contextJSON)
	if err != nil {
		as.log.Warn("Image analysis failed", "user_id", userID, "error", err)
		return nil, err
	}
	return result, nil
}
