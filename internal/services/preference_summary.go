package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/serenehq/serene-backend/internal/data/repos"
	"github.com/serenehq/serene-backend/internal/domain"
	"github.com/serenehq/serene-backend/internal/pkg/logger"
)

type PreferenceSummaryService interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.PreferenceSummary, error)
	GetByConversation(ctx context.Context, conversationID uuid.UUID) (*domain.PreferenceSummary, error)
	List(ctx context.Context) ([]*domain.PreferenceSummary, error)
}

type preferenceSummaryService struct {
	db          *gorm.DB
	log         *logger.Logger
	summaryRepo repos.PreferenceSummaryRepo
	convRepo    repos.ConversationRepo
}

func NewPreferenceSummaryService(
	db *gorm.DB,
	log *logger.Logger,
	summaryRepo repos.PreferenceSummaryRepo,
	convRepo repos.ConversationRepo,
) PreferenceSummaryService {
	return &preferenceSummaryService{
		db:          db,
		log:         log.With("service", "PreferenceSummaryService"),
		summaryRepo: summaryRepo,
		convRepo:    convRepo,
	}
}

func (ps *preferenceSummaryService) Get(ctx context.Context, id uuid.UUID) (*domain.PreferenceSummary, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := ps.summaryRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("fetch preference summary: %w", err)
	}
	if summary == nil {
		return nil, ErrNotFound
	}
	if err := requireOwned(summary, userID); err != nil {
		return nil, err
	}
	return summary, nil
}

// GetByConversation resolves a summary through its source conversation. A
// conversation without a summary is a normal state and maps to ErrNotFound,
// not a failure.
func (ps *preferenceSummaryService) GetByConversation(ctx context.Context, conversationID uuid.UUID) (*domain.PreferenceSummary, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	conversation, err := ps.convRepo.GetByID(ctx, nil, conversationID)
	if err != nil {
		return nil, fmt.Errorf("fetch conversation: %w", err)
	}
	if conversation == nil {
		return nil, ErrNotFound
	}
	if err := requireOwned(conversation, userID); err != nil {
		return nil, err
	}
	summary, err := ps.summaryRepo.GetByConversationID(ctx, nil, conversationID)
	if err != nil {
		return nil, fmt.Errorf("fetch preference summary: %w", err)
	}
	if summary == nil {
		return nil, ErrNotFound
	}
	return summary, nil
}

func (ps *preferenceSummaryService) List(ctx context.Context) ([]*domain.PreferenceSummary, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	summaries, err := ps.summaryRepo.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list preference summaries: %w", err)
	}
	return summaries, nil
}
