package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/serenehq/serene-backend/internal/domain"
	"github.com/serenehq/serene-backend/internal/pkg/logger"
)

type PreferenceSummaryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, summaries []*domain.PreferenceSummary) ([]*domain.PreferenceSummary, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.PreferenceSummary, error)
	GetByConversationID(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID) (*domain.PreferenceSummary, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.PreferenceSummary, error)
}

type preferenceSummaryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPreferenceSummaryRepo(db *gorm.DB, baseLog *logger.Logger) PreferenceSummaryRepo {
	return &preferenceSummaryRepo{db: db, log: baseLog.With("repo", "PreferenceSummaryRepo")}
}

func (pr *preferenceSummaryRepo) Create(ctx context.Context, tx *gorm.DB, summaries []*domain.PreferenceSummary) ([]*domain.PreferenceSummary, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(summaries) == 0 {
		return []*domain.PreferenceSummary{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

func (pr *preferenceSummaryRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.PreferenceSummary, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var result domain.PreferenceSummary
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (pr *preferenceSummaryRepo) GetByConversationID(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID) (*domain.PreferenceSummary, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var result domain.PreferenceSummary
	if err := transaction.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (pr *preferenceSummaryRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.PreferenceSummary, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*domain.PreferenceSummary
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
