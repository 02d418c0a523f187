package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/serenehq/serene-backend/internal/domain"
	"github.com/serenehq/serene-backend/internal/pkg/logger"
)

type ConversationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, conversations []*domain.Conversation) ([]*domain.Conversation, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Conversation, error)
	GetMostRecentByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.Conversation, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Conversation, error)
	SetPreferenceSummaryID(ctx context.Context, tx *gorm.DB, conversationID, summaryID uuid.UUID) error
}

type conversationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConversationRepo(db *gorm.DB, baseLog *logger.Logger) ConversationRepo {
	return &conversationRepo{db: db, log: baseLog.With("repo", "ConversationRepo")}
}

func (cr *conversationRepo) Create(ctx context.Context, tx *gorm.DB, conversations []*domain.Conversation) ([]*domain.Conversation, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(conversations) == 0 {
		return []*domain.Conversation{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&conversations).Error; err != nil {
		return nil, err
	}
	return conversations, nil
}

func (cr *conversationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Conversation, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result domain.Conversation
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

// GetMostRecentByUserID returns the latest conversation by creation time,
// with seq breaking ties in insertion order. Returns nil when the user has
// no conversations.
func (cr *conversationRepo) GetMostRecentByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.Conversation, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result domain.Conversation
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, seq DESC").
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (cr *conversationRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Conversation, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*domain.Conversation
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, seq DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// SetPreferenceSummaryID is the single-field back-link update performed by
// enrichment after the summary row exists.
func (cr *conversationRepo) SetPreferenceSummaryID(ctx context.Context, tx *gorm.DB, conversationID, summaryID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", conversationID).
		Update("preference_summary_id", summaryID).Error
}
