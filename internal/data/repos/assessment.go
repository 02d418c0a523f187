package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/serenehq/serene-backend/internal/domain"
	"github.com/serenehq/serene-backend/internal/pkg/logger"
)

type AssessmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, assessments []*domain.Assessment) ([]*domain.Assessment, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Assessment, error)
	GetMostRecentByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.Assessment, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Assessment, error)
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	return &assessmentRepo{db: db, log: baseLog.With("repo", "AssessmentRepo")}
}

func (ar *assessmentRepo) Create(ctx context.Context, tx *gorm.DB, assessments []*domain.Assessment) ([]*domain.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if len(assessments) == 0 {
		return []*domain.Assessment{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&assessments).Error; err != nil {
		return nil, err
	}
	return assessments, nil
}

func (ar *assessmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var result domain.Assessment
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

func (ar *assessmentRepo) GetMostRecentByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var result domain.Assessment
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

func (ar *assessmentRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Assessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*domain.Assessment
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, seq DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
