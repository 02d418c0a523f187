package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/serenehq/serene-backend/internal/data/repos"
	"github.com/serenehq/serene-backend/internal/domain"
	"github.com/serenehq/serene-backend/internal/pkg/logger"
	"github.com/serenehq/serene-backend/internal/platform/media"
)

type SaveAssessmentInput struct {
	SelectedIssues   []string
	Comments         string
	NoChangeComments string
	ImageData        []byte
	ImageName        string
}

type AssessmentService interface {
	Save(ctx context.Context, input SaveAssessmentInput) (*domain.Assessment, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Assessment, error)
	List(ctx context.Context) ([]*domain.Assessment, error)
}

type assessmentService struct {
	db             *gorm.DB
	log            *logger.Logger
	assessmentRepo repos.AssessmentRepo
	mediaStore     media.Store
}

func NewAssessmentService(
	db *gorm.DB,
	log *logger.Logger,
	assessmentRepo repos.AssessmentRepo,
	mediaStore media.Store,
) AssessmentService {
	return &assessmentService{
		db:             db,
		log:            log.With("service", "AssessmentService"),
		assessmentRepo: assessmentRepo,
		mediaStore:     mediaStore,
	}
}

func (as *assessmentService) Save(ctx context.Context, input SaveAssessmentInput) (*domain.Assessment, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if len(input.SelectedIssues) == 0 && input.Comments == "" && input.NoChangeComments == "" {
		return nil, fmt.Errorf("assessment is empty")
	}

	imagePath := ""
	if len(input.ImageData) > 0 {
		imagePath, err = as.mediaStore.SaveImage(input.ImageData, input.ImageName)
		if err != nil {
			return nil, fmt.Errorf("store assessment image: %w", err)
		}
	}

	issues, err := json.Marshal(input.SelectedIssues)
	if err != nil {
		return nil, fmt.Errorf("serialize selected issues: %w", err)
	}

	assessment := &domain.Assessment{
		ID:               uuid.New(),
		UserID:           userID,
		SelectedIssues:   datatypes.JSON(issues),
		Comments:         input.Comments,
		NoChangeComments: input.NoChangeComments,
		ImagePath:        imagePath,
		CreatedAt:        time.Now().UTC(),
	}

	created, err := as.assessmentRepo.Create(ctx, nil, []*domain.Assessment{assessment})
	if err != nil {
		return nil, fmt.Errorf("persist assessment: %w", err)
	}
	return created[0], nil
}

func (as *assessmentService) Get(ctx context.Context, id uuid.UUID) (*domain.Assessment, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	assessment, err := as.assessmentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("fetch assessment: %w", err)
	}
	if assessment == nil {
		return nil, ErrNotFound
	}
	if err := requireOwned(assessment, userID); err != nil {
		return nil, err
	}
	return assessment, nil
}

func (as *assessmentService) List(ctx context.Context) ([]*domain.Assessment, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	assessments, err := as.assessmentRepo.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return assessments, nil
}
