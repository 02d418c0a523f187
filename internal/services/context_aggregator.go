package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/serenehq/serene-backend/internal/data/repos"
	"github.com/serenehq/serene-backend/internal/pkg/logger"
)

// UserContext is the reduced history payload sent alongside an image to the
// insight service. Keys are omitted entirely when the user has no history of
// that kind.
type UserContext struct {
	Conversation *ConversationContext `json:"conversation,omitempty"`
	Assessment   *AssessmentContext   `json:"assessment,omitempty"`
}

type ConversationContext struct {
	SelectedTopics     json.RawMessage `json:"selected_topics,omitempty"`
	TopicConversations json.RawMessage `json:"topic_conversations,omitempty"`
}

type AssessmentContext struct {
	SelectedIssues   json.RawMessage `json:"selected_issues,omitempty"`
	Comments         string          `json:"comments,omitempty"`
	NoChangeComments string          `json:"no_change_comments,omitempty"`
}

func (uc *UserContext) Empty() bool {
	return uc == nil || (uc.Conversation == nil && uc.Assessment == nil)
}

// ContextAggregator assembles the most recent conversation and assessment for
// a user. It is read-only and never fails the caller: a lookup error degrades
// to "no context of that kind" so the primary analysis flow stays available.
type ContextAggregator interface {
	BuildUserContext(ctx context.Context, userID uuid.UUID) *UserContext
}

type contextAggregator struct {
	db               *gorm.DB
	log              *logger.Logger
	conversationRepo repos.ConversationRepo
	assessmentRepo   repos.AssessmentRepo
}

func NewContextAggregator(
	db *gorm.DB,
	log *logger.Logger,
	conversationRepo repos.ConversationRepo,
	assessmentRepo repos.AssessmentRepo,
) ContextAggregator {
	return &contextAggregator{
		db:               db,
		log:              log.With("service", "ContextAggregator"),
		conversationRepo: conversationRepo,
		assessmentRepo:   assessmentRepo,
	}
}

func (ca *contextAggregator) BuildUserContext(ctx context.Context, userID uuid.UUID) *UserContext {
	uc := &UserContext{}
	if userID == uuid.Nil {
		return uc
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		conv, err := ca.conversationRepo.GetMostRecentByUserID(gctx, nil, userID)
		if err != nil {
			ca.log.Warn("Conversation lookup failed, omitting conversation context", "user_id", userID, "error", err)
			return nil
		}
		if conv == nil {
			return nil
		}
		uc.Conversation = &ConversationContext{
			SelectedTopics:     json.RawMessage(conv.SelectedTopics),
			TopicConversations: json.RawMessage(conv.TopicConversations),
		}
		return nil
	})

	g.Go(func() error {
		assessment, err := ca.assessmentRepo.GetMostRecentByUserID(gctx, nil, userID)
		if err != nil {
			ca.log.Warn("Assessment lookup failed, omitting assessment context", "user_id", userID, "error", err)
			return nil
		}
		if assessment == nil {
			return nil
		}
		uc.Assessment = &AssessmentContext{
			SelectedIssues:   json.RawMessage(assessment.SelectedIssues),
			Comments:         assessment.Comments,
			NoChangeComments: assessment.NoChangeComments,
		}
		return nil
	})

	// Both goroutines swallow their own errors, so Wait cannot fail.
	_ = g.Wait()
	return uc
}
