package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/serenehq/serene-backend/internal/clients/insight"
	"github.com/serenehq/serene-backend/internal/data/repos"
	"github.com/serenehq/serene-backend/internal/domain"
	"github.com/serenehq/serene-backend/internal/pkg/logger"
	"github.com/serenehq/serene-backend/internal/realtime"
)

// EventNotifier is the outbound side of the realtime hub. Nil is valid and
// means no notifications.
type EventNotifier interface {
	Broadcast(msg realtime.Message)
}

// EnrichmentService derives a PreferenceSummary from a freshly saved
// Conversation. Schedule is called exactly once per successful save, after
// the save response has gone out; the work runs detached from the request
// lifecycle and nothing ever propagates back to the original caller.
type EnrichmentService interface {
	Schedule(conversation *domain.Conversation)
}

type enrichmentService struct {
	db           *gorm.DB
	log          *logger.Logger
	client       insight.Client
	summaryRepo  repos.PreferenceSummaryRepo
	convRepo     repos.ConversationRepo
	notifier     EventNotifier
	budget       time.Duration
	writeTimeout time.Duration
}

func NewEnrichmentService(
	db *gorm.DB,
	log *logger.Logger,
	client insight.Client,
	summaryRepo repos.PreferenceSummaryRepo,
	convRepo repos.ConversationRepo,
	notifier EventNotifier,
	summarizeTimeout time.Duration,
) EnrichmentService {
	return &enrichmentService{
		db:          db,
		log:         log.With("service", "EnrichmentService"),
		client:      client,
		summaryRepo: summaryRepo,
		convRepo:    convRepo,
		notifier:    notifier,
		// headroom over the upstream call for the two store writes
		budget:       summarizeTimeout + 30*time.Second,
		writeTimeout: 10 * time.Second,
	}
}

func (es *enrichmentService) Schedule(conversation *domain.Conversation) {
	if conversation == nil || conversation.ID == uuid.Nil {
		es.log.Warn("Schedule called without a saved conversation, skipping enrichment")
		return
	}
	// Detached: the request context that triggered the save must not be able
	// to cancel or wait on this.
	go es.run(conversation)
}

func (es *enrichmentService) run(conversation *domain.Conversation) {
	log := es.log.With("conversation_id", conversation.ID, "user_id", conversation.UserID)

	ctx, cancel := context.WithTimeout(context.Background(), es.budget)
	defer cancel()

	payload, err := es.client.SummarizePreferences(ctx, insight.SummarizeRequest{
		ConversationID:     conversation.ID,
		AllMessages:        json.RawMessage(conversation.AllMessages),
		SelectedTopics:     json.RawMessage(conversation.SelectedTopics),
		TopicConversations: json.RawMessage(conversation.TopicConversations),
		Timestamp:          conversation.CreatedAt,
	})
	if err != nil {
		// The conversation stays valid without a summary; nothing to retry,
		// no caller to tell.
		log.Warn("Preference summarization failed, conversation left without summary", "error", err)
		return
	}

	summary := &domain.PreferenceSummary{
		ID:                  uuid.New(),
		UserID:              conversation.UserID,
		ConversationID:      conversation.ID,
		CategoryPreferences: datatypes.JSON(payload.CategoryPreferences),
		OverallSummary:      payload.OverallSummary,
		GeneratedAt:         payload.Metadata.Timestamp,
		Model:               payload.Metadata.Model,
		MessageCount:        payload.Metadata.MessageCount,
		RAGUsed:             payload.Metadata.RAGUsed,
		VectorStoreID:       payload.Metadata.VectorStoreID,
	}
	if summary.GeneratedAt.IsZero() {
		summary.GeneratedAt = time.Now().UTC()
	}

	writeCtx, writeCancel := context.WithTimeout(context.Background(), es.writeTimeout)
	defer writeCancel()

	if _, err := es.summaryRepo.Create(writeCtx, nil, []*domain.PreferenceSummary{summary}); err != nil {
		log.Warn("Failed to persist preference summary", "error", err)
		return
	}

	// Two-step on purpose: summary row first, back-link second. A crash
	// between the steps leaves an unlinked summary, which is an accepted
	// recoverable inconsistency.
	if err := es.convRepo.SetPreferenceSummaryID(writeCtx, nil, conversation.ID, summary.ID); err != nil {
		log.Warn("Summary persisted but back-link update failed", "summary_id", summary.ID, "error", err)
		return
	}

	log.Info("Preference summary linked", "summary_id", summary.ID)

	if es.notifier != nil {
		es.notifier.Broadcast(realtime.Message{
			Channel: conversation.UserID.String(),
			Event:   realtime.EventPreferenceSummaryReady,
			Data: map[string]any{
				"conversation_id":       conversation.ID.String(),
				"preference_summary_id": summary.ID.String(),
			},
		})
	}
}
