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
	"github.com/serenehq/serene-backend/internal/realtime"
)

type SaveConversationInput struct {
	SelectedTopics     []string        `json:"selected_topics"`
	TopicConversations json.RawMessage `json:"topic_conversations"`
	AllMessages        json.RawMessage `json:"all_messages"`
}

type ConversationService interface {
	// Save persists the conversation and returns as soon as the insert
	// acknowledges. Enrichment is scheduled after that, detached, so save
	// latency never depends on the summarization service.
	Save(ctx context.Context, input SaveConversationInput) (*domain.Conversation, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	List(ctx context.Context) ([]*domain.Conversation, error)
}

type conversationService struct {
	db       *gorm.DB
	log      *logger.Logger
	convRepo repos.ConversationRepo
	enricher EnrichmentService
	notifier EventNotifier
}

func NewConversationService(
	db *gorm.DB,
	log *logger.Logger,
	convRepo repos.ConversationRepo,
	enricher EnrichmentService,
	notifier EventNotifier,
) ConversationService {
	return &conversationService{
		db:       db,
		log:      log.With("service", "ConversationService"),
		convRepo: convRepo,
		enricher: enricher,
		notifier: notifier,
	}
}

func (cs *conversationService) Save(ctx context.Context, input SaveConversationInput) (*domain.Conversation, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if len(input.SelectedTopics) == 0 && len(input.AllMessages) == 0 {
		return nil, fmt.Errorf("conversation has no topics and no messages")
	}

	topics, err := json.Marshal(input.SelectedTopics)
	if err != nil {
		return nil, fmt.Errorf("serialize selected topics: %w", err)
	}
	topicConversations := input.TopicConversations
	if len(topicConversations) == 0 {
		topicConversations = json.RawMessage(`{}`)
	}
	allMessages := input.AllMessages
	if len(allMessages) == 0 {
		allMessages = json.RawMessage(`[]`)
	}

	conversation := &domain.Conversation{
		ID:                 uuid.New(),
		UserID:             userID,
		SelectedTopics:     datatypes.JSON(topics),
		TopicConversations: datatypes.JSON(topicConversations),
		AllMessages:        datatypes.JSON(allMessages),
		CreatedAt:          time.Now().UTC(),
	}

	created, err := cs.convRepo.Create(ctx, nil, []*domain.Conversation{conversation})
	if err != nil {
		return nil, fmt.Errorf("persist conversation: %w", err)
	}
	saved := created[0]

	// One-shot trigger, after the write acknowledged. The caller gets the
	// saved record back while summarization happens in the background.
	cs.enricher.Schedule(saved)

	if cs.notifier != nil {
		cs.notifier.Broadcast(realtime.Message{
			Channel: userID.String(),
			Event:   realtime.EventConversationSaved,
			Data:    map[string]any{"conversation_id": saved.ID.String()},
		})
	}

	return saved, nil
}

func (cs *conversationService) Get(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	conversation, err := cs.convRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("fetch conversation: %w", err)
	}
	if conversation == nil {
		return nil, ErrNotFound
	}
	if err := requireOwned(conversation, userID); err != nil {
		return nil, err
	}
	return conversation, nil
}

func (cs *conversationService) List(ctx context.Context) ([]*domain.Conversation, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	conversations, err := cs.convRepo.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return conversations, nil
}
