package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/serenehq/serene-backend/internal/clients/insight"
	"github.com/serenehq/serene-backend/internal/domain"
	"github.com/serenehq/serene-backend/internal/pkg/ctxutil"
	"github.com/serenehq/serene-backend/internal/pkg/logger"
	"github.com/serenehq/serene-backend/internal/realtime"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func authedContext(userID uuid.UUID) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: userID})
}

type fakeConversationRepo struct {
	mu sync.Mutex

	mostRecent    *domain.Conversation
	mostRecentErr error

	byID    map[uuid.UUID]*domain.Conversation
	byIDErr error

	listed  []*domain.Conversation
	listErr error

	created   []*domain.Conversation
	createErr error

	backLinks   map[uuid.UUID]uuid.UUID
	backLinkErr error
}

func (f *fakeConversationRepo) Create(ctx context.Context, tx *gorm.DB, conversations []*domain.Conversation) ([]*domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, conversations...)
	return conversations, nil
}

func (f *fakeConversationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byID[id], nil
}

func (f *fakeConversationRepo) GetMostRecentByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mostRecentErr != nil {
		return nil, f.mostRecentErr
	}
	return f.mostRecent, nil
}

func (f *fakeConversationRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listed, nil
}

func (f *fakeConversationRepo) SetPreferenceSummaryID(ctx context.Context, tx *gorm.DB, conversationID, summaryID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.backLinkErr != nil {
		return f.backLinkErr
	}
	if f.backLinks == nil {
		f.backLinks = make(map[uuid.UUID]uuid.UUID)
	}
	f.backLinks[conversationID] = summaryID
	return nil
}

func (f *fakeConversationRepo) backLinkFor(conversationID uuid.UUID) (uuid.UUID, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.backLinks[conversationID]
	return id, ok
}

type fakeAssessmentRepo struct {
	mu sync.Mutex

	mostRecent    *domain.Assessment
	mostRecentErr error

	byID map[uuid.UUID]*domain.Assessment

	listed  []*domain.Assessment
	listErr error

	created   []*domain.Assessment
	createErr error
}

func (f *fakeAssessmentRepo) Create(ctx context.Context, tx *gorm.DB, assessments []*domain.Assessment) ([]*domain.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, assessments...)
	return assessments, nil
}

func (f *fakeAssessmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id], nil
}

func (f *fakeAssessmentRepo) GetMostRecentByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mostRecentErr != nil {
		return nil, f.mostRecentErr
	}
	return f.mostRecent, nil
}

func (f *fakeAssessmentRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listed, nil
}

type fakeSummaryRepo struct {
	mu sync.Mutex

	created   []*domain.PreferenceSummary
	createErr error

	byID           map[uuid.UUID]*domain.PreferenceSummary
	byConversation map[uuid.UUID]*domain.PreferenceSummary

	listed  []*domain.PreferenceSummary
	listErr error
}

func (f *fakeSummaryRepo) Create(ctx context.Context, tx *gorm.DB, summaries []*domain.PreferenceSummary) ([]*domain.PreferenceSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, summaries...)
	return summaries, nil
}

func (f *fakeSummaryRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.PreferenceSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id], nil
}

func (f *fakeSummaryRepo) GetByConversationID(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID) (*domain.PreferenceSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byConversation[conversationID], nil
}

func (f *fakeSummaryRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*domain.PreferenceSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listed, nil
}

func (f *fakeSummaryRepo) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

type fakeInsightClient struct {
	mu sync.Mutex

	analyzeCalls   int
	lastContext    []byte
	lastImage      insight.ImageUpload
	analyzeResult  *insight.AnalysisResult
	analyzeErr     error
	analyzeLatency time.Duration

	summarizeCalls   int
	lastSummarize    insight.SummarizeRequest
	summaryPayload   *insight.SummaryPayload
	summarizeErr     error
	summarizeLatency time.Duration
}

func (f *fakeInsightClient) Analyze(ctx context.Context, image insight.ImageUpload, contextJSON []byte) (*insight.AnalysisResult, error) {
	f.mu.Lock()
	f.analyzeCalls++
	f.lastImage = image
	f.lastContext = contextJSON
	latency := f.analyzeLatency
	f.mu.Unlock()
	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	return f.analyzeResult, nil
}

func (f *fakeInsightClient) SummarizePreferences(ctx context.Context, req insight.SummarizeRequest) (*insight.SummaryPayload, error) {
	f.mu.Lock()
	f.summarizeCalls++
	f.lastSummarize = req
	latency := f.summarizeLatency
	f.mu.Unlock()
	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.summarizeErr != nil {
		return nil, f.summarizeErr
	}
	return f.summaryPayload, nil
}

func (f *fakeInsightClient) summarizeCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.summarizeCalls
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []realtime.Message
}

func (f *fakeNotifier) Broadcast(msg realtime.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
}

func (f *fakeNotifier) all() []realtime.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]realtime.Message, len(f.messages))
	copy(out, f.messages)
	return out
}
