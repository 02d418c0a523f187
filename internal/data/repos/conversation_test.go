package repos

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/serenehq/serene-backend/internal/domain"
	"github.com/serenehq/serene-backend/internal/pkg/logger"
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

// testTx opens a transaction against TEST_POSTGRES_DSN and rolls it back when
// the test finishes, so integration tests never leave rows behind.
func testTx(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("set TEST_POSTGRES_DSN to run repo integration tests")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		t.Fatalf("enable uuid-ossp: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Conversation{}, &domain.Assessment{}, &domain.PreferenceSummary{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	tx := db.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() { tx.Rollback() })
	return tx
}

func seedUser(t *testing.T, tx *gorm.DB) uuid.UUID {
	t.Helper()
	user := &domain.User{
		ID:       uuid.New(),
		Email:    uuid.New().String() + "@test.local",
		Password: "x",
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user.ID
}

func TestConversationMostRecentBreaksTiesByInsertionOrder(t *testing.T) {
	tx := testTx(t)
	repo := NewConversationRepo(nil, mustTestLogger(t))
	ctx := context.Background()
	userID := seedUser(t, tx)

	// Identical created_at on every row: only insertion order can decide.
	sharedTime := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	var last *domain.Conversation
	for i := 0; i < 3; i++ {
		conv := &domain.Conversation{
			ID:             uuid.New(),
			UserID:         userID,
			SelectedTopics: datatypes.JSON(`["t"]`),
			CreatedAt:      sharedTime,
		}
		if _, err := repo.Create(ctx, tx, []*domain.Conversation{conv}); err != nil {
			t.Fatalf("Create: %v", err)
		}
		last = conv
	}

	got, err := repo.GetMostRecentByUserID(ctx, tx, userID)
	if err != nil {
		t.Fatalf("GetMostRecentByUserID: %v", err)
	}
	if got == nil {
		t.Fatalf("most recent: got nil")
	}
	if got.ID != last.ID {
		t.Fatalf("tie-break winner: want last inserted %s got %s", last.ID, got.ID)
	}
}

func TestConversationMostRecentPrefersNewerTimestamp(t *testing.T) {
	tx := testTx(t)
	repo := NewConversationRepo(nil, mustTestLogger(t))
	ctx := context.Background()
	userID := seedUser(t, tx)

	older := &domain.Conversation{ID: uuid.New(), UserID: userID, CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	newer := &domain.Conversation{ID: uuid.New(), UserID: userID, CreatedAt: time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC)}
	// Insert the newer row first so insertion order alone cannot win.
	if _, err := repo.Create(ctx, tx, []*domain.Conversation{newer}); err != nil {
		t.Fatalf("Create newer: %v", err)
	}
	if _, err := repo.Create(ctx, tx, []*domain.Conversation{older}); err != nil {
		t.Fatalf("Create older: %v", err)
	}

	got, err := repo.GetMostRecentByUserID(ctx, tx, userID)
	if err != nil {
		t.Fatalf("GetMostRecentByUserID: %v", err)
	}
	if got == nil || got.ID != newer.ID {
		t.Fatalf("most recent: want %s got %+v", newer.ID, got)
	}
}

func TestConversationMostRecentNilForEmptyHistory(t *testing.T) {
	tx := testTx(t)
	repo := NewConversationRepo(nil, mustTestLogger(t))

	got, err := repo.GetMostRecentByUserID(context.Background(), tx, uuid.New())
	if err != nil {
		t.Fatalf("GetMostRecentByUserID: %v", err)
	}
	if got != nil {
		t.Fatalf("empty history: want nil got %+v", got)
	}
}

func TestSetPreferenceSummaryIDBackLink(t *testing.T) {
	tx := testTx(t)
	convRepo := NewConversationRepo(nil, mustTestLogger(t))
	summaryRepo := NewPreferenceSummaryRepo(nil, mustTestLogger(t))
	ctx := context.Background()
	userID := seedUser(t, tx)

	conv := &domain.Conversation{ID: uuid.New(), UserID: userID, CreatedAt: time.Now().UTC()}
	if _, err := convRepo.Create(ctx, tx, []*domain.Conversation{conv}); err != nil {
		t.Fatalf("Create conversation: %v", err)
	}

	summary := &domain.PreferenceSummary{
		ID:             uuid.New(),
		UserID:         userID,
		ConversationID: conv.ID,
		OverallSummary: "s",
		GeneratedAt:    time.Now().UTC(),
	}
	if _, err := summaryRepo.Create(ctx, tx, []*domain.PreferenceSummary{summary}); err != nil {
		t.Fatalf("Create summary: %v", err)
	}
	if err := convRepo.SetPreferenceSummaryID(ctx, tx, conv.ID, summary.ID); err != nil {
		t.Fatalf("SetPreferenceSummaryID: %v", err)
	}

	reloaded, err := convRepo.GetByID(ctx, tx, conv.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if reloaded.PreferenceSummaryID == nil || *reloaded.PreferenceSummaryID != summary.ID {
		t.Fatalf("back-link: want=%s got=%v", summary.ID, reloaded.PreferenceSummaryID)
	}

	bySummary, err := summaryRepo.GetByConversationID(ctx, tx, conv.ID)
	if err != nil {
		t.Fatalf("GetByConversationID: %v", err)
	}
	if bySummary == nil || bySummary.ID != summary.ID {
		t.Fatalf("summary by conversation: want=%s got=%+v", summary.ID, bySummary)
	}
}
