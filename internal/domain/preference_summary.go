package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PreferenceSummary is derived from exactly one Conversation by the
// enrichment pipeline. Created after the conversation exists, never updated.
//
// CategoryPreferences maps a design category to
// {user_preferences, guideline_considerations, recommendations, confidence}.
type PreferenceSummary struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index;column:conversation_id" json:"conversation_id"`

	CategoryPreferences datatypes.JSON `gorm:"column:category_preferences" json:"category_preferences"`
	OverallSummary      string         `gorm:"type:text;column:overall_summary" json:"overall_summary"`

	GeneratedAt   time.Time `gorm:"column:generated_at" json:"generated_at"`
	Model         string    `gorm:"column:model" json:"model"`
	MessageCount  int       `gorm:"column:message_count" json:"message_count"`
	RAGUsed       bool      `gorm:"column:rag_used" json:"rag_used"`
	VectorStoreID string    `gorm:"column:vector_store_id" json:"vector_store_id"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (PreferenceSummary) TableName() string {
	return "preference_summary"
}

func (ps *PreferenceSummary) OwnedBy(userID uuid.UUID) bool {
	return ps != nil && userID != uuid.Nil && ps.UserID == userID
}

// Confidence levels reported per category by the summarization service.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)
