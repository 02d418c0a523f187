package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Conversation is a completed guided design conversation. It is immutable
// after creation except for PreferenceSummaryID, which enrichment sets once
// after the save response has already gone out.
type Conversation struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`

	// Seq breaks created_at ties in insertion order.
	Seq int64 `gorm:"autoIncrement;uniqueIndex;column:seq" json:"-"`

	SelectedTopics     datatypes.JSON `gorm:"column:selected_topics" json:"selected_topics"`
	TopicConversations datatypes.JSON `gorm:"column:topic_conversations" json:"topic_conversations"`
	AllMessages        datatypes.JSON `gorm:"column:all_messages" json:"all_messages"`

	PreferenceSummaryID *uuid.UUID `gorm:"type:uuid;column:preference_summary_id" json:"preference_summary_id"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (Conversation) TableName() string {
	return "conversation"
}

func (c *Conversation) OwnedBy(userID uuid.UUID) bool {
	return c != nil && userID != uuid.Nil && c.UserID == userID
}
