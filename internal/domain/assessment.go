package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Assessment is a user's self-reported room assessment plus the photo they
// attached. Created on save, never mutated.
type Assessment struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`

	Seq int64 `gorm:"autoIncrement;uniqueIndex;column:seq" json:"-"`

	SelectedIssues   datatypes.JSON `gorm:"column:selected_issues" json:"selected_issues"`
	Comments         string         `gorm:"type:text;column:comments" json:"comments"`
	NoChangeComments string         `gorm:"type:text;column:no_change_comments" json:"no_change_comments"`
	ImagePath        string         `gorm:"column:image_path" json:"image_path"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (Assessment) TableName() string {
	return "assessment"
}

func (a *Assessment) OwnedBy(userID uuid.UUID) bool {
	return a != nil && userID != uuid.Nil && a.UserID == userID
}
