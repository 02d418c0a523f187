package app

import (
	"gorm.io/gorm"

	"github.com/serenehq/serene-backend/internal/data/repos"
	"github.com/serenehq/serene-backend/internal/pkg/logger"
)

type Repos struct {
	User              repos.UserRepo
	Conversation      repos.ConversationRepo
	Assessment        repos.AssessmentRepo
	PreferenceSummary repos.PreferenceSummaryRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:              repos.NewUserRepo(db, log),
		Conversation:      repos.NewConversationRepo(db, log),
		Assessment:        repos.NewAssessmentRepo(db, log),
		PreferenceSummary: repos.NewPreferenceSummaryRepo(db, log),
	}
}
