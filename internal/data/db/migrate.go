package db

import (
	"github.com/serenehq/serene-backend/internal/domain"
)

func (s *PostgresService) AutoMigrateAll() error {
	return s.db.AutoMigrate(
		&domain.User{},
		&domain.Conversation{},
		&domain.Assessment{},
		&domain.PreferenceSummary{},
	)
}
