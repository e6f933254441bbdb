package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/taskhub/internal/models"
)

func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Workspace{},
		&models.WorkspaceRole{},
		&models.WorkspaceMember{},
		&models.Invitation{},
		&models.Status{},
		&models.Todo{},
	)
}
