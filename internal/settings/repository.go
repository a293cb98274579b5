package settings

import (
	"context"

	"gorm.io/gorm"

	"github.com/sipeslibya/storefront-backend/pkg/db/models"
)

// Repository persists the singleton Telegram settings row.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Load fetches the settings row. Satisfies the notifier's loader contract.
func (r *Repository) Load(ctx context.Context) (*models.TelegramSettings, error) {
	var row models.TelegramSettings
	if err := r.db.WithContext(ctx).First(&row, "id = ?", models.SettingsRowID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Save upserts the singleton row.
func (r *Repository) Save(ctx context.Context, row *models.TelegramSettings) (*models.TelegramSettings, error) {
	row.ID = models.SettingsRowID
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}
