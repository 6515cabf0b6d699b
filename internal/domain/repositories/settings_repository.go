package repositories

import (
	"context"

	"visa-center.backend/internal/domain/entities"
)

// SettingsRepository defines site settings data operations
type SettingsRepository interface {
	Get(ctx context.Context) (*entities.SiteSettings, error)
	Upsert(ctx context.Context, settings *entities.SiteSettings) error
}
