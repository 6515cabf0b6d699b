package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"visa-center.backend/internal/domain/entities"
	domainerrors "visa-center.backend/internal/domain/errors"
	"visa-center.backend/internal/infrastructure/models"
)

// The settings table holds exactly one row.
const siteSettingsRowID = 1

// SettingsRepository implements site settings data operations
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the settings row
func (r *SettingsRepository) Get(ctx context.Context) (*entities.SiteSettings, error) {
	var m models.SiteSetting
	if err := r.db.WithContext(ctx).Where("id = ?", siteSettingsRowID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return settingsToEntity(&m), nil
}

// Upsert writes the settings row, creating it on first use
func (r *SettingsRepository) Upsert(ctx context.Context, settings *entities.SiteSettings) error {
	updates := map[string]interface{}{
		"site_name":     settings.SiteName,
		"contact_email": settings.ContactEmail,
		"contact_phone": settings.ContactPhone,
		"address":       settings.Address,
		"office_hours":  settings.OfficeHours,
		"facebook_url":  settings.FacebookURL,
		"instagram_url": settings.InstagramURL,
		"updated_at":    time.Now(),
	}

	result := r.db.WithContext(ctx).Model(&models.SiteSetting{}).Where("id = ?", siteSettingsRowID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		m := settingsToModel(settings)
		m.ID = siteSettingsRowID
		m.UpdatedAt = time.Now()
		return r.db.WithContext(ctx).Create(m).Error
	}
	return nil
}

func settingsToModel(s *entities.SiteSettings) *models.SiteSetting {
	return &models.SiteSetting{
		SiteName:     s.SiteName,
		ContactEmail: s.ContactEmail,
		ContactPhone: s.ContactPhone,
		Address:      s.Address,
		OfficeHours:  s.OfficeHours,
		FacebookURL:  s.FacebookURL,
		InstagramURL: s.InstagramURL,
		UpdatedAt:    s.UpdatedAt,
	}
}

func settingsToEntity(m *models.SiteSetting) *entities.SiteSettings {
	return &entities.SiteSettings{
		SiteName:     m.SiteName,
		ContactEmail: m.ContactEmail,
		ContactPhone: m.ContactPhone,
		Address:      m.Address,
		OfficeHours:  m.OfficeHours,
		FacebookURL:  m.FacebookURL,
		InstagramURL: m.InstagramURL,
		UpdatedAt:    m.UpdatedAt,
	}
}
