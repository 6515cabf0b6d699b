package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"visa-center.backend/internal/domain/entities"
	domainerrors "visa-center.backend/internal/domain/errors"
	"visa-center.backend/internal/infrastructure/models"
)

// CountryRepository implements country data operations
type CountryRepository struct {
	db *gorm.DB
}

// NewCountryRepository creates a new country repository
func NewCountryRepository(db *gorm.DB) *CountryRepository {
	return &CountryRepository{db: db}
}

// Create creates a country and attaches the given visa types
func (r *CountryRepository) Create(ctx context.Context, country *entities.Country, visaTypeIDs []uuid.UUID) error {
	m := &models.Country{
		ID:          country.ID,
		Name:        country.Name,
		Description: country.Description,
		Code:        country.Code,
		ImageURL:    country.ImageURL,
		Active:      country.Active,
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		if len(visaTypeIDs) > 0 {
			return r.replaceVisaTypes(tx, m, visaTypeIDs)
		}
		return nil
	})
}

// GetByID gets a country with its active visa types preloaded
func (r *CountryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Country, error) {
	var m models.Country
	err := r.db.WithContext(ctx).
		Preload("VisaTypes", "active = ?", true).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return countryToEntity(&m), nil
}

// ListActive lists active countries ordered by name, visa types preloaded
func (r *CountryRepository) ListActive(ctx context.Context) ([]*entities.Country, error) {
	var countryModels []models.Country
	err := r.db.WithContext(ctx).
		Preload("VisaTypes", "active = ?", true).
		Where("active = ?", true).
		Order("name").
		Find(&countryModels).Error
	if err != nil {
		return nil, err
	}

	countries := make([]*entities.Country, 0, len(countryModels))
	for i := range countryModels {
		countries = append(countries, countryToEntity(&countryModels[i]))
	}
	return countries, nil
}

// Update updates a country's fields and, when visaTypeIDs is non-nil,
// replaces its visa type set
func (r *CountryRepository) Update(ctx context.Context, country *entities.Country, visaTypeIDs []uuid.UUID) error {
	updates := map[string]interface{}{
		"name":        country.Name,
		"description": country.Description,
		"code":        country.Code,
		"image_url":   country.ImageURL,
		"active":      country.Active,
		"updated_at":  time.Now(),
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Country{}).Where("id = ?", country.ID).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrNotFound
		}
		if visaTypeIDs != nil {
			return r.replaceVisaTypes(tx, &models.Country{ID: country.ID}, visaTypeIDs)
		}
		return nil
	})
}

// SetVisaTypes replaces the visa type set offered by a country
func (r *CountryRepository) SetVisaTypes(ctx context.Context, id uuid.UUID, visaTypeIDs []uuid.UUID) error {
	var m models.Country
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrNotFound
		}
		return err
	}
	return r.replaceVisaTypes(r.db.WithContext(ctx), &m, visaTypeIDs)
}

// Delete soft deletes a country
func (r *CountryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Country{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// OffersVisaType reports whether the country's offer includes the visa type
func (r *CountryRepository) OffersVisaType(ctx context.Context, countryID, visaTypeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("country_visa_types").
		Where("country_id = ? AND visa_type_id = ?", countryID, visaTypeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *CountryRepository) replaceVisaTypes(tx *gorm.DB, m *models.Country, visaTypeIDs []uuid.UUID) error {
	types := make([]models.VisaType, 0, len(visaTypeIDs))
	for _, id := range visaTypeIDs {
		types = append(types, models.VisaType{ID: id})
	}
	return tx.Model(m).Association("VisaTypes").Replace(types)
}

func countryToEntity(m *models.Country) *entities.Country {
	c := &entities.Country{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Code:        m.Code,
		ImageURL:    m.ImageURL,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for i := range m.VisaTypes {
		c.VisaTypes = append(c.VisaTypes, visaTypeToEntity(&m.VisaTypes[i]))
	}
	return c
}
