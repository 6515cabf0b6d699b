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

// VisaTypeRepository implements visa type data operations
type VisaTypeRepository struct {
	db *gorm.DB
}

// NewVisaTypeRepository creates a new visa type repository
func NewVisaTypeRepository(db *gorm.DB) *VisaTypeRepository {
	return &VisaTypeRepository{db: db}
}

func preloadVisaType(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Processes").
		Preload("Overviews").
		Preload("Notes").
		Preload("RequiredDocuments")
}

// Create creates a visa type with its relations
func (r *VisaTypeRepository) Create(ctx context.Context, vt *entities.VisaType) error {
	m := visaTypeToModel(vt)
	return r.db.WithContext(ctx).Create(m).Error
}

// GetByID gets a visa type with relations preloaded
func (r *VisaTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.VisaType, error) {
	var m models.VisaType
	err := preloadVisaType(r.db.WithContext(ctx)).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return visaTypeToEntity(&m), nil
}

// ListActive lists active visa types newest first, relations preloaded
func (r *VisaTypeRepository) ListActive(ctx context.Context) ([]*entities.VisaType, error) {
	var typeModels []models.VisaType
	err := preloadVisaType(r.db.WithContext(ctx)).
		Where("active = ?", true).
		Order("created_at DESC").
		Find(&typeModels).Error
	if err != nil {
		return nil, err
	}
	return visaTypesToEntities(typeModels), nil
}

// ListActiveByCountry lists active visa types offered by a country
func (r *VisaTypeRepository) ListActiveByCountry(ctx context.Context, countryID uuid.UUID) ([]*entities.VisaType, error) {
	var typeModels []models.VisaType
	err := preloadVisaType(r.db.WithContext(ctx)).
		Joins("JOIN country_visa_types cvt ON cvt.visa_type_id = visa_types.id").
		Where("cvt.country_id = ? AND visa_types.active = ?", countryID, true).
		Order("visa_types.created_at DESC").
		Find(&typeModels).Error
	if err != nil {
		return nil, err
	}
	return visaTypesToEntities(typeModels), nil
}

// Update updates a visa type's fields and replaces its relations
func (r *VisaTypeRepository) Update(ctx context.Context, vt *entities.VisaType) error {
	updates := map[string]interface{}{
		"name":            vt.Name,
		"headings":        vt.Headings,
		"description":     vt.Description,
		"price":           vt.Price,
		"processing_time": vt.ProcessingTime,
		"image_url":       vt.ImageURL,
		"active":          vt.Active,
		"updated_at":      time.Now(),
	}
	m := visaTypeToModel(vt)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.VisaType{}).Where("id = ?", vt.ID).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrNotFound
		}
		anchor := &models.VisaType{ID: vt.ID}
		if err := tx.Model(anchor).Association("Processes").Replace(m.Processes); err != nil {
			return err
		}
		if err := tx.Model(anchor).Association("Overviews").Replace(m.Overviews); err != nil {
			return err
		}
		if err := tx.Model(anchor).Association("Notes").Replace(m.Notes); err != nil {
			return err
		}
		return tx.Model(anchor).Association("RequiredDocuments").Replace(m.RequiredDocuments)
	})
}

// Delete soft deletes a visa type
func (r *VisaTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.VisaType{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// CountryIDsOffering returns ids of countries offering the visa type
func (r *VisaTypeRepository) CountryIDsOffering(ctx context.Context, visaTypeID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("country_visa_types").
		Where("visa_type_id = ?", visaTypeID).
		Pluck("country_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// RequiredDocuments returns the document set the visa type mandates
func (r *VisaTypeRepository) RequiredDocuments(ctx context.Context, visaTypeID uuid.UUID) ([]*entities.RequiredDocument, error) {
	var m models.VisaType
	err := r.db.WithContext(ctx).
		Preload("RequiredDocuments").
		Where("id = ?", visaTypeID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}

	docs := make([]*entities.RequiredDocument, 0, len(m.RequiredDocuments))
	for i := range m.RequiredDocuments {
		docs = append(docs, &entities.RequiredDocument{
			ID:           m.RequiredDocuments[i].ID,
			DocumentName: m.RequiredDocuments[i].DocumentName,
		})
	}
	return docs, nil
}

func visaTypesToEntities(typeModels []models.VisaType) []*entities.VisaType {
	types := make([]*entities.VisaType, 0, len(typeModels))
	for i := range typeModels {
		types = append(types, visaTypeToEntity(&typeModels[i]))
	}
	return types
}

func visaTypeToModel(vt *entities.VisaType) *models.VisaType {
	m := &models.VisaType{
		ID:             vt.ID,
		Name:           vt.Name,
		Headings:       vt.Headings,
		Description:    vt.Description,
		Price:          vt.Price,
		ProcessingTime: vt.ProcessingTime,
		ImageURL:       vt.ImageURL,
		Active:         vt.Active,
	}
	for _, p := range vt.Processes {
		m.Processes = append(m.Processes, models.VisaProcess{ID: orNewUUID(p.ID), Points: p.Points})
	}
	for _, o := range vt.Overviews {
		m.Overviews = append(m.Overviews, models.VisaOverview{ID: orNewUUID(o.ID), Points: o.Points, Overview: o.Overview})
	}
	for _, n := range vt.Notes {
		m.Notes = append(m.Notes, models.Note{ID: orNewUUID(n.ID), Notes: n.Notes})
	}
	for _, d := range vt.RequiredDocuments {
		m.RequiredDocuments = append(m.RequiredDocuments, models.RequiredDocument{ID: orNewUUID(d.ID), DocumentName: d.DocumentName})
	}
	return m
}

func visaTypeToEntity(m *models.VisaType) *entities.VisaType {
	vt := &entities.VisaType{
		ID:             m.ID,
		Name:           m.Name,
		Headings:       m.Headings,
		Description:    m.Description,
		Price:          m.Price,
		ProcessingTime: m.ProcessingTime,
		ImageURL:       m.ImageURL,
		Active:         m.Active,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	for _, p := range m.Processes {
		vt.Processes = append(vt.Processes, entities.VisaProcess{ID: p.ID, Points: p.Points})
	}
	for _, o := range m.Overviews {
		vt.Overviews = append(vt.Overviews, entities.VisaOverview{ID: o.ID, Points: o.Points, Overview: o.Overview})
	}
	for _, n := range m.Notes {
		vt.Notes = append(vt.Notes, entities.Note{ID: n.ID, Notes: n.Notes})
	}
	for _, d := range m.RequiredDocuments {
		vt.RequiredDocuments = append(vt.RequiredDocuments, &entities.RequiredDocument{ID: d.ID, DocumentName: d.DocumentName})
	}
	return vt
}

func orNewUUID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}
