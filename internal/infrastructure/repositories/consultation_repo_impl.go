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

// ConsultationRepository implements consultation booking data operations
type ConsultationRepository struct {
	db *gorm.DB
}

// NewConsultationRepository creates a new consultation repository
func NewConsultationRepository(db *gorm.DB) *ConsultationRepository {
	return &ConsultationRepository{db: db}
}

// Create creates a new consultation booking
func (r *ConsultationRepository) Create(ctx context.Context, consultation *entities.Consultation) error {
	m := consultationToModel(consultation)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	return nil
}

// GetByID gets a consultation by ID
func (r *ConsultationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Consultation, error) {
	var m models.Consultation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return consultationToEntity(&m), nil
}

// List lists consultations newest first, optionally filtered by status
func (r *ConsultationRepository) List(ctx context.Context, status string) ([]*entities.Consultation, error) {
	var consultationModels []models.Consultation
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&consultationModels).Error; err != nil {
		return nil, err
	}

	consultations := make([]*entities.Consultation, 0, len(consultationModels))
	for i := range consultationModels {
		consultations = append(consultations, consultationToEntity(&consultationModels[i]))
	}
	return consultations, nil
}

// UpdateStatus writes the handling status of a consultation
func (r *ConsultationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ConsultationStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Consultation{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// Delete soft-deletes a consultation
func (r *ConsultationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Consultation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func consultationToModel(c *entities.Consultation) *models.Consultation {
	return &models.Consultation{
		ID:            c.ID,
		FullName:      c.FullName,
		Email:         c.Email,
		PhoneNumber:   c.PhoneNumber,
		Message:       c.Message,
		PreferredDate: c.PreferredDate,
		Status:        string(c.Status),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func consultationToEntity(m *models.Consultation) *entities.Consultation {
	return &entities.Consultation{
		ID:            m.ID,
		FullName:      m.FullName,
		Email:         m.Email,
		PhoneNumber:   m.PhoneNumber,
		Message:       m.Message,
		PreferredDate: m.PreferredDate,
		Status:        entities.ConsultationStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
