package repositories

import (
	"context"

	"github.com/google/uuid"
	"visa-center.backend/internal/domain/entities"
)

// ConsultationRepository defines consultation booking data operations
type ConsultationRepository interface {
	Create(ctx context.Context, consultation *entities.Consultation) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Consultation, error)
	List(ctx context.Context, status string) ([]*entities.Consultation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ConsultationStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}
