package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"visa-center.backend/internal/domain/entities"
	domainerrors "visa-center.backend/internal/domain/errors"
	"visa-center.backend/internal/domain/repositories"
)

// ConsultationUsecase handles public consultation bookings and their
// admin follow-up.
type ConsultationUsecase struct {
	consultationRepo repositories.ConsultationRepository
}

// NewConsultationUsecase creates a new consultation usecase
func NewConsultationUsecase(consultationRepo repositories.ConsultationRepository) *ConsultationUsecase {
	return &ConsultationUsecase{
		consultationRepo: consultationRepo,
	}
}

// Book records a consultation request in the pending state
func (u *ConsultationUsecase) Book(ctx context.Context, input *entities.BookConsultationInput) (*entities.Consultation, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !emailPattern.MatchString(email) {
		return nil, domainerrors.FieldError("email", "Invalid email format.")
	}

	consultation := &entities.Consultation{
		ID:          uuid.New(),
		FullName:    strings.TrimSpace(input.FullName),
		Email:       email,
		PhoneNumber: strings.TrimSpace(input.PhoneNumber),
		Message:     strings.TrimSpace(input.Message),
		Status:      entities.ConsultationPending,
	}
	if input.PreferredDate != "" {
		date, err := time.Parse(dateLayout, input.PreferredDate)
		if err != nil {
			return nil, domainerrors.FieldError("preferred_date", "Date must be in YYYY-MM-DD format.")
		}
		consultation.PreferredDate = &date
	}

	if err := u.consultationRepo.Create(ctx, consultation); err != nil {
		return nil, err
	}
	return u.consultationRepo.GetByID(ctx, consultation.ID)
}

// List returns bookings newest first, optionally filtered by status
func (u *ConsultationUsecase) List(ctx context.Context, status string) ([]*entities.Consultation, error) {
	if status != "" && !isKnownConsultationStatus(entities.ConsultationStatus(status)) {
		return nil, domainerrors.FieldError("status", "Unknown consultation status.")
	}
	return u.consultationRepo.List(ctx, status)
}

// Get returns one booking
func (u *ConsultationUsecase) Get(ctx context.Context, id uuid.UUID) (*entities.Consultation, error) {
	return u.consultationRepo.GetByID(ctx, id)
}

// UpdateStatus applies an admin status write to a booking
func (u *ConsultationUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, input *entities.UpdateConsultationInput) (*entities.Consultation, error) {
	status := entities.ConsultationStatus(input.Status)
	if !isKnownConsultationStatus(status) {
		return nil, domainerrors.FieldError("status", "Unknown consultation status.")
	}
	if err := u.consultationRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return u.consultationRepo.GetByID(ctx, id)
}

// Delete removes a booking
func (u *ConsultationUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	return u.consultationRepo.Delete(ctx, id)
}

func isKnownConsultationStatus(s entities.ConsultationStatus) bool {
	switch s {
	case entities.ConsultationPending, entities.ConsultationContacted, entities.ConsultationClosed:
		return true
	}
	return false
}
