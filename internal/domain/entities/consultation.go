package entities

import (
	"time"

	"github.com/google/uuid"
)

// ConsultationStatus represents the handling state of a booking
type ConsultationStatus string

const (
	ConsultationPending   ConsultationStatus = "pending"
	ConsultationContacted ConsultationStatus = "contacted"
	ConsultationClosed    ConsultationStatus = "closed"
)

// Consultation is a booking request left by a visitor. No account is
// required to book one.
type Consultation struct {
	ID            uuid.UUID          `json:"id"`
	FullName      string             `json:"full_name"`
	Email         string             `json:"email"`
	PhoneNumber   string             `json:"phone_number"`
	Message       string             `json:"message,omitempty"`
	PreferredDate *time.Time         `json:"preferred_date,omitempty"`
	Status        ConsultationStatus `json:"status"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// BookConsultationInput represents input for booking a consultation
type BookConsultationInput struct {
	FullName      string `json:"full_name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	PhoneNumber   string `json:"phone_number" binding:"required"`
	Message       string `json:"message"`
	PreferredDate string `json:"preferred_date"` // YYYY-MM-DD
}

// UpdateConsultationInput is the admin write against a booking
type UpdateConsultationInput struct {
	Status string `json:"status" binding:"required"`
}
