package entities

import (
	"time"

	"github.com/google/uuid"
)

// Country represents a destination country offering visa types
type Country struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Code        string      `json:"code"`
	ImageURL    string      `json:"image_url,omitempty"`
	Active      bool        `json:"active"`
	VisaTypes   []*VisaType `json:"visa_types,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// VisaType represents a visa product with its informational relations
type VisaType struct {
	ID                uuid.UUID           `json:"id"`
	Name              string              `json:"name"`
	Headings          string              `json:"headings"`
	Description       string              `json:"description"`
	Price             string              `json:"price,omitempty"`
	ProcessingTime    string              `json:"processing_time,omitempty"`
	ImageURL          string              `json:"image_url,omitempty"`
	Active            bool                `json:"active"`
	Processes         []VisaProcess       `json:"processes,omitempty"`
	Overviews         []VisaOverview      `json:"overviews,omitempty"`
	Notes             []Note              `json:"notes,omitempty"`
	RequiredDocuments []*RequiredDocument `json:"required_documents,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// VisaProcess is one step of a visa type's process description
type VisaProcess struct {
	ID     uuid.UUID `json:"id"`
	Points string    `json:"points"`
}

// VisaOverview is one overview block of a visa type
type VisaOverview struct {
	ID       uuid.UUID `json:"id"`
	Points   string    `json:"points"`
	Overview string    `json:"overview"`
}

// Note is a free-form note attached to a visa type
type Note struct {
	ID    uuid.UUID `json:"id"`
	Notes string    `json:"notes"`
}

// RequiredDocument names a document type a visa type mandates
type RequiredDocument struct {
	ID           uuid.UUID `json:"id"`
	DocumentName string    `json:"document_name"`
}

// CreateCountryInput represents input for creating or updating a country
type CreateCountryInput struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Code        string   `json:"code" binding:"required"`
	ImageURL    string   `json:"image_url"`
	Active      *bool    `json:"active"`
	VisaTypeIDs []string `json:"visa_type_ids"`
}

// CreateVisaTypeInput represents input for creating or updating a visa type
type CreateVisaTypeInput struct {
	Name              string              `json:"name" binding:"required"`
	Headings          string              `json:"headings"`
	Description       string              `json:"description"`
	Price             string              `json:"price"`
	ProcessingTime    string              `json:"processing_time"`
	ImageURL          string              `json:"image_url"`
	Active            *bool               `json:"active"`
	Processes         []string            `json:"processes"`
	Overviews         []VisaOverviewInput `json:"overviews"`
	Notes             []string            `json:"notes"`
	RequiredDocuments []string            `json:"required_documents"`
}

// VisaOverviewInput is one overview block in a visa type write
type VisaOverviewInput struct {
	Points   string `json:"points"`
	Overview string `json:"overview"`
}
