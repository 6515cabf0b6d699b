package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// ApplicationStatus represents the lifecycle state of a visa application
type ApplicationStatus string

const (
	ApplicationDraft          ApplicationStatus = "draft"
	ApplicationSubmitted      ApplicationStatus = "submitted"
	ApplicationInReview       ApplicationStatus = "in_review"
	ApplicationAdditionalDocs ApplicationStatus = "additional_docs_required"
	ApplicationApproved       ApplicationStatus = "approved"
	ApplicationRejected       ApplicationStatus = "rejected"
)

// DocumentStatus represents the review state of an uploaded document
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentApproved DocumentStatus = "approved"
	DocumentRejected DocumentStatus = "rejected"
)

// VisaApplication belongs to one user, one country and one visa type
type VisaApplication struct {
	ID              uuid.UUID              `json:"id"`
	UserID          uuid.UUID              `json:"user_id"`
	CountryID       uuid.UUID              `json:"country_id"`
	VisaTypeID      uuid.UUID              `json:"visa_type_id"`
	Status          ApplicationStatus      `json:"status"`
	AdminNotes      null.String            `json:"admin_notes,omitempty"`
	RejectionReason null.String            `json:"rejection_reason,omitempty"`
	Documents       []*ApplicationDocument `json:"documents,omitempty"`
	Country         *Country               `json:"country,omitempty"`
	VisaType        *VisaType              `json:"visa_type,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// ApplicationDocument is one uploaded file for a required document.
// The (application, required document) pair is unique.
type ApplicationDocument struct {
	ID                 uuid.UUID      `json:"id"`
	ApplicationID      uuid.UUID      `json:"application_id"`
	RequiredDocumentID uuid.UUID      `json:"required_document_id"`
	DocumentName       string         `json:"document_name,omitempty"`
	FileURL            string         `json:"file_url"`
	Status             DocumentStatus `json:"status"`
	AdminNotes         null.String    `json:"admin_notes,omitempty"`
	RejectionReason    null.String    `json:"rejection_reason,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// DocumentUpload is one file supplied at application create/update time,
// already pushed to object storage.
type DocumentUpload struct {
	RequiredDocumentID uuid.UUID
	FileURL            string
}

// ReviewApplicationInput is the admin write against an application
type ReviewApplicationInput struct {
	Status          string `json:"status" binding:"required"`
	AdminNotes      string `json:"admin_notes"`
	RejectionReason string `json:"rejection_reason"`
}

// DocumentReview is one typed (document, verdict) triple parsed at the
// HTTP boundary.
type DocumentReview struct {
	DocumentID      uuid.UUID `json:"document_id" binding:"required"`
	Status          string    `json:"status" binding:"required"`
	AdminNotes      string    `json:"admin_notes"`
	RejectionReason string    `json:"rejection_reason"`
}
