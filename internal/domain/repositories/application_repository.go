package repositories

import (
	"context"

	"github.com/google/uuid"
	"visa-center.backend/internal/domain/entities"
)

// ApplicationRepository defines visa application data operations. Reads
// preload documents; detail reads also preload country and visa type.
type ApplicationRepository interface {
	Create(ctx context.Context, app *entities.VisaApplication) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.VisaApplication, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.VisaApplication, error)
	List(ctx context.Context, status string) ([]*entities.VisaApplication, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ApplicationStatus, adminNotes, rejectionReason *string) error
	CountByStatus(ctx context.Context) (map[entities.ApplicationStatus]int64, error)

	CreateDocument(ctx context.Context, doc *entities.ApplicationDocument) error
	GetDocument(ctx context.Context, id uuid.UUID) (*entities.ApplicationDocument, error)
	// ReplaceDocument swaps the stored file for a re-upload, resetting the
	// document to pending and clearing review fields.
	ReplaceDocument(ctx context.Context, id uuid.UUID, fileURL string) error
	UpdateDocumentReview(ctx context.Context, id uuid.UUID, status entities.DocumentStatus, adminNotes, rejectionReason *string) error
	ListDocuments(ctx context.Context, applicationID uuid.UUID) ([]*entities.ApplicationDocument, error)
}
