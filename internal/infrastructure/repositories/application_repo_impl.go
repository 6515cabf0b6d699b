package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"visa-center.backend/internal/domain/entities"
	domainerrors "visa-center.backend/internal/domain/errors"
	"visa-center.backend/internal/infrastructure/models"
)

// ApplicationRepository implements visa application data operations
type ApplicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create creates an application together with its initial documents
func (r *ApplicationRepository) Create(ctx context.Context, app *entities.VisaApplication) error {
	m := &models.VisaApplication{
		ID:         app.ID,
		UserID:     app.UserID,
		CountryID:  app.CountryID,
		VisaTypeID: app.VisaTypeID,
		Status:     string(app.Status),
	}
	for _, d := range app.Documents {
		m.Documents = append(m.Documents, models.ApplicationDocument{
			ID:                 orNewUUID(d.ID),
			RequiredDocumentID: d.RequiredDocumentID,
			FileURL:            d.FileURL,
			Status:             string(entities.DocumentPending),
		})
	}
	return r.db.WithContext(ctx).Create(m).Error
}

// GetByID gets an application with documents, country and visa type preloaded
func (r *ApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.VisaApplication, error) {
	var m models.VisaApplication
	err := r.db.WithContext(ctx).
		Preload("Documents").
		Preload("Documents.RequiredDocument").
		Preload("Country").
		Preload("VisaType").
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return applicationToEntity(&m), nil
}

// ListByUser lists a user's applications newest first, documents preloaded
func (r *ApplicationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.VisaApplication, error) {
	var appModels []models.VisaApplication
	err := r.db.WithContext(ctx).
		Preload("Documents").
		Preload("Documents.RequiredDocument").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&appModels).Error
	if err != nil {
		return nil, err
	}
	return applicationsToEntities(appModels), nil
}

// List lists applications, optionally filtered by status
func (r *ApplicationRepository) List(ctx context.Context, status string) ([]*entities.VisaApplication, error) {
	var appModels []models.VisaApplication
	query := r.db.WithContext(ctx).
		Preload("Documents").
		Preload("Documents.RequiredDocument").
		Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&appModels).Error; err != nil {
		return nil, err
	}
	return applicationsToEntities(appModels), nil
}

// UpdateStatus writes the application status and review fields. A nil
// pointer leaves the column untouched; an empty string clears it.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ApplicationStatus, adminNotes, rejectionReason *string) error {
	updates := map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	}
	if adminNotes != nil {
		updates["admin_notes"] = nullableColumn(*adminNotes)
	}
	if rejectionReason != nil {
		updates["rejection_reason"] = nullableColumn(*rejectionReason)
	}

	result := r.db.WithContext(ctx).Model(&models.VisaApplication{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// CountByStatus counts applications grouped by status
func (r *ApplicationRepository) CountByStatus(ctx context.Context) (map[entities.ApplicationStatus]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.VisaApplication{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entities.ApplicationStatus]int64, len(rows))
	for _, r := range rows {
		counts[entities.ApplicationStatus(r.Status)] = r.Count
	}
	return counts, nil
}

// CreateDocument attaches a document to an application
func (r *ApplicationRepository) CreateDocument(ctx context.Context, doc *entities.ApplicationDocument) error {
	m := &models.ApplicationDocument{
		ID:                 orNewUUID(doc.ID),
		ApplicationID:      doc.ApplicationID,
		RequiredDocumentID: doc.RequiredDocumentID,
		FileURL:            doc.FileURL,
		Status:             string(entities.DocumentPending),
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	doc.ID = m.ID
	return nil
}

// GetDocument gets a document by id
func (r *ApplicationRepository) GetDocument(ctx context.Context, id uuid.UUID) (*entities.ApplicationDocument, error) {
	var m models.ApplicationDocument
	err := r.db.WithContext(ctx).
		Preload("RequiredDocument").
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return documentToEntity(&m), nil
}

// ReplaceDocument swaps the stored file for a re-upload, resetting the
// document to pending and clearing review fields
func (r *ApplicationRepository) ReplaceDocument(ctx context.Context, id uuid.UUID, fileURL string) error {
	result := r.db.WithContext(ctx).
		Model(&models.ApplicationDocument{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"file_url":         fileURL,
			"status":           string(entities.DocumentPending),
			"admin_notes":      nil,
			"rejection_reason": nil,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdateDocumentReview writes the review verdict for a document
func (r *ApplicationRepository) UpdateDocumentReview(ctx context.Context, id uuid.UUID, status entities.DocumentStatus, adminNotes, rejectionReason *string) error {
	updates := map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	}
	if adminNotes != nil {
		updates["admin_notes"] = nullableColumn(*adminNotes)
	}
	if rejectionReason != nil {
		updates["rejection_reason"] = nullableColumn(*rejectionReason)
	}

	result := r.db.WithContext(ctx).Model(&models.ApplicationDocument{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ListDocuments lists all documents attached to an application
func (r *ApplicationRepository) ListDocuments(ctx context.Context, applicationID uuid.UUID) ([]*entities.ApplicationDocument, error) {
	var docModels []models.ApplicationDocument
	err := r.db.WithContext(ctx).
		Preload("RequiredDocument").
		Where("application_id = ?", applicationID).
		Find(&docModels).Error
	if err != nil {
		return nil, err
	}

	docs := make([]*entities.ApplicationDocument, 0, len(docModels))
	for i := range docModels {
		docs = append(docs, documentToEntity(&docModels[i]))
	}
	return docs, nil
}

func nullableColumn(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func applicationsToEntities(appModels []models.VisaApplication) []*entities.VisaApplication {
	apps := make([]*entities.VisaApplication, 0, len(appModels))
	for i := range appModels {
		apps = append(apps, applicationToEntity(&appModels[i]))
	}
	return apps
}

func applicationToEntity(m *models.VisaApplication) *entities.VisaApplication {
	app := &entities.VisaApplication{
		ID:              m.ID,
		UserID:          m.UserID,
		CountryID:       m.CountryID,
		VisaTypeID:      m.VisaTypeID,
		Status:          entities.ApplicationStatus(m.Status),
		AdminNotes:      null.StringFromPtr(m.AdminNotes),
		RejectionReason: null.StringFromPtr(m.RejectionReason),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	for i := range m.Documents {
		app.Documents = append(app.Documents, documentToEntity(&m.Documents[i]))
	}
	if m.Country != nil {
		app.Country = countryToEntity(m.Country)
	}
	if m.VisaType != nil {
		app.VisaType = visaTypeToEntity(m.VisaType)
	}
	return app
}

func documentToEntity(m *models.ApplicationDocument) *entities.ApplicationDocument {
	doc := &entities.ApplicationDocument{
		ID:                 m.ID,
		ApplicationID:      m.ApplicationID,
		RequiredDocumentID: m.RequiredDocumentID,
		FileURL:            m.FileURL,
		Status:             entities.DocumentStatus(m.Status),
		AdminNotes:         null.StringFromPtr(m.AdminNotes),
		RejectionReason:    null.StringFromPtr(m.RejectionReason),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
	if m.RequiredDocument != nil {
		doc.DocumentName = m.RequiredDocument.DocumentName
	}
	return doc
}
