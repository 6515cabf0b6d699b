package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"visa-center.backend/internal/domain/entities"
	domainerrors "visa-center.backend/internal/domain/errors"
)

func newApplicationRepo(t *testing.T) (*ApplicationRepository, *VisaTypeRepository, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	createCatalogTables(t, db)
	createApplicationTables(t, db)
	return NewApplicationRepository(db), NewVisaTypeRepository(db), db
}

func seedApplication(t *testing.T, repo *ApplicationRepository, userID uuid.UUID, docIDs ...uuid.UUID) *entities.VisaApplication {
	t.Helper()
	app := &entities.VisaApplication{
		ID:         uuid.New(),
		UserID:     userID,
		CountryID:  uuid.New(),
		VisaTypeID: uuid.New(),
		Status:     entities.ApplicationSubmitted,
	}
	for _, docID := range docIDs {
		app.Documents = append(app.Documents, &entities.ApplicationDocument{
			ID:                 uuid.New(),
			RequiredDocumentID: docID,
			FileURL:            "https://files.example.com/" + docID.String(),
			Status:             entities.DocumentPending,
		})
	}
	require.NoError(t, repo.Create(context.Background(), app))
	return app
}

func TestApplicationRepository_CreateAndGet(t *testing.T) {
	repo, _, _ := newApplicationRepo(t)
	ctx := context.Background()

	userID := uuid.New()
	app := seedApplication(t, repo, userID, uuid.New(), uuid.New())

	got, err := repo.GetByID(ctx, app.ID)
	require.NoError(t, err)
	require.Equal(t, userID, got.UserID)
	require.Equal(t, entities.ApplicationSubmitted, got.Status)
	require.Len(t, got.Documents, 2)
	for _, doc := range got.Documents {
		require.Equal(t, entities.DocumentPending, doc.Status)
	}

	_, err = repo.GetByID(ctx, uuid.New())
	require.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestApplicationRepository_ListByUser(t *testing.T) {
	repo, _, _ := newApplicationRepo(t)
	ctx := context.Background()

	userID := uuid.New()
	seedApplication(t, repo, userID)
	seedApplication(t, repo, userID)
	seedApplication(t, repo, uuid.New())

	apps, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, apps, 2)
}

func TestApplicationRepository_ListFiltersByStatus(t *testing.T) {
	repo, _, _ := newApplicationRepo(t)
	ctx := context.Background()

	app := seedApplication(t, repo, uuid.New())
	seedApplication(t, repo, uuid.New())
	require.NoError(t, repo.UpdateStatus(ctx, app.ID, entities.ApplicationInReview, nil, nil))

	apps, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, apps, 2)

	apps, err = repo.List(ctx, string(entities.ApplicationInReview))
	require.NoError(t, err)
	require.Len(t, apps, 1)
	require.Equal(t, app.ID, apps[0].ID)
}

func TestApplicationRepository_UpdateStatusReviewFields(t *testing.T) {
	repo, _, _ := newApplicationRepo(t)
	ctx := context.Background()

	app := seedApplication(t, repo, uuid.New())

	notes := "Incomplete bank statement"
	reason := "Document unreadable"
	require.NoError(t, repo.UpdateStatus(ctx, app.ID, entities.ApplicationRejected, &notes, &reason))

	got, err := repo.GetByID(ctx, app.ID)
	require.NoError(t, err)
	require.Equal(t, entities.ApplicationRejected, got.Status)
	require.Equal(t, notes, got.AdminNotes.String)
	require.Equal(t, reason, got.RejectionReason.String)

	// Empty strings clear the columns
	empty := ""
	require.NoError(t, repo.UpdateStatus(ctx, app.ID, entities.ApplicationRejected, &empty, &empty))
	got, err = repo.GetByID(ctx, app.ID)
	require.NoError(t, err)
	require.False(t, got.AdminNotes.Valid)
	require.False(t, got.RejectionReason.Valid)

	err = repo.UpdateStatus(ctx, uuid.New(), entities.ApplicationApproved, nil, nil)
	require.True(t, errors.Is(err, domainerrors.ErrNotFound))
}

func TestApplicationRepository_CountByStatus(t *testing.T) {
	repo, _, _ := newApplicationRepo(t)
	ctx := context.Background()

	seedApplication(t, repo, uuid.New())
	seedApplication(t, repo, uuid.New())
	app := seedApplication(t, repo, uuid.New())
	require.NoError(t, repo.UpdateStatus(ctx, app.ID, entities.ApplicationApproved, nil, nil))

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, counts[entities.ApplicationSubmitted])
	require.EqualValues(t, 1, counts[entities.ApplicationApproved])
}

func TestApplicationRepository_DocumentLifecycle(t *testing.T) {
	repo, _, _ := newApplicationRepo(t)
	ctx := context.Background()

	requiredDocID := uuid.New()
	app := seedApplication(t, repo, uuid.New(), requiredDocID)
	docID := app.Documents[0].ID

	notes := "Looks valid"
	empty := ""
	require.NoError(t, repo.UpdateDocumentReview(ctx, docID, entities.DocumentApproved, &notes, &empty))

	doc, err := repo.GetDocument(ctx, docID)
	require.NoError(t, err)
	require.Equal(t, entities.DocumentApproved, doc.Status)
	require.Equal(t, notes, doc.AdminNotes.String)

	// A re-upload resets the verdict and clears review fields
	require.NoError(t, repo.ReplaceDocument(ctx, docID, "https://files.example.com/v2"))
	doc, err = repo.GetDocument(ctx, docID)
	require.NoError(t, err)
	require.Equal(t, entities.DocumentPending, doc.Status)
	require.Equal(t, "https://files.example.com/v2", doc.FileURL)
	require.False(t, doc.AdminNotes.Valid)
	require.False(t, doc.RejectionReason.Valid)

	extra := &entities.ApplicationDocument{
		ApplicationID:      app.ID,
		RequiredDocumentID: uuid.New(),
		FileURL:            "https://files.example.com/extra",
	}
	require.NoError(t, repo.CreateDocument(ctx, extra))
	require.NotEqual(t, uuid.Nil, extra.ID)

	docs, err := repo.ListDocuments(ctx, app.ID)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	err = repo.ReplaceDocument(ctx, uuid.New(), "x")
	require.True(t, errors.Is(err, domainerrors.ErrNotFound))
}
