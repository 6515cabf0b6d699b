package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"visa-center.backend/internal/domain/entities"
	domainerrors "visa-center.backend/internal/domain/errors"
	"visa-center.backend/internal/domain/repositories"
	"visa-center.backend/pkg/redis"
)

func userAppsKey(userID uuid.UUID) string { return fmt.Sprintf("user:%s:applications", userID) }
func userAppKey(userID, appID uuid.UUID) string {
	return fmt.Sprintf("user:%s:application:%s", userID, appID)
}

// applicationTransitions lists the admin-writable status moves. Approved
// and rejected are terminal.
var applicationTransitions = map[entities.ApplicationStatus][]entities.ApplicationStatus{
	entities.ApplicationDraft:          {entities.ApplicationSubmitted},
	entities.ApplicationSubmitted:      {entities.ApplicationInReview, entities.ApplicationApproved, entities.ApplicationRejected, entities.ApplicationAdditionalDocs},
	entities.ApplicationInReview:       {entities.ApplicationApproved, entities.ApplicationRejected, entities.ApplicationAdditionalDocs},
	entities.ApplicationAdditionalDocs: {entities.ApplicationSubmitted, entities.ApplicationInReview, entities.ApplicationApproved, entities.ApplicationRejected},
}

func canTransition(from, to entities.ApplicationStatus) bool {
	for _, next := range applicationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ApplicationUsecase handles the visa application lifecycle: creation with
// uploaded documents, per-user cached reads, applicant re-uploads and admin
// review of applications and individual documents. Write paths invalidate
// and re-warm the owner's cache keys before returning.
type ApplicationUsecase struct {
	appRepo      repositories.ApplicationRepository
	countryRepo  repositories.CountryRepository
	visaTypeRepo repositories.VisaTypeRepository
	cache        *redis.Cache
}

// NewApplicationUsecase creates a new application usecase
func NewApplicationUsecase(
	appRepo repositories.ApplicationRepository,
	countryRepo repositories.CountryRepository,
	visaTypeRepo repositories.VisaTypeRepository,
	cache *redis.Cache,
) *ApplicationUsecase {
	return &ApplicationUsecase{
		appRepo:      appRepo,
		countryRepo:  countryRepo,
		visaTypeRepo: visaTypeRepo,
		cache:        cache,
	}
}

// Create files a new application. The visa type must belong to the chosen
// country and every upload must map to one of the visa type's required
// documents. A full document set starts the application as submitted,
// a partial one as draft; the names still missing are returned either way.
func (u *ApplicationUsecase) Create(ctx context.Context, userID, countryID, visaTypeID uuid.UUID, uploads []entities.DocumentUpload) (*entities.VisaApplication, []string, error) {
	if _, err := u.countryRepo.GetByID(ctx, countryID); err != nil {
		return nil, nil, err
	}
	offers, err := u.countryRepo.OffersVisaType(ctx, countryID, visaTypeID)
	if err != nil {
		return nil, nil, err
	}
	if !offers {
		return nil, nil, domainerrors.FieldError("visa_type_id", "This visa type is not offered by the selected country.")
	}

	required, err := u.visaTypeRepo.RequiredDocuments(ctx, visaTypeID)
	if err != nil {
		return nil, nil, err
	}
	covered, err := coveredDocuments(required, uploads)
	if err != nil {
		return nil, nil, err
	}

	status := entities.ApplicationDraft
	if len(required) > 0 && len(covered) == len(required) {
		status = entities.ApplicationSubmitted
	}

	app := &entities.VisaApplication{
		ID:         uuid.New(),
		UserID:     userID,
		CountryID:  countryID,
		VisaTypeID: visaTypeID,
		Status:     status,
	}
	for _, up := range uploads {
		app.Documents = append(app.Documents, &entities.ApplicationDocument{
			ID:                 uuid.New(),
			ApplicationID:      app.ID,
			RequiredDocumentID: up.RequiredDocumentID,
			FileURL:            up.FileURL,
			Status:             entities.DocumentPending,
		})
	}

	if err := u.appRepo.Create(ctx, app); err != nil {
		return nil, nil, err
	}
	if err := u.refreshUserCaches(ctx, userID, app.ID); err != nil {
		return nil, nil, err
	}

	created, err := u.appRepo.GetByID(ctx, app.ID)
	if err != nil {
		return nil, nil, err
	}
	return created, missingDocumentNames(required, covered), nil
}

// ListByUser returns the caller's applications, cache first
func (u *ApplicationUsecase) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.VisaApplication, error) {
	var cached []*entities.VisaApplication
	if hit, err := u.cache.GetJSON(ctx, userAppsKey(userID), &cached); err != nil {
		return nil, err
	} else if hit {
		return cached, nil
	}

	apps, err := u.appRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := u.cache.SetJSON(ctx, userAppsKey(userID), apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// GetForUser returns one application owned by the caller, cache first.
// Applications belonging to other users read as not found.
func (u *ApplicationUsecase) GetForUser(ctx context.Context, userID, appID uuid.UUID) (*entities.VisaApplication, error) {
	var cached entities.VisaApplication
	if hit, err := u.cache.GetJSON(ctx, userAppKey(userID, appID), &cached); err != nil {
		return nil, err
	} else if hit {
		return &cached, nil
	}

	app, err := u.appRepo.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app.UserID != userID {
		return nil, domainerrors.NotFound("Application not found")
	}
	if err := u.cache.SetJSON(ctx, userAppKey(userID, appID), app); err != nil {
		return nil, err
	}
	return app, nil
}

// UpdateDocuments handles an applicant re-upload. Each supplied document
// replaces any previous file for the same required document and resets it
// to pending with cleared review fields. Covering the full required set
// promotes a draft to submitted.
func (u *ApplicationUsecase) UpdateDocuments(ctx context.Context, userID, appID uuid.UUID, uploads []entities.DocumentUpload) (*entities.VisaApplication, []string, error) {
	app, err := u.appRepo.GetByID(ctx, appID)
	if err != nil {
		return nil, nil, err
	}
	if app.UserID != userID {
		return nil, nil, domainerrors.NotFound("Application not found")
	}
	if len(uploads) == 0 {
		return nil, nil, domainerrors.FieldError("documents", "At least one document is required.")
	}

	required, err := u.visaTypeRepo.RequiredDocuments(ctx, app.VisaTypeID)
	if err != nil {
		return nil, nil, err
	}
	requiredIDs := make(map[uuid.UUID]struct{}, len(required))
	for _, rd := range required {
		requiredIDs[rd.ID] = struct{}{}
	}
	existing := make(map[uuid.UUID]*entities.ApplicationDocument, len(app.Documents))
	for _, doc := range app.Documents {
		existing[doc.RequiredDocumentID] = doc
	}

	for _, up := range uploads {
		if _, ok := requiredIDs[up.RequiredDocumentID]; !ok {
			return nil, nil, domainerrors.FieldError("documents", "Document is not required for this visa type.")
		}
		if doc, ok := existing[up.RequiredDocumentID]; ok {
			if err := u.appRepo.ReplaceDocument(ctx, doc.ID, up.FileURL); err != nil {
				return nil, nil, err
			}
			continue
		}
		doc := &entities.ApplicationDocument{
			ID:                 uuid.New(),
			ApplicationID:      appID,
			RequiredDocumentID: up.RequiredDocumentID,
			FileURL:            up.FileURL,
			Status:             entities.DocumentPending,
		}
		if err := u.appRepo.CreateDocument(ctx, doc); err != nil {
			return nil, nil, err
		}
		existing[up.RequiredDocumentID] = doc
	}

	covered := make(map[uuid.UUID]struct{}, len(existing))
	for id := range existing {
		covered[id] = struct{}{}
	}
	if app.Status == entities.ApplicationDraft && len(required) > 0 && len(covered) == len(required) {
		if err := u.appRepo.UpdateStatus(ctx, appID, entities.ApplicationSubmitted, nil, nil); err != nil {
			return nil, nil, err
		}
	}

	if err := u.refreshUserCaches(ctx, userID, appID); err != nil {
		return nil, nil, err
	}
	updated, err := u.appRepo.GetByID(ctx, appID)
	if err != nil {
		return nil, nil, err
	}
	return updated, missingDocumentNames(required, covered), nil
}

// AdminList returns applications across all users, optionally filtered by
// status
func (u *ApplicationUsecase) AdminList(ctx context.Context, status string) ([]*entities.VisaApplication, error) {
	if status != "" && !isKnownStatus(entities.ApplicationStatus(status)) {
		return nil, domainerrors.FieldError("status", "Unknown application status.")
	}
	return u.appRepo.List(ctx, status)
}

// Review applies an admin status write to an application. Rejection
// requires a reason; any other target status clears it.
func (u *ApplicationUsecase) Review(ctx context.Context, appID uuid.UUID, input *entities.ReviewApplicationInput) (*entities.VisaApplication, error) {
	app, err := u.appRepo.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}

	target := entities.ApplicationStatus(input.Status)
	if !isKnownStatus(target) {
		return nil, domainerrors.FieldError("status", "Unknown application status.")
	}
	if !canTransition(app.Status, target) {
		return nil, domainerrors.BadRequest(fmt.Sprintf("Cannot transition application from %s to %s", app.Status, target))
	}

	reason := strings.TrimSpace(input.RejectionReason)
	if target == entities.ApplicationRejected && reason == "" {
		return nil, domainerrors.FieldError("rejection_reason", "Rejection reason is required when rejecting.")
	}
	if target != entities.ApplicationRejected {
		reason = ""
	}

	if err := u.appRepo.UpdateStatus(ctx, appID, target, &input.AdminNotes, &reason); err != nil {
		return nil, err
	}
	if err := u.refreshUserCaches(ctx, app.UserID, appID); err != nil {
		return nil, err
	}
	return u.appRepo.GetByID(ctx, appID)
}

// ReviewDocuments applies a batch of per-document verdicts, then rescans
// the application: every required document approved moves it to in_review,
// a rejection while it is submitted or in review sends it back for
// additional documents.
func (u *ApplicationUsecase) ReviewDocuments(ctx context.Context, appID uuid.UUID, reviews []entities.DocumentReview) (*entities.VisaApplication, error) {
	app, err := u.appRepo.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, domainerrors.FieldError("documents", "At least one document review is required.")
	}

	for _, review := range reviews {
		doc, err := u.appRepo.GetDocument(ctx, review.DocumentID)
		if err != nil {
			return nil, err
		}
		if doc.ApplicationID != appID {
			return nil, domainerrors.FieldError("document_id", "Document does not belong to this application.")
		}

		status := entities.DocumentStatus(review.Status)
		switch status {
		case entities.DocumentPending, entities.DocumentApproved, entities.DocumentRejected:
		default:
			return nil, domainerrors.FieldError("status", "Unknown document status.")
		}

		reason := strings.TrimSpace(review.RejectionReason)
		if status == entities.DocumentRejected && reason == "" {
			return nil, domainerrors.FieldError("rejection_reason", "Rejection reason is required when rejecting a document.")
		}
		if status != entities.DocumentRejected {
			reason = ""
		}
		if err := u.appRepo.UpdateDocumentReview(ctx, doc.ID, status, &review.AdminNotes, &reason); err != nil {
			return nil, err
		}
	}

	if err := u.rescanApplication(ctx, app); err != nil {
		return nil, err
	}
	if err := u.refreshUserCaches(ctx, app.UserID, appID); err != nil {
		return nil, err
	}
	return u.appRepo.GetByID(ctx, appID)
}

// rescanApplication derives the application status from the current
// document verdicts after a review batch.
func (u *ApplicationUsecase) rescanApplication(ctx context.Context, app *entities.VisaApplication) error {
	required, err := u.visaTypeRepo.RequiredDocuments(ctx, app.VisaTypeID)
	if err != nil {
		return err
	}
	docs, err := u.appRepo.ListDocuments(ctx, app.ID)
	if err != nil {
		return err
	}

	approved := make(map[uuid.UUID]struct{})
	anyRejected := false
	for _, doc := range docs {
		switch doc.Status {
		case entities.DocumentApproved:
			approved[doc.RequiredDocumentID] = struct{}{}
		case entities.DocumentRejected:
			anyRejected = true
		}
	}
	allApproved := len(required) > 0
	for _, rd := range required {
		if _, ok := approved[rd.ID]; !ok {
			allApproved = false
			break
		}
	}

	switch {
	case allApproved:
		if app.Status == entities.ApplicationSubmitted || app.Status == entities.ApplicationAdditionalDocs {
			return u.appRepo.UpdateStatus(ctx, app.ID, entities.ApplicationInReview, nil, nil)
		}
	case anyRejected:
		if app.Status == entities.ApplicationSubmitted || app.Status == entities.ApplicationInReview {
			return u.appRepo.UpdateStatus(ctx, app.ID, entities.ApplicationAdditionalDocs, nil, nil)
		}
	}
	return nil
}

// refreshUserCaches drops and re-warms the owner's list and detail keys
func (u *ApplicationUsecase) refreshUserCaches(ctx context.Context, userID, appID uuid.UUID) error {
	if err := u.cache.Invalidate(ctx, userAppsKey(userID), userAppKey(userID, appID)); err != nil {
		return err
	}

	apps, err := u.appRepo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := u.cache.SetJSON(ctx, userAppsKey(userID), apps); err != nil {
		return err
	}

	app, err := u.appRepo.GetByID(ctx, appID)
	if err != nil {
		return err
	}
	return u.cache.SetJSON(ctx, userAppKey(userID, appID), app)
}

func isKnownStatus(status entities.ApplicationStatus) bool {
	switch status {
	case entities.ApplicationDraft, entities.ApplicationSubmitted, entities.ApplicationInReview,
		entities.ApplicationAdditionalDocs, entities.ApplicationApproved, entities.ApplicationRejected:
		return true
	}
	return false
}

// coveredDocuments validates uploads against the required set and returns
// the required document ids they cover.
func coveredDocuments(required []*entities.RequiredDocument, uploads []entities.DocumentUpload) (map[uuid.UUID]struct{}, error) {
	requiredIDs := make(map[uuid.UUID]struct{}, len(required))
	for _, rd := range required {
		requiredIDs[rd.ID] = struct{}{}
	}
	covered := make(map[uuid.UUID]struct{}, len(uploads))
	for _, up := range uploads {
		if _, ok := requiredIDs[up.RequiredDocumentID]; !ok {
			return nil, domainerrors.FieldError("documents", "Document is not required for this visa type.")
		}
		if _, dup := covered[up.RequiredDocumentID]; dup {
			return nil, domainerrors.FieldError("documents", "Duplicate upload for the same required document.")
		}
		covered[up.RequiredDocumentID] = struct{}{}
	}
	return covered, nil
}

func missingDocumentNames(required []*entities.RequiredDocument, covered map[uuid.UUID]struct{}) []string {
	var missing []string
	for _, rd := range required {
		if _, ok := covered[rd.ID]; !ok {
			missing = append(missing, rd.DocumentName)
		}
	}
	return missing
}
