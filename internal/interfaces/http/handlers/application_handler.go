package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"visa-center.backend/internal/domain/entities"
	domainerrors "visa-center.backend/internal/domain/errors"
	"visa-center.backend/internal/interfaces/http/middleware"
	"visa-center.backend/internal/interfaces/http/response"
	"visa-center.backend/internal/usecases"
	"visa-center.backend/pkg/storage"
)

const maxDocumentBytes = 5 << 20

var allowedDocumentExtensions = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// ApplicationHandler handles visa application endpoints. Document files
// arrive as multipart parts named by required document id and are pushed
// to object storage before the usecase runs.
type ApplicationHandler struct {
	appUsecase *usecases.ApplicationUsecase
	uploader   storage.Uploader
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(appUsecase *usecases.ApplicationUsecase, uploader storage.Uploader) *ApplicationHandler {
	return &ApplicationHandler{
		appUsecase: appUsecase,
		uploader:   uploader,
	}
}

// Create files a new application with its documents
// POST /api/v1/visa-applications
func (h *ApplicationHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	countryID, err := uuid.Parse(c.PostForm("country_id"))
	if err != nil {
		response.Error(c, domainerrors.FieldError("country_id", "A valid country id is required."))
		return
	}
	visaTypeID, err := uuid.Parse(c.PostForm("visa_type_id"))
	if err != nil {
		response.Error(c, domainerrors.FieldError("visa_type_id", "A valid visa type id is required."))
		return
	}

	uploads, err := h.collectUploads(c, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	app, missing, err := h.appUsecase.Create(c.Request.Context(), userID, countryID, visaTypeID, uploads)
	if err != nil {
		response.Error(c, err)
		return
	}

	body := gin.H{"application": app}
	if len(missing) > 0 {
		body["missing_documents"] = missing
	}
	response.Success(c, http.StatusCreated, body)
}

// List returns the caller's applications
// GET /api/v1/visa-applications
func (h *ApplicationHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}

	apps, err := h.appUsecase.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"applications": apps})
}

// Get returns one of the caller's applications
// GET /api/v1/visa-applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}
	appID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid application id"))
		return
	}

	app, err := h.appUsecase.GetForUser(c.Request.Context(), userID, appID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"application": app})
}

// UpdateDocuments re-uploads documents for an application
// PATCH /api/v1/visa-applications/:id
func (h *ApplicationHandler) UpdateDocuments(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Authentication required"))
		return
	}
	appID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid application id"))
		return
	}

	uploads, err := h.collectUploads(c, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	app, missing, err := h.appUsecase.UpdateDocuments(c.Request.Context(), userID, appID, uploads)
	if err != nil {
		response.Error(c, err)
		return
	}

	body := gin.H{"application": app}
	if len(missing) > 0 {
		body["missing_documents"] = missing
	}
	response.Success(c, http.StatusOK, body)
}

// AdminList returns applications across all users
// GET /api/v1/admin/visa-applications
func (h *ApplicationHandler) AdminList(c *gin.Context) {
	apps, err := h.appUsecase.AdminList(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"applications": apps})
}

// Review applies an admin status write
// PATCH /api/v1/admin/visa-applications/:id
func (h *ApplicationHandler) Review(c *gin.Context) {
	appID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid application id"))
		return
	}

	var input entities.ReviewApplicationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	app, err := h.appUsecase.Review(c.Request.Context(), appID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"application": app})
}

// ReviewDocuments applies a batch of per-document verdicts
// PATCH /api/v1/admin/document-review/:id
func (h *ApplicationHandler) ReviewDocuments(c *gin.Context) {
	appID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid application id"))
		return
	}

	var input struct {
		Documents []entities.DocumentReview `json:"documents" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	app, err := h.appUsecase.ReviewDocuments(c.Request.Context(), appID, input.Documents)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"application": app})
}

// collectUploads reads every multipart file part named by a required
// document id, validates it and pushes it to object storage.
func (h *ApplicationHandler) collectUploads(c *gin.Context, userID uuid.UUID) ([]entities.DocumentUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, domainerrors.BadRequest("Multipart form data is required")
	}

	var uploads []entities.DocumentUpload
	for field, files := range form.File {
		requiredDocID, err := uuid.Parse(field)
		if err != nil {
			return nil, domainerrors.FieldError("documents", fmt.Sprintf("File field %q is not a required document id.", field))
		}
		if len(files) != 1 {
			return nil, domainerrors.FieldError("documents", "Exactly one file per required document is allowed.")
		}

		url, err := h.uploadDocument(c, userID, files[0])
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, entities.DocumentUpload{
			RequiredDocumentID: requiredDocID,
			FileURL:            url,
		})
	}
	return uploads, nil
}

func (h *ApplicationHandler) uploadDocument(c *gin.Context, userID uuid.UUID, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > maxDocumentBytes {
		return "", domainerrors.FieldError("documents", "Each document must be 5MB or smaller.")
	}
	ext := strings.ToLower(path.Ext(fileHeader.Filename))
	contentType, ok := allowedDocumentExtensions[ext]
	if !ok {
		return "", domainerrors.FieldError("documents", "Only .pdf, .jpg, .jpeg and .png files are allowed.")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("applications/%s/%s%s", userID, uuid.NewString(), ext)
	url, err := h.uploader.Upload(c.Request.Context(), data, contentType, key)
	if err != nil {
		return "", domainerrors.NewAppError(http.StatusInternalServerError, "Failed to store document. Please try again.", err)
	}
	return url, nil
}
