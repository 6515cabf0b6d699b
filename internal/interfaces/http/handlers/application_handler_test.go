package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"visa-center.backend/internal/domain/entities"
	"visa-center.backend/internal/infrastructure/repositories"
	"visa-center.backend/internal/interfaces/http/middleware"
	"visa-center.backend/internal/usecases"
	redispkg "visa-center.backend/pkg/redis"
)

type stubUploader struct {
	keys []string
	err  error
}

func (s *stubUploader) Upload(ctx context.Context, data []byte, contentType, key string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.keys = append(s.keys, key)
	return "https://cdn.example.com/" + key, nil
}

type applicationTestEnv struct {
	router   *gin.Engine
	uploader *stubUploader
	country  *entities.Country
	vt       *entities.VisaType
	userID   uuid.UUID
}

func newApplicationTestEnv(t *testing.T, docNames ...string) *applicationTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	for _, q := range []string{
		`CREATE TABLE countries (id TEXT PRIMARY KEY, name TEXT NOT NULL, description TEXT, code TEXT UNIQUE NOT NULL, image_url TEXT, active BOOLEAN NOT NULL DEFAULT 1, created_at DATETIME, updated_at DATETIME, deleted_at DATETIME);`,
		`CREATE TABLE visa_types (id TEXT PRIMARY KEY, name TEXT NOT NULL, headings TEXT, description TEXT, price TEXT, processing_time TEXT, image_url TEXT, active BOOLEAN NOT NULL DEFAULT 1, created_at DATETIME, updated_at DATETIME, deleted_at DATETIME);`,
		`CREATE TABLE visa_processes (id TEXT PRIMARY KEY, points TEXT NOT NULL);`,
		`CREATE TABLE visa_overviews (id TEXT PRIMARY KEY, points TEXT NOT NULL, overview TEXT);`,
		`CREATE TABLE notes (id TEXT PRIMARY KEY, notes TEXT NOT NULL);`,
		`CREATE TABLE required_documents (id TEXT PRIMARY KEY, document_name TEXT NOT NULL);`,
		`CREATE TABLE country_visa_types (country_id TEXT NOT NULL, visa_type_id TEXT NOT NULL, PRIMARY KEY (country_id, visa_type_id));`,
		`CREATE TABLE visa_type_processes (visa_type_id TEXT NOT NULL, visa_process_id TEXT NOT NULL, PRIMARY KEY (visa_type_id, visa_process_id));`,
		`CREATE TABLE visa_type_overviews (visa_type_id TEXT NOT NULL, visa_overview_id TEXT NOT NULL, PRIMARY KEY (visa_type_id, visa_overview_id));`,
		`CREATE TABLE visa_type_notes (visa_type_id TEXT NOT NULL, note_id TEXT NOT NULL, PRIMARY KEY (visa_type_id, note_id));`,
		`CREATE TABLE visa_type_required_documents (visa_type_id TEXT NOT NULL, required_document_id TEXT NOT NULL, PRIMARY KEY (visa_type_id, required_document_id));`,
		`CREATE TABLE visa_applications (id TEXT PRIMARY KEY, user_id TEXT NOT NULL, country_id TEXT NOT NULL, visa_type_id TEXT NOT NULL, status TEXT NOT NULL DEFAULT 'draft', admin_notes TEXT, rejection_reason TEXT, created_at DATETIME, updated_at DATETIME, deleted_at DATETIME);`,
		`CREATE TABLE application_documents (id TEXT PRIMARY KEY, application_id TEXT NOT NULL, required_document_id TEXT NOT NULL, file_url TEXT NOT NULL, status TEXT NOT NULL DEFAULT 'pending', admin_notes TEXT, rejection_reason TEXT, created_at DATETIME, updated_at DATETIME, UNIQUE (application_id, required_document_id));`,
	} {
		require.NoError(t, db.Exec(q).Error)
	}

	srv, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	client := redisv9.NewClient(&redisv9.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	redispkg.SetClient(client)

	ctx := context.Background()
	countryRepo := repositories.NewCountryRepository(db)
	visaTypeRepo := repositories.NewVisaTypeRepository(db)

	vt := &entities.VisaType{ID: uuid.New(), Name: "Tourist Visa", Active: true}
	for _, name := range docNames {
		vt.RequiredDocuments = append(vt.RequiredDocuments, &entities.RequiredDocument{ID: uuid.New(), DocumentName: name})
	}
	require.NoError(t, visaTypeRepo.Create(ctx, vt))
	country := &entities.Country{ID: uuid.New(), Name: "Japan", Code: "JP", Active: true}
	require.NoError(t, countryRepo.Create(ctx, country, []uuid.UUID{vt.ID}))

	uc := usecases.NewApplicationUsecase(
		repositories.NewApplicationRepository(db),
		countryRepo,
		visaTypeRepo,
		redispkg.NewCache(5*time.Minute),
	)
	uploader := &stubUploader{}
	h := NewApplicationHandler(uc, uploader)

	userID := uuid.New()
	router := gin.New()
	authed := router.Group("", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	})
	authed.POST("/visa-applications", h.Create)
	authed.GET("/visa-applications", h.List)
	authed.GET("/visa-applications/:id", h.Get)
	authed.PATCH("/visa-applications/:id", h.UpdateDocuments)
	router.GET("/admin/visa-applications", h.AdminList)
	router.PATCH("/admin/visa-applications/:id", h.Review)
	router.PATCH("/admin/document-review/:id", h.ReviewDocuments)

	return &applicationTestEnv{
		router:   router,
		uploader: uploader,
		country:  country,
		vt:       vt,
		userID:   userID,
	}
}

// multipartRequest builds a multipart body with the given form fields and
// one file part per (fieldName, fileName) pair.
func multipartRequest(t *testing.T, method, url string, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, filename := range files {
		part, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("file contents"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestApplicationHandler_CreateWithFullDocumentSet(t *testing.T) {
	env := newApplicationTestEnv(t, "Passport")

	req := multipartRequest(t, http.MethodPost, "/visa-applications",
		map[string]string{
			"country_id":   env.country.ID.String(),
			"visa_type_id": env.vt.ID.String(),
		},
		map[string]string{
			env.vt.RequiredDocuments[0].ID.String(): "passport.pdf",
		},
	)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), `"status":"submitted"`)
	require.NotContains(t, w.Body.String(), "missing_documents")
	require.Len(t, env.uploader.keys, 1)
	require.True(t, strings.HasPrefix(env.uploader.keys[0], "applications/"+env.userID.String()+"/"))
	require.True(t, strings.HasSuffix(env.uploader.keys[0], ".pdf"))
}

func TestApplicationHandler_CreatePartialSetReportsMissing(t *testing.T) {
	env := newApplicationTestEnv(t, "Passport", "Bank Statement")

	req := multipartRequest(t, http.MethodPost, "/visa-applications",
		map[string]string{
			"country_id":   env.country.ID.String(),
			"visa_type_id": env.vt.ID.String(),
		},
		map[string]string{
			env.vt.RequiredDocuments[0].ID.String(): "passport.jpg",
		},
	)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), `"status":"draft"`)
	require.Contains(t, w.Body.String(), "Bank Statement")
}

func TestApplicationHandler_CreateRejectsBadInput(t *testing.T) {
	env := newApplicationTestEnv(t, "Passport")

	t.Run("file field is not a document id", func(t *testing.T) {
		req := multipartRequest(t, http.MethodPost, "/visa-applications",
			map[string]string{
				"country_id":   env.country.ID.String(),
				"visa_type_id": env.vt.ID.String(),
			},
			map[string]string{"passport": "passport.pdf"},
		)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), "is not a required document id")
	})

	t.Run("disallowed extension", func(t *testing.T) {
		req := multipartRequest(t, http.MethodPost, "/visa-applications",
			map[string]string{
				"country_id":   env.country.ID.String(),
				"visa_type_id": env.vt.ID.String(),
			},
			map[string]string{env.vt.RequiredDocuments[0].ID.String(): "payload.exe"},
		)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), "Only .pdf, .jpg, .jpeg and .png files are allowed.")
	})

	t.Run("missing country id", func(t *testing.T) {
		req := multipartRequest(t, http.MethodPost, "/visa-applications",
			map[string]string{"visa_type_id": env.vt.ID.String()}, nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), "A valid country id is required.")
	})
}

func TestApplicationHandler_ListGetAndReview(t *testing.T) {
	env := newApplicationTestEnv(t, "Passport")

	req := multipartRequest(t, http.MethodPost, "/visa-applications",
		map[string]string{
			"country_id":   env.country.ID.String(),
			"visa_type_id": env.vt.ID.String(),
		},
		map[string]string{env.vt.RequiredDocuments[0].ID.String(): "passport.pdf"},
	)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/visa-applications", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Applications []*entities.VisaApplication `json:"applications"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Applications, 1)
	appID := listed.Applications[0].ID

	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/visa-applications/"+appID.String(), nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := strings.NewReader(`{"status":"in_review","admin_notes":"Checking"}`)
	reviewReq := httptest.NewRequest(http.MethodPatch, "/admin/visa-applications/"+appID.String(), body)
	reviewReq.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, reviewReq)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"in_review"`)

	docBody := strings.NewReader(fmt.Sprintf(
		`{"documents":[{"document_id":%q,"status":"approved"}]}`,
		listed.Applications[0].Documents[0].ID,
	))
	docReq := httptest.NewRequest(http.MethodPatch, "/admin/document-review/"+appID.String(), docBody)
	docReq.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, docReq)
	require.Equal(t, http.StatusOK, w.Code)
}
