package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"visa-center.backend/internal/domain/entities"
	domainerrors "visa-center.backend/internal/domain/errors"
	"visa-center.backend/internal/interfaces/http/response"
	"visa-center.backend/internal/usecases"
)

// SettingsHandler serves the public settings read and its admin write
type SettingsHandler struct {
	settingsUsecase *usecases.SettingsUsecase
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsUsecase *usecases.SettingsUsecase) *SettingsHandler {
	return &SettingsHandler{
		settingsUsecase: settingsUsecase,
	}
}

// Get returns the site settings
// GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsUsecase.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"settings": settings})
}

// Update applies a partial settings write
// PUT /api/v1/admin/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var input entities.UpdateSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	settings, err := h.settingsUsecase.Update(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"settings": settings})
}
