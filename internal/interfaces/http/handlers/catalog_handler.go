package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"visa-center.backend/internal/domain/entities"
	domainerrors "visa-center.backend/internal/domain/errors"
	"visa-center.backend/internal/interfaces/http/response"
	"visa-center.backend/internal/usecases"
)

// CatalogHandler serves the public country/visa-type catalog and its admin
// write endpoints
type CatalogHandler struct {
	catalogUsecase *usecases.CatalogUsecase
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogUsecase *usecases.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{
		catalogUsecase: catalogUsecase,
	}
}

// ListCountries returns active countries
// GET /api/v1/countries
func (h *CatalogHandler) ListCountries(c *gin.Context) {
	countries, err := h.catalogUsecase.ListCountries(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"countries": countries})
}

// GetCountry returns one country with its offered visa types
// GET /api/v1/countries/:id
func (h *CatalogHandler) GetCountry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid country id"))
		return
	}

	country, err := h.catalogUsecase.GetCountry(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"country": country})
}

// ListCountryVisaTypes returns the active visa types a country offers
// GET /api/v1/countries/:id/visa-types
func (h *CatalogHandler) ListCountryVisaTypes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid country id"))
		return
	}

	types, err := h.catalogUsecase.ListCountryVisaTypes(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"visa_types": types})
}

// ListVisaTypes returns active visa types
// GET /api/v1/visa-types
func (h *CatalogHandler) ListVisaTypes(c *gin.Context) {
	types, err := h.catalogUsecase.ListVisaTypes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"visa_types": types})
}

// GetVisaType returns one visa type with its relations
// GET /api/v1/visa-types/:id
func (h *CatalogHandler) GetVisaType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid visa type id"))
		return
	}

	vt, err := h.catalogUsecase.GetVisaType(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"visa_type": vt})
}

// CreateCountry creates a country
// POST /api/v1/admin/countries
func (h *CatalogHandler) CreateCountry(c *gin.Context) {
	var input entities.CreateCountryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	country, err := h.catalogUsecase.CreateCountry(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"country": country})
}

// UpdateCountry updates a country
// PUT /api/v1/admin/countries/:id
func (h *CatalogHandler) UpdateCountry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid country id"))
		return
	}

	var input entities.CreateCountryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	country, err := h.catalogUsecase.UpdateCountry(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"country": country})
}

// SetCountryVisaTypes replaces a country's visa type set
// PUT /api/v1/admin/countries/:id/visa-types
func (h *CatalogHandler) SetCountryVisaTypes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid country id"))
		return
	}

	var input struct {
		VisaTypeIDs []string `json:"visa_type_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.catalogUsecase.SetCountryVisaTypes(c.Request.Context(), id, input.VisaTypeIDs); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Visa types updated.")
}

// DeleteCountry deletes a country
// DELETE /api/v1/admin/countries/:id
func (h *CatalogHandler) DeleteCountry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid country id"))
		return
	}

	if err := h.catalogUsecase.DeleteCountry(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusNoContent, nil)
}

// CreateVisaType creates a visa type
// POST /api/v1/admin/visa-types
func (h *CatalogHandler) CreateVisaType(c *gin.Context) {
	var input entities.CreateVisaTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	vt, err := h.catalogUsecase.CreateVisaType(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"visa_type": vt})
}

// UpdateVisaType updates a visa type
// PUT /api/v1/admin/visa-types/:id
func (h *CatalogHandler) UpdateVisaType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid visa type id"))
		return
	}

	var input entities.CreateVisaTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	vt, err := h.catalogUsecase.UpdateVisaType(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"visa_type": vt})
}

// DeleteVisaType deletes a visa type
// DELETE /api/v1/admin/visa-types/:id
func (h *CatalogHandler) DeleteVisaType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid visa type id"))
		return
	}

	if err := h.catalogUsecase.DeleteVisaType(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusNoContent, nil)
}
