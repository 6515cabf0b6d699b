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

// ConsultationHandler serves the public booking endpoint and its admin
// follow-up endpoints
type ConsultationHandler struct {
	consultationUsecase *usecases.ConsultationUsecase
}

// NewConsultationHandler creates a new consultation handler
func NewConsultationHandler(consultationUsecase *usecases.ConsultationUsecase) *ConsultationHandler {
	return &ConsultationHandler{
		consultationUsecase: consultationUsecase,
	}
}

// Book records a consultation request
// POST /api/v1/book-consultation
func (h *ConsultationHandler) Book(c *gin.Context) {
	var input entities.BookConsultationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	consultation, err := h.consultationUsecase.Book(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"consultation": consultation})
}

// List returns bookings, optionally filtered by status
// GET /api/v1/admin/consultations
func (h *ConsultationHandler) List(c *gin.Context) {
	consultations, err := h.consultationUsecase.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"consultations": consultations})
}

// Get returns one booking
// GET /api/v1/admin/consultations/:id
func (h *ConsultationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid consultation id"))
		return
	}

	consultation, err := h.consultationUsecase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"consultation": consultation})
}

// UpdateStatus applies an admin status write to a booking
// PATCH /api/v1/admin/consultations/:id
func (h *ConsultationHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid consultation id"))
		return
	}

	var input entities.UpdateConsultationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	consultation, err := h.consultationUsecase.UpdateStatus(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"consultation": consultation})
}

// Delete removes a booking
// DELETE /api/v1/admin/consultations/:id
func (h *ConsultationHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid consultation id"))
		return
	}

	if err := h.consultationUsecase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusNoContent, nil)
}
