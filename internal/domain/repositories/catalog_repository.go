package repositories

import (
	"context"

	"github.com/google/uuid"
	"visa-center.backend/internal/domain/entities"
)

// CountryRepository defines country data operations. Reads preload the
// offered visa types.
type CountryRepository interface {
	Create(ctx context.Context, country *entities.Country, visaTypeIDs []uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Country, error)
	ListActive(ctx context.Context) ([]*entities.Country, error)
	Update(ctx context.Context, country *entities.Country, visaTypeIDs []uuid.UUID) error
	SetVisaTypes(ctx context.Context, id uuid.UUID, visaTypeIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	OffersVisaType(ctx context.Context, countryID, visaTypeID uuid.UUID) (bool, error)
}

// VisaTypeRepository defines visa type data operations. Reads preload the
// process/overview/note/required-document relations.
type VisaTypeRepository interface {
	Create(ctx context.Context, vt *entities.VisaType) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.VisaType, error)
	ListActive(ctx context.Context) ([]*entities.VisaType, error)
	ListActiveByCountry(ctx context.Context, countryID uuid.UUID) ([]*entities.VisaType, error)
	Update(ctx context.Context, vt *entities.VisaType) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CountryIDsOffering returns ids of countries whose offer includes the visa type.
	CountryIDsOffering(ctx context.Context, visaTypeID uuid.UUID) ([]uuid.UUID, error)
	RequiredDocuments(ctx context.Context, visaTypeID uuid.UUID) ([]*entities.RequiredDocument, error)
}
