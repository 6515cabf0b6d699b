package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"visa-center.backend/internal/domain/entities"
	domainerrors "visa-center.backend/internal/domain/errors"
	"visa-center.backend/internal/domain/repositories"
	"visa-center.backend/pkg/redis"
)

// Cache keys are fully determined by entity id and relation name.
func countriesActiveKey() string          { return "countries:active" }
func countryKey(id uuid.UUID) string      { return fmt.Sprintf("country:%s", id) }
func countryTypesKey(id uuid.UUID) string { return fmt.Sprintf("country:%s:visa_types", id) }
func visaTypesActiveKey() string          { return "visa_types:active" }
func visaTypeKey(id uuid.UUID) string     { return fmt.Sprintf("visa_type:%s", id) }

// CatalogUsecase serves country and visa type reads through a cache-aside
// layer and keeps it coherent on writes. Every write invalidates the
// affected keys and re-warms them synchronously before returning, so a
// reader never pays a cold query after a completed write. The database is
// always the system of record; misses fall through and are not negatively
// cached.
type CatalogUsecase struct {
	countryRepo  repositories.CountryRepository
	visaTypeRepo repositories.VisaTypeRepository
	cache        *redis.Cache
}

// NewCatalogUsecase creates a new catalog usecase
func NewCatalogUsecase(
	countryRepo repositories.CountryRepository,
	visaTypeRepo repositories.VisaTypeRepository,
	cache *redis.Cache,
) *CatalogUsecase {
	return &CatalogUsecase{
		countryRepo:  countryRepo,
		visaTypeRepo: visaTypeRepo,
		cache:        cache,
	}
}

// ListCountries returns active countries, cache first
func (u *CatalogUsecase) ListCountries(ctx context.Context) ([]*entities.Country, error) {
	var cached []*entities.Country
	if hit, err := u.cache.GetJSON(ctx, countriesActiveKey(), &cached); err != nil {
		return nil, err
	} else if hit {
		return cached, nil
	}

	countries, err := u.countryRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.cache.SetJSON(ctx, countriesActiveKey(), countries); err != nil {
		return nil, err
	}
	return countries, nil
}

// GetCountry returns one country, cache first
func (u *CatalogUsecase) GetCountry(ctx context.Context, id uuid.UUID) (*entities.Country, error) {
	var cached entities.Country
	if hit, err := u.cache.GetJSON(ctx, countryKey(id), &cached); err != nil {
		return nil, err
	} else if hit {
		return &cached, nil
	}

	country, err := u.countryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.cache.SetJSON(ctx, countryKey(id), country); err != nil {
		return nil, err
	}
	return country, nil
}

// ListCountryVisaTypes returns the active visa types a country offers,
// cache first
func (u *CatalogUsecase) ListCountryVisaTypes(ctx context.Context, countryID uuid.UUID) ([]*entities.VisaType, error) {
	var cached []*entities.VisaType
	if hit, err := u.cache.GetJSON(ctx, countryTypesKey(countryID), &cached); err != nil {
		return nil, err
	} else if hit {
		return cached, nil
	}

	if _, err := u.countryRepo.GetByID(ctx, countryID); err != nil {
		return nil, err
	}
	types, err := u.visaTypeRepo.ListActiveByCountry(ctx, countryID)
	if err != nil {
		return nil, err
	}
	if err := u.cache.SetJSON(ctx, countryTypesKey(countryID), types); err != nil {
		return nil, err
	}
	return types, nil
}

// ListVisaTypes returns active visa types, cache first
func (u *CatalogUsecase) ListVisaTypes(ctx context.Context) ([]*entities.VisaType, error) {
	var cached []*entities.VisaType
	if hit, err := u.cache.GetJSON(ctx, visaTypesActiveKey(), &cached); err != nil {
		return nil, err
	} else if hit {
		return cached, nil
	}

	types, err := u.visaTypeRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.cache.SetJSON(ctx, visaTypesActiveKey(), types); err != nil {
		return nil, err
	}
	return types, nil
}

// GetVisaType returns one visa type, cache first
func (u *CatalogUsecase) GetVisaType(ctx context.Context, id uuid.UUID) (*entities.VisaType, error) {
	var cached entities.VisaType
	if hit, err := u.cache.GetJSON(ctx, visaTypeKey(id), &cached); err != nil {
		return nil, err
	} else if hit {
		return &cached, nil
	}

	vt, err := u.visaTypeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.cache.SetJSON(ctx, visaTypeKey(id), vt); err != nil {
		return nil, err
	}
	return vt, nil
}

// CreateCountry creates a country and re-warms its caches
func (u *CatalogUsecase) CreateCountry(ctx context.Context, input *entities.CreateCountryInput) (*entities.Country, error) {
	visaTypeIDs, err := parseUUIDs(input.VisaTypeIDs)
	if err != nil {
		return nil, domainerrors.FieldError("visa_type_ids", "Invalid visa type id.")
	}

	country := &entities.Country{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Code:        input.Code,
		ImageURL:    input.ImageURL,
		Active:      true,
	}
	if input.Active != nil {
		country.Active = *input.Active
	}

	if err := u.countryRepo.Create(ctx, country, visaTypeIDs); err != nil {
		return nil, err
	}
	if err := u.refreshCountryCaches(ctx, country.ID); err != nil {
		return nil, err
	}
	return u.countryRepo.GetByID(ctx, country.ID)
}

// UpdateCountry updates a country and re-warms its caches
func (u *CatalogUsecase) UpdateCountry(ctx context.Context, id uuid.UUID, input *entities.CreateCountryInput) (*entities.Country, error) {
	var visaTypeIDs []uuid.UUID
	if input.VisaTypeIDs != nil {
		ids, err := parseUUIDs(input.VisaTypeIDs)
		if err != nil {
			return nil, domainerrors.FieldError("visa_type_ids", "Invalid visa type id.")
		}
		visaTypeIDs = ids
	}

	country := &entities.Country{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Code:        input.Code,
		ImageURL:    input.ImageURL,
		Active:      true,
	}
	if input.Active != nil {
		country.Active = *input.Active
	}

	if err := u.countryRepo.Update(ctx, country, visaTypeIDs); err != nil {
		return nil, err
	}
	if err := u.refreshCountryCaches(ctx, id); err != nil {
		return nil, err
	}
	return u.countryRepo.GetByID(ctx, id)
}

// SetCountryVisaTypes replaces a country's visa type set and re-warms the
// caches on both sides of the relation
func (u *CatalogUsecase) SetCountryVisaTypes(ctx context.Context, id uuid.UUID, rawIDs []string) error {
	visaTypeIDs, err := parseUUIDs(rawIDs)
	if err != nil {
		return domainerrors.FieldError("visa_type_ids", "Invalid visa type id.")
	}
	if err := u.countryRepo.SetVisaTypes(ctx, id, visaTypeIDs); err != nil {
		return err
	}
	if err := u.refreshCountryCaches(ctx, id); err != nil {
		return err
	}
	return u.refreshVisaTypeListCache(ctx)
}

// DeleteCountry deletes a country, drops its keys and re-warms the list
func (u *CatalogUsecase) DeleteCountry(ctx context.Context, id uuid.UUID) error {
	if err := u.countryRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := u.cache.Invalidate(ctx, countriesActiveKey(), countryKey(id), countryTypesKey(id)); err != nil {
		return err
	}
	countries, err := u.countryRepo.ListActive(ctx)
	if err != nil {
		return err
	}
	return u.cache.SetJSON(ctx, countriesActiveKey(), countries)
}

// CreateVisaType creates a visa type and re-warms its caches
func (u *CatalogUsecase) CreateVisaType(ctx context.Context, input *entities.CreateVisaTypeInput) (*entities.VisaType, error) {
	vt := visaTypeFromInput(uuid.New(), input)
	if err := u.visaTypeRepo.Create(ctx, vt); err != nil {
		return nil, err
	}
	if err := u.refreshVisaTypeCaches(ctx, vt.ID); err != nil {
		return nil, err
	}
	return u.visaTypeRepo.GetByID(ctx, vt.ID)
}

// UpdateVisaType updates a visa type and re-warms its caches plus those of
// every country offering it
func (u *CatalogUsecase) UpdateVisaType(ctx context.Context, id uuid.UUID, input *entities.CreateVisaTypeInput) (*entities.VisaType, error) {
	vt := visaTypeFromInput(id, input)
	if err := u.visaTypeRepo.Update(ctx, vt); err != nil {
		return nil, err
	}
	if err := u.refreshVisaTypeCaches(ctx, id); err != nil {
		return nil, err
	}
	return u.visaTypeRepo.GetByID(ctx, id)
}

// DeleteVisaType deletes a visa type, drops its keys and re-warms the
// affected lists
func (u *CatalogUsecase) DeleteVisaType(ctx context.Context, id uuid.UUID) error {
	// Capture the offering countries before the row disappears.
	countryIDs, err := u.visaTypeRepo.CountryIDsOffering(ctx, id)
	if err != nil {
		return err
	}

	if err := u.visaTypeRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := u.cache.Invalidate(ctx, visaTypesActiveKey(), visaTypeKey(id)); err != nil {
		return err
	}
	if err := u.refreshVisaTypeListCache(ctx); err != nil {
		return err
	}
	for _, countryID := range countryIDs {
		if err := u.refreshCountryCaches(ctx, countryID); err != nil {
			return err
		}
	}
	return nil
}

// refreshCountryCaches drops and synchronously re-warms the list, detail
// and derived join keys for one country.
func (u *CatalogUsecase) refreshCountryCaches(ctx context.Context, id uuid.UUID) error {
	if err := u.cache.Invalidate(ctx, countriesActiveKey(), countryKey(id), countryTypesKey(id)); err != nil {
		return err
	}

	countries, err := u.countryRepo.ListActive(ctx)
	if err != nil {
		return err
	}
	if err := u.cache.SetJSON(ctx, countriesActiveKey(), countries); err != nil {
		return err
	}

	country, err := u.countryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil
		}
		return err
	}
	// Detail and join keys hold active rows only.
	if !country.Active {
		return nil
	}
	if err := u.cache.SetJSON(ctx, countryKey(id), country); err != nil {
		return err
	}

	types, err := u.visaTypeRepo.ListActiveByCountry(ctx, id)
	if err != nil {
		return err
	}
	return u.cache.SetJSON(ctx, countryTypesKey(id), types)
}

// refreshVisaTypeCaches drops and re-warms the visa type keys, then the
// caches of every country whose offer includes it.
func (u *CatalogUsecase) refreshVisaTypeCaches(ctx context.Context, id uuid.UUID) error {
	if err := u.cache.Invalidate(ctx, visaTypesActiveKey(), visaTypeKey(id)); err != nil {
		return err
	}
	if err := u.refreshVisaTypeListCache(ctx); err != nil {
		return err
	}

	vt, err := u.visaTypeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if vt.Active {
		if err := u.cache.SetJSON(ctx, visaTypeKey(id), vt); err != nil {
			return err
		}
	}

	countryIDs, err := u.visaTypeRepo.CountryIDsOffering(ctx, id)
	if err != nil {
		return err
	}
	for _, countryID := range countryIDs {
		if err := u.refreshCountryCaches(ctx, countryID); err != nil {
			return err
		}
	}
	return nil
}

func (u *CatalogUsecase) refreshVisaTypeListCache(ctx context.Context) error {
	types, err := u.visaTypeRepo.ListActive(ctx)
	if err != nil {
		return err
	}
	return u.cache.SetJSON(ctx, visaTypesActiveKey(), types)
}

func visaTypeFromInput(id uuid.UUID, input *entities.CreateVisaTypeInput) *entities.VisaType {
	vt := &entities.VisaType{
		ID:             id,
		Name:           input.Name,
		Headings:       input.Headings,
		Description:    input.Description,
		Price:          input.Price,
		ProcessingTime: input.ProcessingTime,
		ImageURL:       input.ImageURL,
		Active:         true,
	}
	if input.Active != nil {
		vt.Active = *input.Active
	}
	for _, p := range input.Processes {
		vt.Processes = append(vt.Processes, entities.VisaProcess{Points: p})
	}
	for _, o := range input.Overviews {
		vt.Overviews = append(vt.Overviews, entities.VisaOverview{Points: o.Points, Overview: o.Overview})
	}
	for _, n := range input.Notes {
		vt.Notes = append(vt.Notes, entities.Note{Notes: n})
	}
	for _, d := range input.RequiredDocuments {
		vt.RequiredDocuments = append(vt.RequiredDocuments, &entities.RequiredDocument{DocumentName: d})
	}
	return vt
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
