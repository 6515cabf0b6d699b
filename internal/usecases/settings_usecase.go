package usecases

import (
	"context"
	"errors"
	"strings"

	"visa-center.backend/internal/domain/entities"
	domainerrors "visa-center.backend/internal/domain/errors"
	"visa-center.backend/internal/domain/repositories"
	"visa-center.backend/pkg/redis"
)

func settingsKey() string { return "settings:site" }

// SettingsUsecase serves the site settings singleton through the cache
// and keeps the key coherent across writes, the same way the catalog
// keys are handled.
type SettingsUsecase struct {
	settingsRepo repositories.SettingsRepository
	cache        *redis.Cache
}

// NewSettingsUsecase creates a new settings usecase
func NewSettingsUsecase(settingsRepo repositories.SettingsRepository, cache *redis.Cache) *SettingsUsecase {
	return &SettingsUsecase{
		settingsRepo: settingsRepo,
		cache:        cache,
	}
}

// Get returns the site settings, cache first. A missing row yields the
// zero value so the endpoint always answers.
func (u *SettingsUsecase) Get(ctx context.Context) (*entities.SiteSettings, error) {
	var cached entities.SiteSettings
	if hit, err := u.cache.GetJSON(ctx, settingsKey(), &cached); err != nil {
		return nil, err
	} else if hit {
		return &cached, nil
	}

	settings, err := u.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return &entities.SiteSettings{}, nil
		}
		return nil, err
	}
	if err := u.cache.SetJSON(ctx, settingsKey(), settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Update applies a partial write and re-warms the key synchronously
func (u *SettingsUsecase) Update(ctx context.Context, input *entities.UpdateSettingsInput) (*entities.SiteSettings, error) {
	settings, err := u.settingsRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, domainerrors.ErrNotFound) {
			return nil, err
		}
		settings = &entities.SiteSettings{}
	}

	if input.SiteName != nil {
		settings.SiteName = strings.TrimSpace(*input.SiteName)
	}
	if input.ContactEmail != nil {
		email := strings.ToLower(strings.TrimSpace(*input.ContactEmail))
		if email != "" && !emailPattern.MatchString(email) {
			return nil, domainerrors.FieldError("contact_email", "Invalid email format.")
		}
		settings.ContactEmail = email
	}
	if input.ContactPhone != nil {
		settings.ContactPhone = strings.TrimSpace(*input.ContactPhone)
	}
	if input.Address != nil {
		settings.Address = strings.TrimSpace(*input.Address)
	}
	if input.OfficeHours != nil {
		settings.OfficeHours = strings.TrimSpace(*input.OfficeHours)
	}
	if input.FacebookURL != nil {
		settings.FacebookURL = strings.TrimSpace(*input.FacebookURL)
	}
	if input.InstagramURL != nil {
		settings.InstagramURL = strings.TrimSpace(*input.InstagramURL)
	}

	if err := u.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, err
	}

	if err := u.cache.Invalidate(ctx, settingsKey()); err != nil {
		return nil, err
	}
	updated, err := u.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.cache.SetJSON(ctx, settingsKey(), updated); err != nil {
		return nil, err
	}
	return updated, nil
}
