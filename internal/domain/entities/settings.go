package entities

import "time"

// SiteSettings is the single row of site-wide contact and content
// settings served to the frontend.
type SiteSettings struct {
	SiteName     string    `json:"site_name"`
	ContactEmail string    `json:"contact_email"`
	ContactPhone string    `json:"contact_phone"`
	Address      string    `json:"address"`
	OfficeHours  string    `json:"office_hours"`
	FacebookURL  string    `json:"facebook_url"`
	InstagramURL string    `json:"instagram_url"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UpdateSettingsInput carries a partial settings write. Nil pointers
// leave the field untouched; empty strings clear it.
type UpdateSettingsInput struct {
	SiteName     *string `json:"site_name"`
	ContactEmail *string `json:"contact_email"`
	ContactPhone *string `json:"contact_phone"`
	Address      *string `json:"address"`
	OfficeHours  *string `json:"office_hours"`
	FacebookURL  *string `json:"facebook_url"`
	InstagramURL *string `json:"instagram_url"`
}
