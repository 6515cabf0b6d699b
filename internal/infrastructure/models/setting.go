package models

import "time"

// SiteSetting is a singleton row; writes always target id 1.
type SiteSetting struct {
	ID           int    `gorm:"primaryKey"`
	SiteName     string `gorm:"type:varchar(150)"`
	ContactEmail string `gorm:"type:varchar(255)"`
	ContactPhone string `gorm:"type:varchar(20)"`
	Address      string `gorm:"type:text"`
	OfficeHours  string `gorm:"type:varchar(150)"`
	FacebookURL  string `gorm:"type:text"`
	InstagramURL string `gorm:"type:text"`
	UpdatedAt    time.Time
}
