package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Consultation struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	FullName      string    `gorm:"type:varchar(150);not null"`
	Email         string    `gorm:"type:varchar(255);not null;index"`
	PhoneNumber   string    `gorm:"type:varchar(20);not null"`
	Message       string    `gorm:"type:text"`
	PreferredDate *time.Time
	Status        string `gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}
