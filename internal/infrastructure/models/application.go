package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VisaApplication struct {
	ID              uuid.UUID             `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID          uuid.UUID             `gorm:"type:uuid;not null;index"`
	CountryID       uuid.UUID             `gorm:"type:uuid;not null"`
	VisaTypeID      uuid.UUID             `gorm:"type:uuid;not null"`
	Status          string                `gorm:"type:varchar(30);not null;default:'draft'"`
	AdminNotes      *string               `gorm:"type:text"`
	RejectionReason *string               `gorm:"type:text"`
	Documents       []ApplicationDocument `gorm:"foreignKey:ApplicationID"`
	Country         *Country              `gorm:"foreignKey:CountryID"`
	VisaType        *VisaType             `gorm:"foreignKey:VisaTypeID"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

type ApplicationDocument struct {
	ID                 uuid.UUID         `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ApplicationID      uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_app_required_doc"`
	RequiredDocumentID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_app_required_doc"`
	FileURL            string            `gorm:"type:text;not null"`
	Status             string            `gorm:"type:varchar(20);not null;default:'pending'"`
	AdminNotes         *string           `gorm:"type:text"`
	RejectionReason    *string           `gorm:"type:text"`
	RequiredDocument   *RequiredDocument `gorm:"foreignKey:RequiredDocumentID"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
