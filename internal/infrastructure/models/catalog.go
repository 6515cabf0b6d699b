package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Country struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name        string     `gorm:"type:varchar(100);not null"`
	Description string     `gorm:"type:text"`
	Code        string     `gorm:"type:varchar(10);uniqueIndex;not null"`
	ImageURL    string     `gorm:"type:text"`
	Active      bool       `gorm:"not null;default:true"`
	VisaTypes   []VisaType `gorm:"many2many:country_visa_types"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

type VisaType struct {
	ID                uuid.UUID          `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name              string             `gorm:"type:varchar(100);not null"`
	Headings          string             `gorm:"type:text"`
	Description       string             `gorm:"type:text"`
	Price             string             `gorm:"type:varchar(50)"`
	ProcessingTime    string             `gorm:"type:varchar(100)"`
	ImageURL          string             `gorm:"type:text"`
	Active            bool               `gorm:"not null;default:true"`
	Processes         []VisaProcess      `gorm:"many2many:visa_type_processes"`
	Overviews         []VisaOverview     `gorm:"many2many:visa_type_overviews"`
	Notes             []Note             `gorm:"many2many:visa_type_notes"`
	RequiredDocuments []RequiredDocument `gorm:"many2many:visa_type_required_documents"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

type VisaProcess struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Points string    `gorm:"type:text;not null"`
}

type VisaOverview struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Points   string    `gorm:"type:text;not null"`
	Overview string    `gorm:"type:text"`
}

type Note struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Notes string    `gorm:"type:text;not null"`
}

type RequiredDocument struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	DocumentName string    `gorm:"type:varchar(100);not null"`
}
