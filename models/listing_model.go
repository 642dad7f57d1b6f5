package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxPricePerHour is the inclusive upper bound for a listing's hourly price.
const MaxPricePerHour = 999.0

type Listing struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title        string    `gorm:"size:200;not null"`
	Description  string    `gorm:"type:text;not null"`
	PricePerHour float64   `gorm:"type:numeric(10,2);not null;check:price_per_hour > 0 AND price_per_hour <= 999"`
	OwnerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	SkillID      uuid.UUID `gorm:"type:uuid;not null;index"`

	Owner User  `gorm:"foreignKey:OwnerID"`
	Skill Skill `gorm:"foreignKey:SkillID"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	assignID(&l.ID)
	return nil
}
