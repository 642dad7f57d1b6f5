package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Rating     int       `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment    *string   `gorm:"type:text"`
	ReviewerID uuid.UUID `gorm:"type:uuid;not null;index"`
	RevieweeID uuid.UUID `gorm:"type:uuid;not null;index"`
	SessionID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	Reviewer User    `gorm:"foreignKey:ReviewerID"`
	Reviewee User    `gorm:"foreignKey:RevieweeID"`
	Session  Session `gorm:"foreignKey:SessionID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}
