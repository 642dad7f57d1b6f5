package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Skill struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:100;not null;uniqueIndex"`
	Category    string    `gorm:"size:50;not null;index"`
	Description *string   `gorm:"type:text"`

	CreatedAt time.Time
}

func (s *Skill) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}
