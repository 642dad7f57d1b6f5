package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionConfirmed SessionStatus = "confirmed"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// Valid reports whether s is one of the four known statuses.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionPending, SessionConfirmed, SessionCompleted, SessionCancelled:
		return true
	}
	return false
}

const (
	MinSessionMinutes = 30
	MaxSessionMinutes = 480
)

// Session is a booking of a listing. TeacherID is copied from the
// listing's owner when the session is created.
type Session struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey"`
	TeacherID       uuid.UUID     `gorm:"type:uuid;not null;index;check:teacher_id <> student_id"`
	StudentID       uuid.UUID     `gorm:"type:uuid;not null;index"`
	ListingID       uuid.UUID     `gorm:"type:uuid;not null;index"`
	ScheduledAt     time.Time     `gorm:"not null;index"`
	DurationMinutes int           `gorm:"not null;check:duration_minutes >= 30 AND duration_minutes <= 480"`
	Status          SessionStatus `gorm:"size:20;not null;default:'pending';index"`
	Notes           *string       `gorm:"type:text"`

	Teacher User    `gorm:"foreignKey:TeacherID"`
	Student User    `gorm:"foreignKey:StudentID"`
	Listing Listing `gorm:"foreignKey:ListingID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}
