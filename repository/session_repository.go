package repository

import (
	"time"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionByID loads the session row alone.
func SessionByID(db *gorm.DB, id uuid.UUID) (*models.Session, error) {
	return first[models.Session](db.Where("id = ?", id))
}

// SessionWithParties loads a session with teacher, student and listing
// (including the listing's skill) preloaded.
func SessionWithParties(db *gorm.DB, id uuid.UUID) (*models.Session, error) {
	return first[models.Session](
		db.Preload("Teacher").
			Preload("Student").
			Preload("Listing.Skill").
			Where("sessions.id = ?", id),
	)
}

type SessionRole string

const (
	RoleEither  SessionRole = ""
	RoleTeacher SessionRole = "teacher"
	RoleStudent SessionRole = "student"
)

type SessionQuery struct {
	UserID uuid.UUID
	Role   SessionRole
	Status models.SessionStatus
	Page   Page
}

// SessionsForUser lists sessions where the user is a party, most recently
// scheduled first, with parties and listing preloaded.
func SessionsForUser(db *gorm.DB, query SessionQuery) ([]models.Session, int64, error) {
	q := db.Model(&models.Session{})
	switch query.Role {
	case RoleTeacher:
		q = q.Where("teacher_id = ?", query.UserID)
	case RoleStudent:
		q = q.Where("student_id = ?", query.UserID)
	default:
		q = q.Where("teacher_id = ? OR student_id = ?", query.UserID, query.UserID)
	}
	if query.Status != "" {
		q = q.Where("status = ?", query.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []models.Session
	err := query.Page.apply(q).
		Preload("Teacher").
		Preload("Student").
		Preload("Listing.Skill").
		Order("scheduled_at DESC").
		Order("id ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// StalePendingSessions returns pending sessions scheduled at or before cutoff.
func StalePendingSessions(db *gorm.DB, cutoff time.Time) ([]models.Session, error) {
	var sessions []models.Session
	err := db.Where("status = ? AND scheduled_at <= ?", models.SessionPending, cutoff).
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}
