package services

import (
	"context"
	"strings"
	"time"

	"github.com/anjiri1684/skill_swap/metrics"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingService struct {
	db      *gorm.DB
	metrics metrics.Recorder
	now     func() time.Time
}

func NewBookingService(db *gorm.DB, rec metrics.Recorder) *BookingService {
	return &BookingService{db: db, metrics: recorderOrNop(rec), now: time.Now}
}

// WithClock replaces the time source used for scheduling checks.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

type BookingInput struct {
	ListingID       string
	ScheduledAt     time.Time
	DurationMinutes int
	Notes           *string
}

// SessionPatch is a combined update of one session. The schedule change is
// applied before the status change.
type SessionPatch struct {
	ScheduledAt     *time.Time
	DurationMinutes *int
	Notes           *string
	Status          *string
}

type SessionFilter struct {
	UserID  uuid.UUID
	Role    string
	Status  string
	Page    int
	PerPage int
}

type SessionPage struct {
	Items []models.Session
	Total int64
	Page  repository.Page
}

func validateSchedule(now, at time.Time, minutes int) error {
	if !at.After(now) {
		return Validation("scheduled time must be in the future")
	}
	return validateDuration(minutes)
}

func validateDuration(minutes int) error {
	if minutes < models.MinSessionMinutes || minutes > models.MaxSessionMinutes {
		return Validation("duration must be between %d and %d minutes", models.MinSessionMinutes, models.MaxSessionMinutes)
	}
	return nil
}

// Create books a session on a listing for studentID. The listing's owner
// becomes the teacher and the session starts pending.
func (s *BookingService) Create(ctx context.Context, studentID uuid.UUID, in BookingInput) (*models.Session, error) {
	listingID, err := parseID(in.ListingID, "listing_id")
	if err != nil {
		return nil, err
	}

	var session *models.Session
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		listing, err := repository.ListingByID(tx, listingID)
		if err != nil {
			return err
		}
		if listing == nil {
			return NotFound("listing not found")
		}
		if listing.OwnerID == studentID {
			return Validation("cannot book own listing")
		}
		if err := validateSchedule(s.now(), in.ScheduledAt, in.DurationMinutes); err != nil {
			return err
		}
		student, err := repository.UserByID(tx, studentID)
		if err != nil {
			return err
		}
		if student == nil {
			return NotFound("user not found")
		}

		created := models.Session{
			TeacherID:       listing.OwnerID,
			StudentID:       student.ID,
			ListingID:       listing.ID,
			ScheduledAt:     in.ScheduledAt.UTC(),
			DurationMinutes: in.DurationMinutes,
			Status:          models.SessionPending,
			Notes:           optionalText(in.Notes),
		}
		if err := tx.Omit(clause.Associations).Create(&created).Error; err != nil {
			return err
		}

		session, err = repository.SessionWithParties(tx, created.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.SessionBooked()
	return session, nil
}

// Get returns a session to one of its two parties.
func (s *BookingService) Get(ctx context.Context, id, callerID uuid.UUID) (*models.Session, error) {
	session, err := repository.SessionWithParties(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, NotFound("session not found")
	}
	if !isParty(session, callerID) {
		return nil, Forbidden("not a party to this session")
	}
	return session, nil
}

func (s *BookingService) UpdateStatus(ctx context.Context, id, callerID uuid.UUID, status string) (*models.Session, error) {
	return s.Update(ctx, id, callerID, SessionPatch{Status: &status})
}

func (s *BookingService) Reschedule(ctx context.Context, id, callerID uuid.UUID, at *time.Time, minutes *int) (*models.Session, error) {
	if at == nil && minutes == nil {
		return nil, Validation("scheduled_at or duration_minutes is required")
	}
	return s.Update(ctx, id, callerID, SessionPatch{ScheduledAt: at, DurationMinutes: minutes})
}

// Update applies patch in one transaction. Nothing is written unless every
// part of the patch is allowed.
func (s *BookingService) Update(ctx context.Context, id, callerID uuid.UUID, patch SessionPatch) (*models.Session, error) {
	if patch.ScheduledAt == nil && patch.DurationMinutes == nil && patch.Notes == nil && patch.Status == nil {
		return nil, Validation("nothing to update")
	}

	var (
		session    *models.Session
		transition models.SessionStatus
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := repository.SessionByID(tx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return NotFound("session not found")
		}
		if !isParty(current, callerID) {
			return Forbidden("not a party to this session")
		}

		if patch.ScheduledAt != nil || patch.DurationMinutes != nil {
			if current.Status != models.SessionPending {
				return Validation("can only reschedule pending sessions")
			}
			at := current.ScheduledAt
			if patch.ScheduledAt != nil {
				at = *patch.ScheduledAt
			}
			minutes := current.DurationMinutes
			if patch.DurationMinutes != nil {
				minutes = *patch.DurationMinutes
			}
			if err := validateSchedule(s.now(), at, minutes); err != nil {
				return err
			}
			current.ScheduledAt = at.UTC()
			current.DurationMinutes = minutes
		}

		if patch.Notes != nil {
			current.Notes = optionalText(patch.Notes)
		}

		if patch.Status != nil {
			to := models.SessionStatus(strings.ToLower(strings.TrimSpace(*patch.Status)))
			if err := checkTransition(current, callerID, to); err != nil {
				return err
			}
			current.Status = to
			transition = to
		}

		if err := tx.Omit(clause.Associations).Save(current).Error; err != nil {
			return err
		}
		session, err = repository.SessionWithParties(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	if transition != "" {
		s.metrics.SessionTransitioned(string(transition))
	}
	return session, nil
}

// Delete removes a pending session on behalf of one of its parties.
func (s *BookingService) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := repository.SessionByID(tx, id)
		if err != nil {
			return err
		}
		if session == nil {
			return NotFound("session not found")
		}
		if !isParty(session, callerID) {
			return Forbidden("not a party to this session")
		}
		if session.Status != models.SessionPending {
			return Validation("can only delete pending sessions")
		}
		return tx.Delete(&models.Session{}, "id = ?", id).Error
	})
}

// ListForUser returns sessions involving the user, latest scheduled first.
// Role is teacher, student or empty (either).
func (s *BookingService) ListForUser(ctx context.Context, f SessionFilter) (*SessionPage, error) {
	query := repository.SessionQuery{
		UserID: f.UserID,
		Page:   repository.NewPage(f.Page, f.PerPage),
	}

	switch repository.SessionRole(strings.ToLower(strings.TrimSpace(f.Role))) {
	case "", "either", "all":
		query.Role = repository.RoleEither
	case repository.RoleTeacher:
		query.Role = repository.RoleTeacher
	case repository.RoleStudent:
		query.Role = repository.RoleStudent
	default:
		return nil, Validation("role must be teacher, student or either")
	}

	if status := strings.ToLower(strings.TrimSpace(f.Status)); status != "" {
		query.Status = models.SessionStatus(status)
		if !query.Status.Valid() {
			return nil, Validation("invalid status %q", status)
		}
	}

	sessions, total, err := repository.SessionsForUser(s.db.WithContext(ctx), query)
	if err != nil {
		return nil, err
	}
	return &SessionPage{Items: sessions, Total: total, Page: query.Page}, nil
}

// ExpireStalePending cancels pending sessions whose start time has passed
// without the teacher confirming. It returns how many were cancelled.
func (s *BookingService) ExpireStalePending(ctx context.Context) (int, error) {
	var expired int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stale, err := repository.StalePendingSessions(tx, s.now().UTC())
		if err != nil {
			return err
		}
		if len(stale) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, len(stale))
		for i, session := range stale {
			ids[i] = session.ID
		}
		res := tx.Model(&models.Session{}).
			Where("id IN ? AND status = ?", ids, models.SessionPending).
			Update("status", models.SessionCancelled)
		if res.Error != nil {
			return res.Error
		}
		expired = int(res.RowsAffected)
		return nil
	})
	if err != nil {
		return 0, err
	}

	for i := 0; i < expired; i++ {
		s.metrics.SessionTransitioned(string(models.SessionCancelled))
	}
	return expired, nil
}
