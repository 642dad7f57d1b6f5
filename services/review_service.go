package services

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/anjiri1684/skill_swap/metrics"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewService struct {
	db      *gorm.DB
	metrics metrics.Recorder
}

func NewReviewService(db *gorm.DB, rec metrics.Recorder) *ReviewService {
	return &ReviewService{db: db, metrics: recorderOrNop(rec)}
}

type ReviewInput struct {
	SessionID string
	Rating    int
	Comment   *string
}

type ReviewPatch struct {
	Rating  *int
	Comment *string
}

type ReviewFilter struct {
	UserID    uuid.UUID
	Direction string
	Page      int
	PerPage   int
}

type ReviewPage struct {
	Items []models.Review
	Total int64
	Page  repository.Page
}

func errInvalidRating() error {
	return Validation("rating must be an integer between %d and %d", models.MinRating, models.MaxRating)
}

func validateRating(rating int) error {
	if rating < models.MinRating || rating > models.MaxRating {
		return errInvalidRating()
	}
	return nil
}

// RatingFromNumber converts a decoded JSON number into a rating. Fractional
// values are rejected rather than rounded.
func RatingFromNumber(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, errInvalidRating()
	}
	r := int(v)
	if err := validateRating(r); err != nil {
		return 0, err
	}
	return r, nil
}

// Create records the student's review of a completed session. The
// reviewee is always the session's teacher.
func (s *ReviewService) Create(ctx context.Context, reviewerID uuid.UUID, in ReviewInput) (*models.Review, error) {
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}
	sessionID, err := parseID(in.SessionID, "session_id")
	if err != nil {
		return nil, err
	}

	var review *models.Review
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := repository.SessionByID(tx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return NotFound("session not found")
		}
		if session.Status != models.SessionCompleted {
			return Validation("can only review completed sessions")
		}
		if session.StudentID != reviewerID {
			return Forbidden("only the student of a session can review it")
		}
		existing, err := repository.ReviewBySession(tx, sessionID)
		if err != nil {
			return err
		}
		if existing != nil {
			return Conflict("session already reviewed")
		}

		created := models.Review{
			Rating:     in.Rating,
			Comment:    optionalText(in.Comment),
			ReviewerID: reviewerID,
			RevieweeID: session.TeacherID,
			SessionID:  session.ID,
		}
		// The unique index on session_id settles races the pre-check misses.
		if err := tx.Omit(clause.Associations).Create(&created).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return Conflict("session already reviewed")
			}
			return err
		}

		review, err = repository.ReviewWithParties(tx, created.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ReviewCreated()
	return review, nil
}

func (s *ReviewService) Update(ctx context.Context, id, callerID uuid.UUID, patch ReviewPatch) (*models.Review, error) {
	if patch.Rating == nil && patch.Comment == nil {
		return nil, Validation("nothing to update")
	}

	var review *models.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := repository.ReviewByID(tx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return NotFound("review not found")
		}
		if current.ReviewerID != callerID {
			return Forbidden("only the reviewer can modify this review")
		}

		if patch.Rating != nil {
			if err := validateRating(*patch.Rating); err != nil {
				return err
			}
			current.Rating = *patch.Rating
		}
		if patch.Comment != nil {
			current.Comment = optionalText(patch.Comment)
		}

		if err := tx.Omit(clause.Associations).Save(current).Error; err != nil {
			return err
		}
		review, err = repository.ReviewWithParties(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		review, err := repository.ReviewByID(tx, id)
		if err != nil {
			return err
		}
		if review == nil {
			return NotFound("review not found")
		}
		if review.ReviewerID != callerID {
			return Forbidden("only the reviewer can delete this review")
		}
		return tx.Delete(&models.Review{}, "id = ?", id).Error
	})
}

// ListForUser returns every review the user gave or received, newest first.
func (s *ReviewService) ListForUser(ctx context.Context, userID uuid.UUID, direction string) ([]models.Review, error) {
	dir, err := parseDirection(direction)
	if err != nil {
		return nil, err
	}
	if dir == repository.ReviewsAll {
		return nil, Validation("direction must be given or received")
	}
	reviews, _, err := repository.ListReviews(s.db.WithContext(ctx), repository.ReviewQuery{UserID: userID, Direction: dir})
	return reviews, err
}

// List pages through reviews, optionally scoped to one user.
func (s *ReviewService) List(ctx context.Context, f ReviewFilter) (*ReviewPage, error) {
	dir, err := parseDirection(f.Direction)
	if err != nil {
		return nil, err
	}
	if dir != repository.ReviewsAll && f.UserID == uuid.Nil {
		return nil, Validation("direction requires user_id")
	}

	query := repository.ReviewQuery{
		UserID:    f.UserID,
		Direction: dir,
		Page:      repository.NewPage(f.Page, f.PerPage),
	}
	reviews, total, err := repository.ListReviews(s.db.WithContext(ctx), query)
	if err != nil {
		return nil, err
	}
	return &ReviewPage{Items: reviews, Total: total, Page: query.Page}, nil
}

// AverageRating returns the user's mean received rating rounded to one
// decimal and the number of reviews. Both are zero when there are none.
func (s *ReviewService) AverageRating(ctx context.Context, userID uuid.UUID) (float64, int64, error) {
	summary, err := repository.RatingSummaryFor(s.db.WithContext(ctx), userID)
	if err != nil {
		return 0, 0, err
	}
	return summary.Average, summary.Count, nil
}

func parseDirection(raw string) (repository.ReviewDirection, error) {
	switch repository.ReviewDirection(strings.ToLower(strings.TrimSpace(raw))) {
	case repository.ReviewsAll:
		return repository.ReviewsAll, nil
	case repository.ReviewsGiven:
		return repository.ReviewsGiven, nil
	case repository.ReviewsReceived:
		return repository.ReviewsReceived, nil
	}
	return "", Validation("direction must be given or received")
}
