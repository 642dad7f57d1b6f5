package repository

import (
	"math"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func ReviewByID(db *gorm.DB, id uuid.UUID) (*models.Review, error) {
	return first[models.Review](db.Where("id = ?", id))
}

func ReviewBySession(db *gorm.DB, sessionID uuid.UUID) (*models.Review, error) {
	return first[models.Review](db.Where("session_id = ?", sessionID))
}

// ReviewWithParties loads a review with reviewer and reviewee preloaded.
func ReviewWithParties(db *gorm.DB, id uuid.UUID) (*models.Review, error) {
	return first[models.Review](db.Preload("Reviewer").Preload("Reviewee").Where("reviews.id = ?", id))
}

type ReviewDirection string

const (
	ReviewsAll      ReviewDirection = ""
	ReviewsGiven    ReviewDirection = "given"
	ReviewsReceived ReviewDirection = "received"
)

type ReviewQuery struct {
	// UserID is ignored when Direction is ReviewsAll and UserID is nil.
	UserID    uuid.UUID
	Direction ReviewDirection
	Page      Page
}

// ListReviews returns reviews newest first with reviewer and reviewee
// preloaded. With a user and no direction, both given and received
// reviews are returned.
func ListReviews(db *gorm.DB, query ReviewQuery) ([]models.Review, int64, error) {
	q := db.Model(&models.Review{})
	if query.UserID != uuid.Nil {
		switch query.Direction {
		case ReviewsGiven:
			q = q.Where("reviewer_id = ?", query.UserID)
		case ReviewsReceived:
			q = q.Where("reviewee_id = ?", query.UserID)
		default:
			q = q.Where("reviewer_id = ? OR reviewee_id = ?", query.UserID, query.UserID)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := query.Page.apply(q).
		Preload("Reviewer").
		Preload("Reviewee").
		Order("created_at DESC").
		Order("id ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// RatingSummary is the derived rating of one reviewee.
type RatingSummary struct {
	Average float64 `json:"average_rating"`
	Count   int64   `json:"review_count"`
}

type ratingRow struct {
	RevieweeID uuid.UUID
	Average    float64
	Total      int64
}

// RatingSummaries computes rating aggregates for many users with one
// grouped query. Users without reviews map to the zero summary.
func RatingSummaries(db *gorm.DB, userIDs []uuid.UUID) (map[uuid.UUID]RatingSummary, error) {
	out := make(map[uuid.UUID]RatingSummary, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var rows []ratingRow
	err := db.Model(&models.Review{}).
		Select("reviewee_id, AVG(rating) AS average, COUNT(*) AS total").
		Where("reviewee_id IN ?", userIDs).
		Group("reviewee_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, id := range userIDs {
		out[id] = RatingSummary{}
	}
	for _, r := range rows {
		out[r.RevieweeID] = RatingSummary{Average: roundOne(r.Average), Count: r.Total}
	}
	return out, nil
}

func RatingSummaryFor(db *gorm.DB, userID uuid.UUID) (RatingSummary, error) {
	m, err := RatingSummaries(db, []uuid.UUID{userID})
	if err != nil {
		return RatingSummary{}, err
	}
	return m[userID], nil
}

func roundOne(v float64) float64 {
	return math.Round(v*10) / 10
}
