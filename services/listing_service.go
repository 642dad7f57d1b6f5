package services

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/anjiri1684/skill_swap/metrics"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListingService struct {
	db      *gorm.DB
	metrics metrics.Recorder
}

func NewListingService(db *gorm.DB, rec metrics.Recorder) *ListingService {
	return &ListingService{db: db, metrics: recorderOrNop(rec)}
}

// ListingInput is a new listing as submitted by its owner. PricePerHour is
// the decoded JSON value: a number or a numeric string.
type ListingInput struct {
	Title        string
	Description  string
	PricePerHour any
	SkillID      string
}

// ListingPatch holds the fields to change; nil means unchanged.
type ListingPatch struct {
	Title        *string
	Description  *string
	PricePerHour any
	SkillID      *string
}

// ListingDetail is a listing with owner and skill loaded and the owner's
// current rating.
type ListingDetail struct {
	models.Listing
	OwnerRating repository.RatingSummary
}

type ListingFilter struct {
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	SortBy   string
	Order    string
	Page     int
	PerPage  int
}

type ListingPage struct {
	Items []ListingDetail
	Total int64
	Page  repository.Page
}

const maxTitleLength = 200

// ParsePrice validates an hourly price. It accepts a JSON number or a
// numeric string and rounds to cents.
func ParsePrice(v any) (float64, error) {
	var price float64
	switch p := v.(type) {
	case float64:
		price = p
	case float32:
		price = float64(p)
	case int:
		price = float64(p)
	case json.Number:
		f, err := p.Float64()
		if err != nil {
			return 0, errInvalidPrice()
		}
		price = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, errInvalidPrice()
		}
		price = f
	default:
		return 0, errInvalidPrice()
	}

	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, errInvalidPrice()
	}
	// Bounds apply to the submitted value; rounding must not pull 999.004 back in range.
	if price <= 0 || price > models.MaxPricePerHour {
		return 0, errInvalidPrice()
	}
	price = math.Round(price*100) / 100
	if price <= 0 {
		return 0, errInvalidPrice()
	}
	return price, nil
}

func errInvalidPrice() error {
	return Validation("price_per_hour must be a number greater than 0 and at most 999")
}

func missingPrice(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// Create validates in order: required fields, price, skill, owner.
func (s *ListingService) Create(ctx context.Context, ownerID uuid.UUID, in ListingInput) (*ListingDetail, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	skillRaw := strings.TrimSpace(in.SkillID)

	var missing []string
	if title == "" {
		missing = append(missing, "title")
	}
	if description == "" {
		missing = append(missing, "description")
	}
	if missingPrice(in.PricePerHour) {
		missing = append(missing, "price_per_hour")
	}
	if skillRaw == "" {
		missing = append(missing, "skill_id")
	}
	if len(missing) > 0 {
		return nil, Validation("missing required fields: %s", strings.Join(missing, ", "))
	}
	if len(title) > maxTitleLength {
		return nil, Validation("title must be at most %d characters", maxTitleLength)
	}

	price, err := ParsePrice(in.PricePerHour)
	if err != nil {
		return nil, err
	}
	skillID, err := parseID(skillRaw, "skill_id")
	if err != nil {
		return nil, err
	}

	var detail *ListingDetail
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		skill, err := repository.SkillByID(tx, skillID)
		if err != nil {
			return err
		}
		if skill == nil {
			return NotFound("skill not found")
		}
		owner, err := repository.UserByID(tx, ownerID)
		if err != nil {
			return err
		}
		if owner == nil {
			return NotFound("user not found")
		}

		listing := models.Listing{
			Title:        title,
			Description:  description,
			PricePerHour: price,
			OwnerID:      owner.ID,
			SkillID:      skill.ID,
		}
		if err := tx.Omit(clause.Associations).Create(&listing).Error; err != nil {
			return err
		}

		detail, err = loadListingDetail(tx, listing.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ListingCreated()
	return detail, nil
}

func (s *ListingService) Get(ctx context.Context, id uuid.UUID) (*ListingDetail, error) {
	return loadListingDetail(s.db.WithContext(ctx), id)
}

// List searches listings. Ordering defaults to newest first.
func (s *ListingService) List(ctx context.Context, f ListingFilter) (*ListingPage, error) {
	query := repository.ListingQuery{
		Category: strings.TrimSpace(f.Category),
		Search:   f.Search,
		MinPrice: f.MinPrice,
		MaxPrice: f.MaxPrice,
		Page:     repository.NewPage(f.Page, f.PerPage),
	}

	switch strings.ToLower(strings.TrimSpace(f.SortBy)) {
	case "", "created_at", "createdat":
		query.SortBy = repository.SortCreatedAt
	case "price", "price_per_hour":
		query.SortBy = repository.SortPrice
	default:
		return nil, Validation("sort_by must be one of created_at, price")
	}
	switch strings.ToLower(strings.TrimSpace(f.Order)) {
	case "", "desc":
	case "asc":
		query.Ascending = true
	default:
		return nil, Validation("order must be asc or desc")
	}
	if f.MinPrice != nil && *f.MinPrice < 0 {
		return nil, Validation("min_price must not be negative")
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, Validation("min_price must not exceed max_price")
	}

	db := s.db.WithContext(ctx)
	listings, total, err := repository.SearchListings(db, query)
	if err != nil {
		return nil, err
	}
	items, err := withOwnerRatings(db, listings)
	if err != nil {
		return nil, err
	}
	return &ListingPage{Items: items, Total: total, Page: query.Page}, nil
}

// Update applies patch after checking that callerID owns the listing.
func (s *ListingService) Update(ctx context.Context, id, callerID uuid.UUID, patch ListingPatch) (*ListingDetail, error) {
	var detail *ListingDetail
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		listing, err := repository.ListingByID(tx, id)
		if err != nil {
			return err
		}
		if listing == nil {
			return NotFound("listing not found")
		}
		if listing.OwnerID != callerID {
			return Forbidden("only the owner can modify this listing")
		}

		if patch.Title != nil {
			title := strings.TrimSpace(*patch.Title)
			if title == "" {
				return Validation("title must not be empty")
			}
			if len(title) > maxTitleLength {
				return Validation("title must be at most %d characters", maxTitleLength)
			}
			listing.Title = title
		}
		if patch.Description != nil {
			description := strings.TrimSpace(*patch.Description)
			if description == "" {
				return Validation("description must not be empty")
			}
			listing.Description = description
		}
		if patch.PricePerHour != nil {
			price, err := ParsePrice(patch.PricePerHour)
			if err != nil {
				return err
			}
			listing.PricePerHour = price
		}
		if patch.SkillID != nil {
			skillID, err := parseID(*patch.SkillID, "skill_id")
			if err != nil {
				return err
			}
			skill, err := repository.SkillByID(tx, skillID)
			if err != nil {
				return err
			}
			if skill == nil {
				return NotFound("skill not found")
			}
			listing.SkillID = skill.ID
		}

		if err := tx.Omit(clause.Associations).Save(listing).Error; err != nil {
			return err
		}
		detail, err = loadListingDetail(tx, listing.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Delete removes a listing owned by callerID. Listings that have been
// booked are kept so session history stays intact.
func (s *ListingService) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		listing, err := repository.ListingByID(tx, id)
		if err != nil {
			return err
		}
		if listing == nil {
			return NotFound("listing not found")
		}
		if listing.OwnerID != callerID {
			return Forbidden("only the owner can delete this listing")
		}

		booked, err := repository.CountSessionsForListing(tx, id)
		if err != nil {
			return err
		}
		if booked > 0 {
			return Conflict("listing has booked sessions")
		}
		return tx.Delete(&models.Listing{}, "id = ?", id).Error
	})
}

func (s *ListingService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]ListingDetail, error) {
	db := s.db.WithContext(ctx)
	owner, err := repository.UserByID(db, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, NotFound("user not found")
	}

	listings, err := repository.ListingsByOwner(db, ownerID)
	if err != nil {
		return nil, err
	}
	return withOwnerRatings(db, listings)
}

func loadListingDetail(db *gorm.DB, id uuid.UUID) (*ListingDetail, error) {
	listing, err := repository.ListingWithOwnerAndSkill(db, id)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, NotFound("listing not found")
	}
	rating, err := repository.RatingSummaryFor(db, listing.OwnerID)
	if err != nil {
		return nil, err
	}
	return &ListingDetail{Listing: *listing, OwnerRating: rating}, nil
}

// withOwnerRatings attaches owner ratings using one grouped query for the
// whole slice.
func withOwnerRatings(db *gorm.DB, listings []models.Listing) ([]ListingDetail, error) {
	ownerIDs := make([]uuid.UUID, 0, len(listings))
	seen := make(map[uuid.UUID]bool, len(listings))
	for _, l := range listings {
		if !seen[l.OwnerID] {
			seen[l.OwnerID] = true
			ownerIDs = append(ownerIDs, l.OwnerID)
		}
	}

	ratings, err := repository.RatingSummaries(db, ownerIDs)
	if err != nil {
		return nil, err
	}

	out := make([]ListingDetail, len(listings))
	for i, l := range listings {
		out[i] = ListingDetail{Listing: l, OwnerRating: ratings[l.OwnerID]}
	}
	return out, nil
}
