package repository

import (
	"strings"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListingWithOwnerAndSkill loads one listing with its owner and skill
// preloaded (two extra primary-key queries).
func ListingWithOwnerAndSkill(db *gorm.DB, id uuid.UUID) (*models.Listing, error) {
	return first[models.Listing](db.Preload("Owner").Preload("Skill").Where("listings.id = ?", id))
}

// ListingByID loads the listing row alone.
func ListingByID(db *gorm.DB, id uuid.UUID) (*models.Listing, error) {
	return first[models.Listing](db.Where("id = ?", id))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes s match literally inside a LIKE pattern using '\' as the escape.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type ListingSort string

const (
	SortCreatedAt ListingSort = "created_at"
	SortPrice     ListingSort = "price"
)

// ListingQuery filters the public listing search. Zero values disable a filter.
type ListingQuery struct {
	Category  string
	Search    string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    ListingSort
	Ascending bool
	Page      Page
}

// SearchListings joins skills for filtering and preloads Owner and Skill on
// the returned page. The total counts every match, not just the page.
func SearchListings(db *gorm.DB, query ListingQuery) ([]models.Listing, int64, error) {
	q := db.Model(&models.Listing{}).Joins("JOIN skills ON skills.id = listings.skill_id")

	if query.Category != "" {
		q = q.Where("skills.category = ?", query.Category)
	}
	if s := strings.TrimSpace(query.Search); s != "" {
		like := "%" + escapeLike(strings.ToLower(s)) + "%"
		q = q.Where(
			`LOWER(listings.title) LIKE ? ESCAPE '\' OR LOWER(listings.description) LIKE ? ESCAPE '\' OR LOWER(skills.name) LIKE ? ESCAPE '\'`,
			like, like, like,
		)
	}
	if query.MinPrice != nil {
		q = q.Where("listings.price_per_hour >= ?", *query.MinPrice)
	}
	if query.MaxPrice != nil {
		q = q.Where("listings.price_per_hour <= ?", *query.MaxPrice)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column := "listings.created_at"
	if query.SortBy == SortPrice {
		column = "listings.price_per_hour"
	}
	direction := " DESC"
	if query.Ascending {
		direction = " ASC"
	}

	var listings []models.Listing
	err := query.Page.apply(q).
		Preload("Owner").
		Preload("Skill").
		Order(column + direction).
		Order("listings.id ASC").
		Find(&listings).Error
	if err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

// ListingsByOwner returns every listing of one owner, newest first, with
// Owner and Skill preloaded.
func ListingsByOwner(db *gorm.DB, ownerID uuid.UUID) ([]models.Listing, error) {
	var listings []models.Listing
	err := db.Preload("Owner").Preload("Skill").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

type listingCountRow struct {
	OwnerID uuid.UUID
	Total   int64
}

// ListingCounts counts listings per owner with one grouped query. Owners
// without listings map to zero.
func ListingCounts(db *gorm.DB, ownerIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}

	var rows []listingCountRow
	err := db.Model(&models.Listing{}).
		Select("owner_id, COUNT(*) AS total").
		Where("owner_id IN ?", ownerIDs).
		Group("owner_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ownerIDs {
		out[id] = 0
	}
	for _, r := range rows {
		out[r.OwnerID] = r.Total
	}
	return out, nil
}

func CountSessionsForListing(db *gorm.DB, listingID uuid.UUID) (int64, error) {
	var n int64
	err := db.Model(&models.Session{}).Where("listing_id = ?", listingID).Count(&n).Error
	return n, err
}
