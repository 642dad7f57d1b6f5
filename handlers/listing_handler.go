package handlers

import (
	"strconv"
	"strings"

	"github.com/anjiri1684/skill_swap/services"
	"github.com/gofiber/fiber/v2"
)

// PricePerHour is left as the decoded JSON value so numeric strings are
// accepted alongside numbers.
type CreateListingRequest struct {
	Title        string `json:"title" validate:"max=200"`
	Description  string `json:"description"`
	PricePerHour any    `json:"price_per_hour"`
	SkillID      string `json:"skill_id"`
}

type UpdateListingRequest struct {
	Title        *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Description  *string `json:"description,omitempty"`
	PricePerHour any     `json:"price_per_hour,omitempty"`
	SkillID      *string `json:"skill_id,omitempty"`
}

func (h *Handlers) ListListings(c *fiber.Ctx) error {
	minPrice, err := queryFloat(c, "min_price")
	if err != nil {
		return writeError(c, err)
	}
	maxPrice, err := queryFloat(c, "max_price")
	if err != nil {
		return writeError(c, err)
	}

	page, err := h.Listings.List(c.UserContext(), services.ListingFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		SortBy:   c.Query("sort_by"),
		Order:    c.Query("order"),
		Page:     c.QueryInt("page", 1),
		PerPage:  c.QueryInt("per_page", 0),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(pageMeta("listings", toListingResponses(page.Items), page.Page, page.Total))
}

func (h *Handlers) GetListing(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "listing")
	if err != nil {
		return writeError(c, err)
	}
	listing, err := h.Listings.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"listing": toListingResponse(*listing)})
}

func (h *Handlers) CreateListing(c *fiber.Ctx) error {
	ownerID, err := callerID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req CreateListingRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}

	listing, err := h.Listings.Create(c.UserContext(), ownerID, services.ListingInput{
		Title:        req.Title,
		Description:  req.Description,
		PricePerHour: req.PricePerHour,
		SkillID:      req.SkillID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Listing created successfully",
		"listing": toListingResponse(*listing),
	})
}

func (h *Handlers) UpdateListing(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id", "listing")
	if err != nil {
		return writeError(c, err)
	}
	var req UpdateListingRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}

	listing, err := h.Listings.Update(c.UserContext(), id, userID, services.ListingPatch{
		Title:        req.Title,
		Description:  req.Description,
		PricePerHour: req.PricePerHour,
		SkillID:      req.SkillID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Listing updated successfully",
		"listing": toListingResponse(*listing),
	})
}

func (h *Handlers) DeleteListing(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id", "listing")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Listings.Delete(c.UserContext(), id, userID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Listing deleted successfully"})
}

func (h *Handlers) MyListings(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return writeError(c, err)
	}
	listings, err := h.Listings.ListByOwner(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"listings": toListingResponses(listings)})
}

func (h *Handlers) UserListings(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "user")
	if err != nil {
		return writeError(c, err)
	}
	listings, err := h.Listings.ListByOwner(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"listings": toListingResponses(listings)})
}

func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, services.Validation("%s must be a number", key)
	}
	return &v, nil
}
