package handlers

import (
	"github.com/anjiri1684/skill_swap/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Rating is decoded as a float so that 4.5 is reported as an invalid
// rating rather than unparseable JSON.
type CreateReviewRequest struct {
	SessionID string   `json:"session_id" validate:"required"`
	Rating    *float64 `json:"rating" validate:"required"`
	Comment   *string  `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

type UpdateReviewRequest struct {
	Rating  *float64 `json:"rating,omitempty"`
	Comment *string  `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

func (h *Handlers) CreateReview(c *fiber.Ctx) error {
	reviewerID, err := callerID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req CreateReviewRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	rating, err := services.RatingFromNumber(*req.Rating)
	if err != nil {
		return writeError(c, err)
	}

	review, err := h.Reviews.Create(c.UserContext(), reviewerID, services.ReviewInput{
		SessionID: req.SessionID,
		Rating:    rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Review created successfully",
		"review":  toReviewResponse(review),
	})
}

func (h *Handlers) ListReviews(c *fiber.Ctx) error {
	filter := services.ReviewFilter{
		Direction: c.Query("direction"),
		Page:      c.QueryInt("page", 1),
		PerPage:   c.QueryInt("per_page", 0),
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return writeError(c, services.Validation("invalid user_id"))
		}
		filter.UserID = id
	}

	page, err := h.Reviews.List(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(pageMeta("reviews", toReviewResponses(page.Items), page.Page, page.Total))
}

func (h *Handlers) UpdateReview(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id", "review")
	if err != nil {
		return writeError(c, err)
	}
	var req UpdateReviewRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}

	patch := services.ReviewPatch{Comment: req.Comment}
	if req.Rating != nil {
		rating, err := services.RatingFromNumber(*req.Rating)
		if err != nil {
			return writeError(c, err)
		}
		patch.Rating = &rating
	}

	review, err := h.Reviews.Update(c.UserContext(), id, userID, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Review updated successfully",
		"review":  toReviewResponse(review),
	})
}

func (h *Handlers) DeleteReview(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id", "review")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Reviews.Delete(c.UserContext(), id, userID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Review deleted successfully"})
}
