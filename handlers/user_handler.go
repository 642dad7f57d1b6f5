package handlers

import (
	"github.com/anjiri1684/skill_swap/services"
	"github.com/gofiber/fiber/v2"
)

type AddSkillRequest struct {
	SkillID          string `json:"skill_id" validate:"required"`
	ProficiencyLevel string `json:"proficiency_level" validate:"required"`
	YearsExperience  int    `json:"years_experience" validate:"gte=0"`
}

// GetUser returns a public profile: no email, plus the user's rating,
// skills and listings.
func (h *Handlers) GetUser(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "user")
	if err != nil {
		return writeError(c, err)
	}
	ctx := c.UserContext()

	user, err := h.Identity.GetProfile(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	avg, count, err := h.Reviews.AverageRating(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	skills, err := h.Identity.Skills(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	listings, err := h.Listings.ListByOwner(ctx, id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(ProfileResponse{
		User:          toPublicUserResponse(user),
		AverageRating: avg,
		ReviewCount:   count,
		Skills:        toUserSkillResponses(skills),
		Listings:      toListingResponses(listings),
	})
}

func (h *Handlers) ListExperts(c *fiber.Ctx) error {
	page, err := h.Identity.Experts(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("per_page", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(pageMeta("experts", toExpertResponses(page.Items), page.Page, page.Total))
}

func (h *Handlers) AddProfileSkill(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req AddSkillRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}

	us, err := h.Identity.AddSkill(c.UserContext(), userID, services.UserSkillInput{
		SkillID:          req.SkillID,
		ProficiencyLevel: req.ProficiencyLevel,
		YearsExperience:  req.YearsExperience,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"skill": toUserSkillResponse(*us)})
}

func (h *Handlers) RemoveProfileSkill(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return writeError(c, err)
	}
	skillID, err := pathID(c, "skill_id", "skill")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Identity.RemoveSkill(c.UserContext(), userID, skillID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Skill removed from profile"})
}
