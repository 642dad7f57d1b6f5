package handlers

import (
	"github.com/anjiri1684/skill_swap/services"
	"github.com/gofiber/fiber/v2"
)

type CreateSkillRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Category    string  `json:"category" validate:"required,max=50"`
	Description *string `json:"description,omitempty"`
}

func (h *Handlers) ListSkills(c *fiber.Ctx) error {
	skills, err := h.Catalog.ListSkills(c.UserContext(), c.Query("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"skills": toSkillResponses(skills)})
}

func (h *Handlers) GetSkill(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "skill")
	if err != nil {
		return writeError(c, err)
	}
	skill, err := h.Catalog.GetSkill(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"skill": toSkillResponse(*skill)})
}

func (h *Handlers) CreateSkill(c *fiber.Ctx) error {
	var req CreateSkillRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	skill, err := h.Catalog.CreateSkill(c.UserContext(), services.SkillInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Skill created successfully",
		"skill":   toSkillResponse(*skill),
	})
}

func (h *Handlers) SkillCategories(c *fiber.Ctx) error {
	categories, err := h.Catalog.Categories(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}
