package routes

import (
	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/gofiber/fiber/v2"
)

func SkillRoutes(h *handlers.Handlers) []Route {
	return []Route{
		{Method: fiber.MethodGet, Path: "/skills", Handler: h.ListSkills},
		{Method: fiber.MethodPost, Path: "/skills", Protected: true, Handler: h.CreateSkill},
		{Method: fiber.MethodGet, Path: "/skills/categories", Handler: h.SkillCategories},
		{Method: fiber.MethodGet, Path: "/skills/:id", Handler: h.GetSkill},
	}
}
