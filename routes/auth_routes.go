package routes

import (
	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(h *handlers.Handlers) []Route {
	return []Route{
		{Method: fiber.MethodPost, Path: "/auth/register", Throttled: true, Handler: h.Register},
		{Method: fiber.MethodPost, Path: "/auth/login", Throttled: true, Handler: h.Login},
		{Method: fiber.MethodGet, Path: "/auth/profile", Protected: true, Handler: h.GetProfile},
		{Method: fiber.MethodPut, Path: "/auth/profile", Protected: true, Handler: h.UpdateProfile},
		{Method: fiber.MethodPost, Path: "/auth/profile/skills", Protected: true, Handler: h.AddProfileSkill},
		{Method: fiber.MethodDelete, Path: "/auth/profile/skills/:skill_id", Protected: true, Handler: h.RemoveProfileSkill},
	}
}

func UserRoutes(h *handlers.Handlers) []Route {
	return []Route{
		{Method: fiber.MethodGet, Path: "/users/experts", Handler: h.ListExperts},
		{Method: fiber.MethodGet, Path: "/users/:id", Handler: h.GetUser},
	}
}
