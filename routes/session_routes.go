package routes

import (
	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/gofiber/fiber/v2"
)

func SessionRoutes(h *handlers.Handlers) []Route {
	return []Route{
		{Method: fiber.MethodPost, Path: "/sessions", Protected: true, Handler: h.CreateSession},
		{Method: fiber.MethodGet, Path: "/sessions", Protected: true, Handler: h.ListSessions},
		{Method: fiber.MethodGet, Path: "/sessions/:id", Protected: true, Handler: h.GetSession},
		{Method: fiber.MethodPut, Path: "/sessions/:id", Protected: true, Handler: h.UpdateSession},
		{Method: fiber.MethodDelete, Path: "/sessions/:id", Protected: true, Handler: h.DeleteSession},
	}
}

func ReviewRoutes(h *handlers.Handlers) []Route {
	return []Route{
		{Method: fiber.MethodPost, Path: "/reviews", Protected: true, Handler: h.CreateReview},
		{Method: fiber.MethodGet, Path: "/reviews", Handler: h.ListReviews},
		{Method: fiber.MethodPut, Path: "/reviews/:id", Protected: true, Handler: h.UpdateReview},
		{Method: fiber.MethodDelete, Path: "/reviews/:id", Protected: true, Handler: h.DeleteReview},
	}
}
