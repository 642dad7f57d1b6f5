package routes

import (
	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/gofiber/fiber/v2"
)

func ListingRoutes(h *handlers.Handlers) []Route {
	return []Route{
		{Method: fiber.MethodGet, Path: "/listings", Handler: h.ListListings},
		{Method: fiber.MethodPost, Path: "/listings", Protected: true, Handler: h.CreateListing},
		{Method: fiber.MethodGet, Path: "/listings/my-listings", Protected: true, Handler: h.MyListings},
		{Method: fiber.MethodGet, Path: "/listings/user/:id", Handler: h.UserListings},
		{Method: fiber.MethodGet, Path: "/listings/:id", Handler: h.GetListing},
		{Method: fiber.MethodPut, Path: "/listings/:id", Protected: true, Handler: h.UpdateListing},
		{Method: fiber.MethodDelete, Path: "/listings/:id", Protected: true, Handler: h.DeleteListing},
	}
}
