package routes

import (
	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/gofiber/fiber/v2"
)

// Route maps one method and path pattern to a handler. Protected routes
// run behind the token middleware; Throttled routes behind the per-client
// rate limiter.
type Route struct {
	Method    string
	Path      string
	Protected bool
	Throttled bool
	Handler   fiber.Handler
}

// Guards are the middleware Register may place in front of a route. A nil
// Throttle disables rate limiting.
type Guards struct {
	Protect  fiber.Handler
	Throttle fiber.Handler
}

// Table lists every API route. Literal segments such as /my-listings
// precede the /:id patterns they would otherwise collide with.
func Table(h *handlers.Handlers) []Route {
	var routes []Route
	routes = append(routes, AuthRoutes(h)...)
	routes = append(routes, SkillRoutes(h)...)
	routes = append(routes, ListingRoutes(h)...)
	routes = append(routes, SessionRoutes(h)...)
	routes = append(routes, ReviewRoutes(h)...)
	routes = append(routes, UserRoutes(h)...)
	return routes
}

// Register mounts routes on router with the guards each one asks for.
func Register(router fiber.Router, routes []Route, guards Guards) {
	for _, r := range routes {
		var chain []fiber.Handler
		if r.Throttled && guards.Throttle != nil {
			chain = append(chain, guards.Throttle)
		}
		if r.Protected {
			chain = append(chain, guards.Protect)
		}
		chain = append(chain, r.Handler)
		router.Add(r.Method, r.Path, chain...)
	}
}
