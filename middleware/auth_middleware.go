package middleware

import (
	"github.com/anjiri1684/skill_swap/services"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const userLocalsKey = "user"

// Protected verifies the bearer token and stores the parsed token in
// c.Locals("user"). Missing and invalid tokens both yield 401.
func Protected(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    []byte(secret),
		SigningMethod: "HS256",
		ContextKey:    userLocalsKey,
		ErrorHandler:  jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			if _, err := CurrentUserID(c); err != nil {
				return jwtError(c, err)
			}
			return c.Next()
		},
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing or malformed token"})
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
}

// CurrentUserID returns the authenticated caller. It only succeeds behind
// Protected.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals(userLocalsKey).(*jwt.Token)
	if !ok {
		return uuid.Nil, services.Unauthorized("missing token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, services.Unauthorized("invalid token claims")
	}
	return services.UserIDFromClaims(claims)
}
