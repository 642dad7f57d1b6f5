package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/anjiri1684/skill_swap/middleware"
	"github.com/anjiri1684/skill_swap/repository"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Handlers binds the HTTP API to the service layer.
type Handlers struct {
	DB       *gorm.DB
	Identity *services.IdentityService
	Catalog  *services.CatalogService
	Listings *services.ListingService
	Bookings *services.BookingService
	Reviews  *services.ReviewService
}

var statusByKind = map[services.Kind]int{
	services.KindValidation:   fiber.StatusBadRequest,
	services.KindUnauthorized: fiber.StatusUnauthorized,
	services.KindForbidden:    fiber.StatusForbidden,
	services.KindNotFound:     fiber.StatusNotFound,
	services.KindConflict:     fiber.StatusConflict,
	services.KindInternal:     fiber.StatusInternalServerError,
}

// writeError renders err as {"error": message}. Internal failures are
// logged and reported without detail.
func writeError(c *fiber.Ctx, err error) error {
	kind := services.KindOf(err)
	if kind == services.KindInternal {
		slog.Error("request failed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(statusByKind[kind]).JSON(fiber.Map{"error": err.Error()})
}

// ErrorHandler is the app-level fallback for errors that escape a handler,
// such as unknown routes and panics turned into errors by recover.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	return writeError(c, err)
}

// bind parses the JSON body into req and runs struct validation.
func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return services.Validation("cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return services.Validation("%s", err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email")
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
		}
	}
	return services.Validation("%s", strings.Join(msgs, "; "))
}

// pathID parses a uuid path parameter. A malformed id cannot name an
// existing row, so it reads as not found.
func pathID(c *fiber.Ctx, param, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, services.NotFound(what + " not found")
	}
	return id, nil
}

func callerID(c *fiber.Ctx) (uuid.UUID, error) {
	return middleware.CurrentUserID(c)
}

func pageMeta(key string, items any, page repository.Page, total int64) fiber.Map {
	return fiber.Map{
		key:            items,
		"total":        total,
		"pages":        page.Pages(total),
		"current_page": page.Number,
		"per_page":     page.PerPage,
	}
}
