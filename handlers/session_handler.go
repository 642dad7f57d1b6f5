package handlers

import (
	"time"

	"github.com/anjiri1684/skill_swap/services"
	"github.com/gofiber/fiber/v2"
)

type CreateSessionRequest struct {
	ListingID       string  `json:"listing_id" validate:"required"`
	ScheduledAt     string  `json:"scheduled_at" validate:"required"`
	DurationMinutes int     `json:"duration_minutes" validate:"required"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type UpdateSessionRequest struct {
	Status          *string `json:"status,omitempty"`
	ScheduledAt     *string `json:"scheduled_at,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Notes           *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, services.Validation("scheduled_at must be an RFC 3339 timestamp")
	}
	return t, nil
}

func (h *Handlers) CreateSession(c *fiber.Ctx) error {
	studentID, err := callerID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req CreateSessionRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	at, err := parseTime(req.ScheduledAt)
	if err != nil {
		return writeError(c, err)
	}

	session, err := h.Bookings.Create(c.UserContext(), studentID, services.BookingInput{
		ListingID:       req.ListingID,
		ScheduledAt:     at,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Session booked successfully",
		"session": toSessionResponse(session),
	})
}

func (h *Handlers) ListSessions(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return writeError(c, err)
	}
	page, err := h.Bookings.ListForUser(c.UserContext(), services.SessionFilter{
		UserID:  userID,
		Role:    c.Query("role"),
		Status:  c.Query("status"),
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("per_page", 0),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(pageMeta("sessions", toSessionResponses(page.Items), page.Page, page.Total))
}

func (h *Handlers) GetSession(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id", "session")
	if err != nil {
		return writeError(c, err)
	}
	session, err := h.Bookings.Get(c.UserContext(), id, userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"session": toSessionResponse(session)})
}

// UpdateSession handles status changes, rescheduling and notes in one call.
func (h *Handlers) UpdateSession(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id", "session")
	if err != nil {
		return writeError(c, err)
	}
	var req UpdateSessionRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}

	patch := services.SessionPatch{
		Status:          req.Status,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	}
	if req.ScheduledAt != nil {
		at, err := parseTime(*req.ScheduledAt)
		if err != nil {
			return writeError(c, err)
		}
		patch.ScheduledAt = &at
	}

	session, err := h.Bookings.Update(c.UserContext(), id, userID, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Session updated successfully",
		"session": toSessionResponse(session),
	})
}

func (h *Handlers) DeleteSession(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "id", "session")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Bookings.Delete(c.UserContext(), id, userID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Session deleted successfully"})
}
