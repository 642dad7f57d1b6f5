package handlers

import (
	"github.com/anjiri1684/skill_swap/services"
	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=80"`
	Email    string  `json:"email" validate:"required,email,max=120"`
	Password string  `json:"password" validate:"required,min=6,max=72"`
	Bio      *string `json:"bio,omitempty" validate:"omitempty,max=1000"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=80"`
	Bio      *string `json:"bio,omitempty" validate:"omitempty,max=1000"`
}

func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}

	user, token, err := h.Identity.Register(c.UserContext(), services.Registration{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Bio:      req.Bio,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "User registered successfully",
		"access_token": token,
		"user":         toUserResponse(user),
	})
}

func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}

	user, token, err := h.Identity.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":      "Login successful",
		"access_token": token,
		"user":         toUserResponse(user),
	})
}

func (h *Handlers) GetProfile(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return writeError(c, err)
	}
	user, err := h.Identity.GetProfile(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"user": toUserResponse(user)})
}

func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}

	user, err := h.Identity.UpdateProfile(c.UserContext(), userID, services.ProfilePatch{
		Username: req.Username,
		Bio:      req.Bio,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    toUserResponse(user),
	})
}
