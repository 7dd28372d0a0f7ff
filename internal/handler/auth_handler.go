package handler

import (
	"go-sales-inventory/internal/middleware"
	"go-sales-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles user authentication
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	response, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "Login successful", response)
}

// Me returns the user behind the bearer token
// GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	id := middleware.UserID(c)
	if id == uuid.Nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	user, err := h.authService.CurrentUser(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, "", user)
}
