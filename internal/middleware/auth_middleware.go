package middleware

import (
	"errors"
	"strings"

	"go-sales-inventory/internal/repository"
	"go-sales-inventory/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Keys stored in fiber.Ctx Locals by RequireAuth
const (
	LocalUserID    = "user_id"
	LocalUserEmail = "user_email"
	LocalUserName  = "user_name"
)

// unauthorized is rendered by the app's ErrorHandler like every other failure
func unauthorized(msg string) error {
	return fiber.NewError(fiber.StatusUnauthorized, msg)
}

// RequireAuth is middleware that validates JWT token and sets user info in context
func RequireAuth(tokens *jwt.Manager, userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized("Missing authorization token")
		}

		// Extract token from "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return unauthorized("Invalid authorization format. Use: Bearer <token>")
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			return unauthorized("Invalid or expired token")
		}

		user, err := userRepo.FindByID(c.UserContext(), claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return unauthorized("User not found")
			}
			return err
		}
		if !user.IsActive {
			return unauthorized("User account is inactive")
		}

		c.Locals(LocalUserID, claims.UserID.String())
		c.Locals(LocalUserEmail, claims.Email)
		c.Locals(LocalUserName, claims.Name)

		return c.Next()
	}
}

// Optional returns guard when enabled and a pass-through handler otherwise
func Optional(enabled bool, guard fiber.Handler) fiber.Handler {
	if enabled {
		return guard
	}
	return func(c *fiber.Ctx) error {
		return c.Next()
	}
}

// UserID returns the authenticated user's id, or uuid.Nil outside RequireAuth
func UserID(c *fiber.Ctx) uuid.UUID {
	raw, ok := c.Locals(LocalUserID).(string)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}
