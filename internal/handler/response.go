package handler

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go-sales-inventory/internal/service"
	"go-sales-inventory/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Response is the envelope every endpoint answers with
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok[T any](c *fiber.Ctx, status int, message string, data T) error {
	return c.Status(status).JSON(Response[T]{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func list[T any](c *fiber.Ctx, items []T) error {
	if items == nil {
		items = []T{}
	}
	count := len(items)
	// pointer keeps an empty list in the output despite omitempty
	return c.Status(fiber.StatusOK).JSON(Response[*[]T]{
		Success: true,
		Data:    &items,
		Count:   &count,
	})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Response[any]{
		Success: false,
		Message: message,
	})
}

// statusFor maps service errors to HTTP status codes. Zero means unexpected.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrDuplicateKey),
		errors.Is(err, service.ErrInsufficientStock):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserInactive),
		errors.Is(err, jwt.ErrInvalidToken),
		errors.Is(err, jwt.ErrMissingToken):
		return fiber.StatusUnauthorized
	}
	return 0
}

// ErrorHandler renders every error that reaches Fiber as an envelope.
// Details of unexpected failures are exposed only in development.
func ErrorHandler(development bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if status := statusFor(err); status != 0 {
			return fail(c, status, err.Error())
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fail(c, fe.Code, fe.Message)
		}

		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
		resp := Response[any]{Success: false, Message: "internal server error"}
		if development {
			resp.Error = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}
}

// RouteNotFound answers every request no route matched
func RouteNotFound(c *fiber.Ctx) error {
	return fail(c, fiber.StatusNotFound, "route not found")
}

// parseID reads the :id param. No record can match a malformed id, so it is reported as not found.
func parseID(c *fiber.Ctx, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s %w", what, service.ErrNotFound)
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, dest interface{}) error {
	if err := c.BodyParser(dest); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid JSON")
	}
	return nil
}

const dateOnly = "2006-01-02"

// ParseDate accepts RFC3339 or YYYY-MM-DD. endOfDay moves a date-only value
// to the last instant of that day so it can close an inclusive range.
func ParseDate(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD or RFC3339", service.ErrValidation, raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
