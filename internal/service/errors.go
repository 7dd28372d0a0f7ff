package service

import (
	"errors"
	"fmt"

	"go-sales-inventory/internal/repository"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError names the product that could not cover a sale line
type InsufficientStockError struct {
	Product   string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s. Available: %d, Requested: %d", e.Product, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func notFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

// mapRepoErr lifts repository sentinels into the service taxonomy
func mapRepoErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return notFound(what)
	case errors.Is(err, repository.ErrDuplicateKey):
		return fmt.Errorf("%w: %s", ErrDuplicateKey, err)
	default:
		return err
	}
}
