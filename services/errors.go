package services

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Stable failure codes surfaced to the HTTP layer. The Error() text of each
// sentinel is the wire code, so handlers never invent their own strings.
var (
	ErrMenuNotFound        = errors.New("menu_not_found")
	ErrItemNotFound        = errors.New("item_not_found")
	ErrLocaleRequired      = errors.New("locale_required")
	ErrInvalidParent       = errors.New("invalid_parent")
	ErrConcurrencyConflict = errors.New("conflict")
)

// ErrorCode returns the stable code for a taxonomy error, or "internal_error"
// for anything that escaped translation.
func ErrorCode(err error) string {
	for _, sentinel := range []error{
		ErrMenuNotFound, ErrItemNotFound, ErrLocaleRequired,
		ErrInvalidParent, ErrConcurrencyConflict,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal_error"
}

// HTTPStatus maps a taxonomy error onto its response status.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrMenuNotFound), errors.Is(err, ErrItemNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrLocaleRequired), errors.Is(err, ErrInvalidParent):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrConcurrencyConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// notFoundAs translates the store's not-found into the taxonomy, leaving
// other storage errors untouched for the transaction to roll back on.
func notFoundAs(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
