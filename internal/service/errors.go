package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotFound          = errors.New("not found")
	ErrPaymentFailed     = errors.New("payment failed")
	ErrForbidden         = errors.New("forbidden")

	ErrProductNotFound      = fmt.Errorf("product %w", ErrNotFound)
	ErrOrderNotFound        = fmt.Errorf("order %w", ErrNotFound)
	ErrCartLineNotFound     = fmt.Errorf("cart line %w", ErrNotFound)
	ErrNotificationNotFound = fmt.Errorf("notification %w", ErrNotFound)
	ErrFarmToolNotFound     = fmt.Errorf("farm tool %w", ErrNotFound)
	ErrCategoryNotFound     = fmt.Errorf("category %w", ErrNotFound)
	ErrReviewNotFound       = fmt.Errorf("review %w", ErrNotFound)

	ErrEmptyCart       = fmt.Errorf("cart is empty: %w", ErrValidation)
	ErrInvalidQuantity = fmt.Errorf("quantity must be > 0: %w", ErrValidation)

	ErrOrderNotPayable         = errors.New("order is not awaiting payment")
	ErrInvalidTransition       = errors.New("status transition not allowed")
	ErrTrackingNumberExhausted = errors.New("could not allocate a unique tracking number")
	ErrCategoryExists          = errors.New("category name or slug already exists")
	ErrAlreadyReviewed         = errors.New("product already reviewed by this user")
)

// FieldError is a validation failure tied to one input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }
func (e *FieldError) Unwrap() error { return ErrValidation }

func fieldErr(field, msg string) error { return &FieldError{Field: field, Message: msg} }

type InsufficientStockError struct {
	ProductID uuid.UUID
	Name      string
	Available int32
	Requested int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d", e.Name, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
