package machine

import (
	"errors"
	"fmt"
)

// Domain errors surfaced by the vend engine and slot updates. Error texts
// double as the HTTP detail messages, so they are full sentences.
var (
	// ErrNoProduct means the targeted slot has no product assigned.
	ErrNoProduct = errors.New("Slot with no product associated")

	// ErrEmptySlot means the targeted slot has zero stock left.
	ErrEmptySlot = errors.New("Empty slot")

	// ErrProductRequired means a slot update supplied no product for a slot
	// that has none assigned.
	ErrProductRequired = errors.New("Slot has not a product associated and not product_id provided")
)

// SlotNotFoundError reports a purchase against an unknown slot code.
type SlotNotFoundError struct {
	Code string
}

func (e *SlotNotFoundError) Error() string {
	return fmt.Sprintf("Slot with code %s not found", e.Code)
}

// InsufficientPaymentError reports a payment below the product price.
type InsufficientPaymentError struct {
	Price  int64
	Amount int64
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("Product price is %d and you gave %d. Insufficient", e.Price, e.Amount)
}

// ValidationError reports a malformed or out-of-range input field.
// Validation always runs before any store mutation.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Detail: fmt.Sprintf(format, args...)}
}
