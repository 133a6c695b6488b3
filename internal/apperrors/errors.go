// Package apperrors holds the typed failures surfaced by the reservation and
// payment flows. Callers match them with errors.As.
package apperrors

import (
	"fmt"
	"strings"
)

// Validation kinds.
const (
	KindMissingSelection = "missing-selection"
	KindInvalidDiscount  = "invalid-discount"
	KindInvalidPayment   = "invalid-payment-request"
	KindInvalidInput     = "invalid-input"
	KindSlotLocked       = "slot-locked"
	KindFoodUnavailable  = "food-unavailable"
	KindMealMismatch     = "meal-mismatch"
	KindRestaurantClosed = "restaurant-closed"
	KindTerminal         = "terminal-status"
	KindDuplicateUser    = "duplicate-user"
)

// Not-found kinds.
const (
	KindFoodMissing         = "food-missing"
	KindRestaurantMissing   = "restaurant-missing"
	KindGatewayMissing      = "gateway-missing"
	KindReservationMissing  = "reservation-missing"
	KindPaymentMissing      = "payment-missing"
	KindUserMissing         = "user-missing"
	KindPickupMissing       = "pickup-code-missing"
	KindNotificationMissing = "notification-missing"
)

// ValidationError lists every violated constraint, not just the first.
type ValidationError struct {
	Kind       string
	Violations []string
}

func NewValidation(kind string, violations ...string) *ValidationError {
	return &ValidationError{Kind: kind, Violations: violations}
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed: " + e.Kind
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Kind, strings.Join(e.Violations, "; "))
}

type InsufficientFundsError struct {
	Balance  int64
	Required int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance %d, required %d", e.Balance, e.Required)
}

// PaymentError carries the gateway's failure kind.
type PaymentError struct {
	Kind          string
	GatewayID     string
	TransactionID string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment via %s failed: %s", e.GatewayID, e.Kind)
}

type NotFoundError struct {
	Kind string
	Ref  string
}

func NewNotFound(kind, ref string) *NotFoundError {
	return &NotFoundError{Kind: kind, Ref: ref}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s %q", e.Kind, e.Ref)
}

// ConflictError reports that another action for the same user is in flight.
type ConflictError struct {
	Resource string
}

func (e *ConflictError) Error() string {
	return "busy: " + e.Resource
}
