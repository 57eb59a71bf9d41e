package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple conditions without extra context. Ownership
// misses surface as not-found on purpose: a caller probing another user's
// order id learns nothing about its existence.
var (
	ErrOfferNotFound = errors.New("offer not found")
	ErrOrderNotFound = errors.New("order not found")
)

// ValidationError is returned when a business-rule precondition fails:
// offer not open, insufficient available shares, non-positive share count.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// TransitionError is returned when a requested stage change is not a legal
// edge from the order's current stage.
type TransitionError struct {
	From Stage
	To   Stage
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid stage transition from %q to %q", e.From, e.To)
}
