package domain_test

import (
	"testing"

	"github.com/neomorfeo/allocq/internal/domain"
)

func TestValidationError_Error(t *testing.T) {
	err := &domain.ValidationError{Reason: "not enough available shares"}
	if got := err.Error(); got != "not enough available shares" {
		t.Errorf("Error() = %q, want %q", got, "not enough available shares")
	}
}

func TestTransitionError_Error(t *testing.T) {
	err := &domain.TransitionError{
		From: domain.StagePendingReview,
		To:   domain.StageSettled,
	}
	want := `invalid stage transition from "PENDING_REVIEW" to "SETTLED"`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
