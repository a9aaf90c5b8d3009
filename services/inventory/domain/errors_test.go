package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_Messages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrNotFound, "not found"},
		{ErrInsufficientStock, "insufficient stock"},
		{ErrIncompatibleUnits, "incompatible units"},
		{ErrInvalidState, "invalid state"},
		{ErrValidation, "validation failed"},
	}
	for _, tt := range tests {
		if tt.err.Error() != tt.want {
			t.Errorf("unexpected message: got %q, want %q", tt.err.Error(), tt.want)
		}
	}
}

func TestSentinelErrors_Distinct(t *testing.T) {
	all := []error{ErrNotFound, ErrInsufficientStock, ErrIncompatibleUnits, ErrInvalidState, ErrValidation}
	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Fatalf("%v must not match %v", a, b)
			}
		}
	}
}

func TestSentinelErrors_WrappedIdentity(t *testing.T) {
	wrapped := fmt.Errorf("%w: item %s", ErrNotFound, "abc")
	if !errors.Is(wrapped, ErrNotFound) {
		t.Fatal("errors.Is must match wrapped ErrNotFound")
	}

	wrapped2 := fmt.Errorf("complete reservation: %w", fmt.Errorf("%w: line 1", ErrInsufficientStock))
	if !errors.Is(wrapped2, ErrInsufficientStock) {
		t.Fatal("errors.Is must match double-wrapped ErrInsufficientStock")
	}
}
