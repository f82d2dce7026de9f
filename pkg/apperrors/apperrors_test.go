package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestConstructorsSetKind(t *testing.T) {
	cases := []struct {
		err  *Error
		kind Kind
	}{
		{Validation("quantity must be > 0"), KindValidation},
		{Configuration("no stages configured"), KindConfiguration},
		{InvalidState("credit is retired"), KindInvalidState},
		{NotFound("project %s not found", "KEN-2023-0001"), KindNotFound},
		{Conflict("duplicate serial"), KindConflict},
	}
	for _, c := range cases {
		if c.err.Kind != c.kind {
			t.Errorf("Kind = %q, expected %q", c.err.Kind, c.kind)
		}
	}
}

func TestErrorMessageIncludesKind(t *testing.T) {
	err := NotFound("project %s not found", "KEN-2023-0001")
	want := "not_found: project KEN-2023-0001 not found"
	if err.Error() != want {
		t.Errorf("Error() = %q, expected %q", err.Error(), want)
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	inner := InvalidState("already resolved")
	wrapped := fmt.Errorf("resolve verification: %w", inner)

	if KindOf(wrapped) != KindInvalidState {
		t.Errorf("KindOf(wrapped) = %q, expected invalid_state", KindOf(wrapped))
	}
	if !IsKind(wrapped, KindInvalidState) {
		t.Error("IsKind should see through wrapping")
	}
}

func TestKindOf_PlainError(t *testing.T) {
	if KindOf(errors.New("boom")) != "" {
		t.Error("plain error should have no kind")
	}
	if IsKind(nil, KindValidation) {
		t.Error("nil error should match no kind")
	}
}
