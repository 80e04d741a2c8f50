package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapAndCodeOf(t *testing.T) {
	base := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("list users: %w", Wrap(base, CodeUnavailable, "database connection failed"))

	if got := CodeOf(err); got != CodeUnavailable {
		t.Fatalf("expected %s, got %s", CodeUnavailable, got)
	}
	if !IsCode(err, CodeUnavailable) {
		t.Fatal("IsCode should see through fmt wrapping")
	}
	if !errors.Is(err, base) {
		t.Fatal("expected base error in chain")
	}
	if CodeOf(base) != CodeUnknown {
		t.Fatal("plain errors should report unknown")
	}
}

func TestErrorString(t *testing.T) {
	if got := New(CodeNotFound, "user not found").Error(); got != "not_found: user not found" {
		t.Fatalf("unexpected message %q", got)
	}
	var nilErr *AppError
	if nilErr.Error() != "<nil>" {
		t.Fatal("nil AppError should render <nil>")
	}
	e := New(CodeInvalid, "bad").WithMeta("field", "email")
	if e.Meta["field"] != "email" {
		t.Fatal("meta not attached")
	}
}
