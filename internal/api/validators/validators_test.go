package validators

import (
	"strings"
	"testing"

	"github.com/lofoneh/usersvc/internal/api/types"
)

func TestCreateRequestMessages(t *testing.T) {
	err := New().Struct(types.CreateUserRequest{Email: strings.Repeat("e", 101)})
	if err == nil {
		t.Fatal("expected validation error")
	}
	got := Message(err)
	for _, want := range []string{"name is required", "email must be at most 100 characters", "password is required"} {
		if !strings.Contains(got, want) {
			t.Fatalf("message %q missing %q", got, want)
		}
	}
}

func TestUpdateRequestSkipsNilFields(t *testing.T) {
	if err := New().Struct(types.UpdateUserRequest{}); err != nil {
		t.Fatalf("empty update should validate: %v", err)
	}
	empty := ""
	err := New().Struct(types.UpdateUserRequest{Name: &empty})
	if err == nil || Message(err) != "name must not be empty" {
		t.Fatalf("unexpected result: %v", err)
	}
}
