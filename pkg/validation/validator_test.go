package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type signupPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"notblank"`
	Password string `json:"password" validate:"required,pwd"`
	Role     string `json:"role" validate:"signup_role"`
}

func TestToDetails(t *testing.T) {
	v := validator.New()
	Register(v)

	err := v.Struct(signupPayload{Email: "nope", Name: "   ", Password: "short", Role: "ADMIN"})
	got := ToDetails(err)
	want := map[string]string{
		"email":    "must be a valid email",
		"name":     "must not be blank",
		"password": "min length 8",
		"role":     "must be VOLUNTEER or EVENT_MANAGER",
	}
	if len(got) != len(want) {
		t.Fatalf("details = %v", got)
	}
	for k, w := range want {
		if got[k] != w {
			t.Errorf("%s = %q, want %q", k, got[k], w)
		}
	}
}

func TestValidPayload(t *testing.T) {
	v := validator.New()
	Register(v)
	if err := v.Struct(signupPayload{Email: "a@b.test", Name: "Ann", Password: "longenough", Role: "VOLUNTEER"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSummary(t *testing.T) {
	if got := Summary(map[string]string{"title": "is required"}); got != "title is required" {
		t.Fatalf("Summary = %q", got)
	}
	if got := Summary(nil); got != "invalid payload" {
		t.Fatalf("Summary(nil) = %q", got)
	}
}

func TestEmail(t *testing.T) {
	for _, ok := range []string{"ann@example.com", "a.b+tag@sub.example.org"} {
		if !Email(ok) {
			t.Errorf("Email(%q) = false", ok)
		}
	}
	for _, bad := range []string{"", "ann", "ann@", "Ann <ann@example.com>", "ann@example.com, ben@example.com"} {
		if Email(bad) {
			t.Errorf("Email(%q) = true", bad)
		}
	}
	if err := Var("ADMIN", "role"); err != nil {
		t.Errorf("Var role: %v", err)
	}
	if err := Var("ADMIN", "signup_role"); err == nil {
		t.Error("Var signup_role accepted ADMIN")
	}
}
