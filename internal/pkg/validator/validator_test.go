package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"123e4567-e89b-12d3-a456-426614174000",
		"123E4567-E89B-12D3-A456-426614174000",
	}
	invalid := []string{
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",     // missing dashes
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // invalid hex
		"{123e4567-e89b-12d3-a456-426614174000}",
		"",
	}
	for _, id := range valid {
		if !IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = true, want false", id)
		}
	}
}

func TestIsValidDateAndMonth(t *testing.T) {
	if _, ok := IsValidDate("2024-02-29"); !ok {
		t.Error("IsValidDate(2024-02-29) = false, want true")
	}
	if _, ok := IsValidDate("2023-02-29"); ok {
		t.Error("IsValidDate(2023-02-29) = true, want false")
	}
	if m, ok := IsValidMonth("2024-03"); !ok || m.Month() != 3 {
		t.Errorf("IsValidMonth(2024-03) = %v, %v", m, ok)
	}
	if _, ok := IsValidMonth("2024-13"); ok {
		t.Error("IsValidMonth(2024-13) = true, want false")
	}
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "email is required"},
		{Field: "password", Message: "password is required"},
	}
	if got := errs.Error(); got != "email: email is required; password: password is required" {
		t.Errorf("Error() = %q", got)
	}
	if m := errs.ToMap(); len(m) != 2 || m["email"] != "email is required" {
		t.Errorf("ToMap() = %v", m)
	}
}

func TestIsValidCoordinate(t *testing.T) {
	if !IsValidCoordinate(-6.2, 106.8) {
		t.Error("IsValidCoordinate(-6.2, 106.8) = false, want true")
	}
	if IsValidCoordinate(91, 0) || IsValidCoordinate(0, -181) {
		t.Error("IsValidCoordinate accepted out-of-range values")
	}
}
