package domain

import (
	"errors"
	"testing"
)

func validTemple() *Temple {
	return &Temple{
		Name:        "Jagannath",
		Description: "Twelfth-century temple",
		Location:    "Puri",
		Timings: []Timing{{
			MorningOpening: "5:00",
			MorningClosing: "11:00",
			EveningOpening: "16:00",
			EveningClosing: "22:00",
		}},
		Images: []string{"/uploads/1-front.jpg"},
	}
}

func TestTemple_Validate(t *testing.T) {
	if err := validTemple().Validate(); err != nil {
		t.Fatalf("expected valid temple, got %v", err)
	}

	cases := map[string]func(*Temple){
		"name":          func(t *Temple) { t.Name = "" },
		"description":   func(t *Temple) { t.Description = "" },
		"location":      func(t *Temple) { t.Location = "" },
		"timings":       func(t *Temple) { t.Timings = nil },
		"images":        func(t *Temple) { t.Images = []string{} },
		"evening close": func(t *Temple) { t.Timings[0].EveningClosing = "" },
		"morning open":  func(t *Temple) { t.Timings[0].MorningOpening = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			tm := validTemple()
			mutate(tm)
			if err := tm.Validate(); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestTemple_ValidateDetailsIgnoresImages(t *testing.T) {
	tm := validTemple()
	tm.Images = nil
	if err := tm.ValidateDetails(); err != nil {
		t.Fatalf("ValidateDetails should not look at images: %v", err)
	}
}

func TestTiming_AnyStringAccepted(t *testing.T) {
	tm := Timing{MorningOpening: "dawn", MorningClosing: "noon-ish", EveningOpening: "??", EveningClosing: "late"}
	if err := tm.Validate(); err != nil {
		t.Fatalf("free-form values must be accepted: %v", err)
	}
}

func TestErrorKinds(t *testing.T) {
	if !errors.Is(ErrTempleNotFound, ErrNotFound) || !errors.Is(ErrUserNotFound, ErrNotFound) {
		t.Fatal("not-found errors must match ErrNotFound")
	}
	if !errors.Is(ErrUserExists, ErrConflict) {
		t.Fatal("ErrUserExists must match ErrConflict")
	}
	if !errors.Is(ErrInvalidCredentials, ErrUnauthorized) || !errors.Is(ErrInvalidToken, ErrUnauthorized) {
		t.Fatal("credential errors must match ErrUnauthorized")
	}
}

func TestClaims_IsAdmin(t *testing.T) {
	var nilClaims *Claims
	if nilClaims.IsAdmin() {
		t.Fatal("nil claims are not admin")
	}
	if (&Claims{Role: RoleUser}).IsAdmin() {
		t.Fatal("user role is not admin")
	}
	if !(&Claims{Role: RoleAdmin}).IsAdmin() {
		t.Fatal("admin role is admin")
	}
}
