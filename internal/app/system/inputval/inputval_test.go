package inputval

import (
	"errors"
	"strings"
	"testing"

	"github.com/minglehub/minglehub/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestID_Valid(t *testing.T) {
	want := primitive.NewObjectID()
	got, err := ID(want.Hex())
	if err != nil {
		t.Fatalf("ID(%q) error: %v", want.Hex(), err)
	}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestID_Malformed(t *testing.T) {
	bad := []string{
		"",
		"123",
		"ABCDEF0123456789ABCDEF01",  // uppercase hex rejected
		"zzzzzzzzzzzzzzzzzzzzzzzz",  // not hex
		"0123456789abcdef0123456",   // 23 chars
		"0123456789abcdef012345678", // 25 chars
	}
	for _, in := range bad {
		if _, err := ID(in); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("ID(%q) = %v, want validation error", in, err)
		}
	}
}

func valid() Profile {
	return Profile{
		FirstName: "Asha",
		LastName:  "Verma",
		Gender:    "F",
		Email:     "asha@example.com",
		Phone:     "9876543210",
		TagLine:   "Hello out there!",
		Summary:   strings.Repeat("A good summary sentence. ", 4),
	}
}

func TestProfileErrors_Valid(t *testing.T) {
	if errs := ProfileErrors(valid()); len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestProfileErrors_OptionalFieldsBlank(t *testing.T) {
	p := valid()
	p.LastName = ""
	p.TagLine = ""
	p.Summary = ""
	if errs := ProfileErrors(p); len(errs) != 0 {
		t.Errorf("blank optional fields should pass, got %v", errs)
	}
}

func TestProfileErrors_EachField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Profile)
		want   string
	}{
		{"empty first name", func(p *Profile) { p.FirstName = "" }, "First name"},
		{"digits in first name", func(p *Profile) { p.FirstName = "As4a" }, "First name"},
		{"digits in last name", func(p *Profile) { p.LastName = "V3rma" }, "Last Name"},
		{"bad gender", func(p *Profile) { p.Gender = "X" }, "Gender"},
		{"bad email", func(p *Profile) { p.Email = "not-an-email" }, "email"},
		{"short phone", func(p *Profile) { p.Phone = "12345" }, "Mobile"},
		{"leading zero phone", func(p *Profile) { p.Phone = "0876543210" }, "Mobile"},
		{"short tagline", func(p *Profile) { p.TagLine = "short" }, "TagLine"},
		{"tagline bad chars", func(p *Profile) { p.TagLine = "hello <script> there" }, "TagLine"},
		{"short summary", func(p *Profile) { p.Summary = "too short" }, "Summary"},
		{"long summary", func(p *Profile) { p.Summary = strings.Repeat("x", 501) }, "Summary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(&p)
			errs := ProfileErrors(p)
			if len(errs) == 0 {
				t.Fatal("expected a validation error")
			}
			found := false
			for _, e := range errs {
				if strings.Contains(e, tt.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("errors %v missing one mentioning %q", errs, tt.want)
			}
		})
	}
}
