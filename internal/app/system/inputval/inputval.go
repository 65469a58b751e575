// internal/app/system/inputval/inputval.go

// Package inputval validates request fields before they reach the core.
// Identifier and profile-field rules live here so handlers reject malformed
// input with field-level messages and the engine only ever sees well-formed
// values.
package inputval

import (
	"regexp"

	"github.com/minglehub/minglehub/internal/app/system/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	idRe        = regexp.MustCompile(`^[0-9a-f]{24}$`)
	firstNameRe = regexp.MustCompile(`^[A-Za-z]+$`)
	lastNameRe  = regexp.MustCompile(`^[A-Za-z]*$`)
	genderRe    = regexp.MustCompile(`^[MF]$`)
	emailRe     = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	phoneRe     = regexp.MustCompile(`^[1-9][0-9]{9}$`)
	freeTextRe  = regexp.MustCompile(`^[A-Za-z0-9.,!?\s]*$`)
)

// ID parses a 24-character lowercase-hex identifier. Malformed ids fail
// validation before any store call is made.
func ID(hex string) (primitive.ObjectID, error) {
	if !idRe.MatchString(hex) {
		return primitive.NilObjectID, apperr.Validation("Invalid ID format")
	}
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("Invalid ID format")
	}
	return oid, nil
}

// Profile holds the submitted profile fields, already normalized.
type Profile struct {
	FirstName string
	LastName  string
	Gender    string
	Email     string
	Phone     string
	TagLine   string
	Summary   string
}

// ProfileErrors returns every field-level violation in the submission.
// An empty slice means the profile is valid.
func ProfileErrors(p Profile) []string {
	var errs []string

	if p.FirstName == "" || !firstNameRe.MatchString(p.FirstName) {
		errs = append(errs, "First name cannot be blank or contain characters other than letters")
	}
	if !lastNameRe.MatchString(p.LastName) {
		errs = append(errs, "Last Name cannot contain characters other than letters")
	}
	if !genderRe.MatchString(p.Gender) {
		errs = append(errs, "Gender cannot contain characters other than M or F")
	}
	if p.Email == "" || !emailRe.MatchString(p.Email) {
		errs = append(errs, "Invalid email format")
	}
	if !phoneRe.MatchString(p.Phone) {
		errs = append(errs, "Mobile must contain 10 digits")
	}
	if p.TagLine != "" {
		if !freeTextRe.MatchString(p.TagLine) {
			errs = append(errs, "TagLine can only contain letters, numbers, spaces, and common punctuation marks (.,!?)")
		} else if n := len(p.TagLine); n < 10 || n > 100 {
			errs = append(errs, "TagLine must be between 10 and 100 characters")
		}
	}
	if p.Summary != "" {
		if !freeTextRe.MatchString(p.Summary) {
			errs = append(errs, "Summary can only contain letters, numbers, spaces, and common punctuation marks (.,!?)")
		} else if n := len(p.Summary); n < 50 || n > 500 {
			errs = append(errs, "Summary must be between 50 and 500 characters")
		}
	}

	return errs
}

// Email reports whether s is a plausible email address.
func Email(s string) bool { return emailRe.MatchString(s) }
