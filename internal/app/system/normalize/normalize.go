// internal/app/system/normalize/normalize.go

// Package normalize holds the canonical forms for user-entered identity
// fields. Every store write and lookup goes through these so equality checks
// (duplicate email probes, caller resolution) never depend on input casing.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Phone strips spaces and dashes from a phone number.
func Phone(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "-", "")
}

// Gender uppercases the single-letter gender field ("m" -> "M").
func Gender(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
