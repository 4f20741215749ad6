// Package whatsapp captures visitor WhatsApp numbers and builds the
// pre-filled wa.me messages used for product inquiries and orders.
package whatsapp

import (
	"errors"
	"regexp"
	"strings"
)

// DefaultCountryCode is applied to numbers entered without one
const DefaultCountryCode = "+234"

var (
	// ErrInvalidNumber carries the message shown to visitors
	ErrInvalidNumber = errors.New("Please enter a valid Nigerian WhatsApp number (e.g., 08012345678 or +2348012345678)")

	nonNumberChars = regexp.MustCompile(`[^\d+]`)
	nigerianMobile = regexp.MustCompile(`^\+234[789][01]\d{8}$`)
)

// ValidateNumber normalizes a free-text phone number to +234XXXXXXXXXX.
// Numbers without a leading + get countryCode applied: a leading 0 is replaced,
// a leading 234 just gains the +, anything else is prefixed.
func ValidateNumber(number, countryCode string) (string, error) {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}

	clean := nonNumberChars.ReplaceAllString(number, "")
	formatted := clean
	if !strings.HasPrefix(clean, "+") {
		switch {
		case strings.HasPrefix(clean, "0"):
			formatted = countryCode + clean[1:]
		case strings.HasPrefix(clean, "234"):
			formatted = "+" + clean
		default:
			formatted = countryCode + clean
		}
	}

	if !nigerianMobile.MatchString(formatted) {
		return "", ErrInvalidNumber
	}
	return formatted, nil
}
