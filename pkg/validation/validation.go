package validation

import (
	"regexp"
	"strings"
)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	mobileRegex = regexp.MustCompile(`^\+?[0-9]\d{6,14}$`)
)

// ValidEmail reports whether email looks like a deliverable address.
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && emailRegex.MatchString(email) && len(email) <= 200
}

// ValidMobile reports whether the mobile number is plausible E.164.
func ValidMobile(mobile string) bool {
	mobile = strings.TrimSpace(mobile)
	return mobile != "" && mobileRegex.MatchString(mobile) && len(mobile) <= 50
}

// ValidName reports whether a display name is within bounds.
func ValidName(name string) bool {
	name = strings.TrimSpace(name)
	return len(name) >= 2 && len(name) <= 200
}

// ValidPassword reports whether a raw password meets the minimum policy.
func ValidPassword(password string) bool {
	return len(password) >= 6 && len(password) <= 100
}

// ValidCoordinates reports whether lat/lng fall in the WGS84 range.
func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
