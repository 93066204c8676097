package validators

import (
	"regexp"
	"strings"
)

var (
	emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phone10    = regexp.MustCompile(`^\d{10}$`)
)

// IsEmailShape reports whether s looks like local@domain.tld.
func IsEmailShape(s string) bool {
	return emailShape.MatchString(s)
}

// IsPhone10 reports whether s is exactly ten ASCII digits.
func IsPhone10(s string) bool {
	return phone10.MatchString(s)
}

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
