package validation

import "regexp"

// Validation rule patterns
var (
	// Email validation pattern - standard local@domain.tld shape
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// OTP code pattern - exactly 6 decimal digits, leading zeros allowed
	OTPCodePattern = `^\d{6}$`

	// Search query min length
	SearchQueryMinLength = 2

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email   *regexp.Regexp
	OTPCode *regexp.Regexp
}{
	Email:   regexp.MustCompile(EmailPattern),
	OTPCode: regexp.MustCompile(OTPCodePattern),
}

// IsValidEmail reports whether the email matches the standard pattern
func IsValidEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(email)
}

// IsValidOTPCode reports whether the code is a fixed-width 6-digit string
func IsValidOTPCode(code string) bool {
	return CompiledPatterns.OTPCode.MatchString(code)
}
