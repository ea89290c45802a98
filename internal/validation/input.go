package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MinPasswordLength     = 8
	MaxPasswordLength     = 72 // bcrypt limit
	MaxZoneLength         = 100
	MaxLocationLength     = 500
	MaxCancelReasonLength = 1000
	SiretLength           = 14
)

var (
	localPartRegex = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	siretRegex     = regexp.MustCompile(`^[0-9]{14}$`)
)

// ValidateLength checks a string length in runes.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s must be at most %d characters", fieldName, max)
	}
	return nil
}

// ValidateEmail checks the email format.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("invalid email format")
	}

	localPart, domainPart := parts[0], parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("email local part must be between 1 and 64 characters")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("email domain must be between 1 and 255 characters")
	}
	if !strings.Contains(domainPart, ".") {
		return fmt.Errorf("email domain must contain a dot")
	}
	if !localPartRegex.MatchString(localPart) {
		return fmt.Errorf("email local part contains invalid characters")
	}

	return nil
}

// ValidatePassword enforces the minimal password policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", MaxPasswordLength)
	}
	return nil
}

// ValidatePrice checks that a price is strictly positive and has at most
// two decimal places.
func ValidatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return fmt.Errorf("price must be greater than 0")
	}
	if price.Exponent() < -2 {
		return fmt.Errorf("price cannot have more than two decimal places")
	}
	return nil
}

// ValidateSiret checks the French company registration number format.
func ValidateSiret(siret string) error {
	if !siretRegex.MatchString(siret) {
		return fmt.Errorf("siret must be exactly %d digits", SiretLength)
	}
	return nil
}

// NormalizeEmail lowers and trims an email for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
