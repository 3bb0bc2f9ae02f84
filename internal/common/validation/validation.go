package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxFirstNameLength = 64
	MaxLastNameLength  = 64
	MaxEmailLength     = 254
)

// MobilePay numbers are Danish mobile numbers: 8 digits, optional +45 prefix.
var mobilePayRegex = regexp.MustCompile(`^(\+45)?[2-9][0-9]{7}$`)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateMobilePayNumber checks a MobilePay phone number.
func ValidateMobilePayNumber(number string) error {
	number = strings.ReplaceAll(strings.TrimSpace(number), " ", "")
	if number == "" {
		return fmt.Errorf("mobile pay number cannot be empty")
	}
	if !mobilePayRegex.MatchString(number) {
		return fmt.Errorf("mobile pay number must be a valid Danish mobile number")
	}
	return nil
}

// ValidateName checks a first or last name field.
func ValidateName(field, value string, maxLen int) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}
	if len(value) > maxLen {
		return fmt.Errorf("%s cannot exceed %d characters", field, maxLen)
	}
	return nil
}

// ValidateEmail checks an email address.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email cannot exceed %d characters", MaxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("email is not valid")
	}
	return nil
}
