package validation

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Account field errors.
var (
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidPhoneNumber = errors.New("invalid phone number")
)

var (
	// usernamePattern allows letters (including CJK), digits, underscore
	// and hyphen.
	usernamePattern = regexp.MustCompile(`^[\x{4e00}-\x{9fa5}a-zA-Z0-9_-]+$`)

	// phonePattern matches mainland Chinese mobile numbers, the only
	// format the account service accepts.
	phonePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)
)

// ValidateUsername checks length (2 to 50 characters) and the allowed
// character set.
func ValidateUsername(username string) error {
	length := utf8.RuneCountInString(username)
	if length < 2 || length > 50 {
		return fmt.Errorf("%w: must be 2-50 characters", ErrInvalidUsername)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("%w: only letters, digits, underscore and hyphen are allowed", ErrInvalidUsername)
	}
	return nil
}

// ValidatePassword checks length only. The 72-byte ceiling comes from
// the server's password hash.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("%w: must be at least 6 characters", ErrInvalidPassword)
	}
	if len(password) > 72 {
		return fmt.Errorf("%w: must be at most 72 characters", ErrInvalidPassword)
	}
	return nil
}

// ValidatePhoneNumber checks the mobile number format.
func ValidatePhoneNumber(phone string) error {
	if !phonePattern.MatchString(phone) {
		return fmt.Errorf("%w: must be a valid mobile number", ErrInvalidPhoneNumber)
	}
	return nil
}
