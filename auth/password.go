package auth

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// =============================================================================
// PASSWORD HASHING
// =============================================================================

// HashPassword returns the bcrypt hash to store in place of the password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
// Comparison cost is the same for wrong passwords and unknown users when
// the caller passes DummyHash for the latter.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// DummyHash is a valid bcrypt hash of no real password. Login handlers
// compare against it when the user does not exist, so response timing does
// not reveal which usernames are registered.
const DummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// =============================================================================
// CREDENTIAL RULES
// =============================================================================

const (
	MinPasswordLength = 8
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// CheckPasswordStrength enforces the registration rules: at least
// MinPasswordLength characters with an upper-case letter, a lower-case
// letter and a digit.
func CheckPasswordStrength(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper {
		return errors.New("password must contain an upper-case letter")
	}
	if !hasLower {
		return errors.New("password must contain a lower-case letter")
	}
	if !hasDigit {
		return errors.New("password must contain a digit")
	}
	return nil
}

// CheckUsername enforces the username rules: MinUsernameLength to
// MaxUsernameLength characters, letters, digits, underscore or hyphen.
func CheckUsername(username string) error {
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return fmt.Errorf("username must be %d to %d characters", MinUsernameLength, MaxUsernameLength)
	}
	if !usernamePattern.MatchString(username) {
		return errors.New("username may only contain letters, digits, underscore and hyphen")
	}
	return nil
}
