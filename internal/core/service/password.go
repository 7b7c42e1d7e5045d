package service

import (
	"unicode"

	"github.com/go-playground/validator/v10"

	"todoapp/internal/core/apperr"
)

const (
	MinPasswordLength = 8

	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)

var emailValidator = validator.New(validator.WithRequiredStructEnabled())

// ValidatePassword enforces at least 8 characters and at most 72 bytes with
// at least one upper case letter, one lower case letter and one digit.
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return apperr.WeakPassword
	}

	if len(password) > MaxPasswordBytes {
		return apperr.PasswordTooLong
	}

	var upper, lower, digit bool

	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	if !upper || !lower || !digit {
		return apperr.WeakPassword
	}

	return nil
}

func ValidateEmail(email string) error {
	if err := emailValidator.Var(email, "required,email,max=255"); err != nil {
		return apperr.InvalidEmail
	}

	return nil
}
