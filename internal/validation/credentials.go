package validation

import (
	"strings"
	"unicode/utf8"
)

// MinPasswordLength counts characters, not bytes.
const MinPasswordLength = 6

const (
	MsgInvalidEmail     = "Invalid email address"
	MsgPasswordTooShort = "Password must be at least 6 characters"
	MsgNameRequired     = "Name is required"
	MsgPasswordMismatch = "Passwords do not match"
)

// FieldErrors maps a form field name to a message shown next to it. A nil
// FieldErrors means the input passed.
type FieldErrors map[string]string

func (e FieldErrors) add(field, message string) FieldErrors {
	if e == nil {
		e = FieldErrors{}
	}
	e[field] = message
	return e
}

func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// ValidateLogin checks the shape of a login submission. It never touches
// storage; wrong credentials are reported by the caller.
func ValidateLogin(email, password string) FieldErrors {
	var errs FieldErrors

	if !strings.Contains(email, "@") {
		errs = errs.add("email", MsgInvalidEmail)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		errs = errs.add("password", MsgPasswordTooShort)
	}

	return errs
}

func ValidateSignup(email, password, confirmPassword, name string) FieldErrors {
	var errs FieldErrors

	if strings.TrimSpace(name) == "" {
		errs = errs.add("name", MsgNameRequired)
	}
	if !strings.Contains(email, "@") {
		errs = errs.add("email", MsgInvalidEmail)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		errs = errs.add("password", MsgPasswordTooShort)
	}
	if password != confirmPassword {
		errs = errs.add("confirmPassword", MsgPasswordMismatch)
	}

	return errs
}
