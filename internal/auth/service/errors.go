package service

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// responses cannot be used to probe which emails are registered.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	ErrAccountInactive   = errors.New("account_inactive")
	ErrAccountUnverified = errors.New("account_unverified")

	// ErrDuplicateEmail is returned on registration conflicts. Handlers map
	// it to a generic message.
	ErrDuplicateEmail = errors.New("duplicate_email")

	ErrInvalidToken = errors.New("invalid_token")
	ErrTokenUsed    = errors.New("token_used")
	ErrTokenExpired = errors.New("token_expired")

	ErrInvalidOTP = errors.New("invalid_otp")

	ErrInvalidRefresh = errors.New("invalid_refresh_token")

	ErrValidation = errors.New("validation")
)

// FieldErrors carries per-field validation messages alongside ErrValidation.
type FieldErrors struct {
	Fields map[string][]string
}

func (e *FieldErrors) Error() string { return "validation failed" }

func (e *FieldErrors) Is(target error) bool { return target == ErrValidation }

func newFieldErrors() *FieldErrors {
	return &FieldErrors{Fields: make(map[string][]string)}
}

func (e *FieldErrors) add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *FieldErrors) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
