package errors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPhoneTaken         = errors.New("phone already registered")
	ErrCodeTaken          = errors.New("redemption code already issued")
	ErrAlreadyRedeemed    = errors.New("already redeemed")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries a user facing message describing rejected input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with the supplied message.
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsDuplicate reports whether err signals a contact identity that is already registered.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrEmailTaken) || errors.Is(err, ErrPhoneTaken)
}
