package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	domainErrors "github.com/polkiloo/giftpromo/internal/domain/errors"
)

// Registration is the input accepted by RegistrationUseCase.Register.
type Registration struct {
	FullName string `json:"fullName" validate:"required,max=200"`
	Email    string `json:"email" validate:"omitempty,max=254,email"`
	Phone    string `json:"phone" validate:"omitempty,min=3,max=32,phone"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return isPhone(fl.Field().String())
	})
	return v
}

// isPhone accepts digits with common separators and an optional leading plus.
func isPhone(s string) bool {
	digits := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == '-', r == ' ', r == '(', r == ')', r == '.':
		default:
			return false
		}
	}
	return digits > 0
}

// NormalizePhone strips separators from a well-formed phone number, keeping a
// leading plus. Anything else is returned trimmed so validation can reject it.
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	if !isPhone(s) {
		return s
	}
	var b strings.Builder
	for i, r := range s {
		if (r >= '0' && r <= '9') || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize trims whitespace, lower-cases the email address and canonicalizes the phone.
func (r Registration) Normalize() Registration {
	return Registration{
		FullName: strings.TrimSpace(r.FullName),
		Email:    strings.ToLower(strings.TrimSpace(r.Email)),
		Phone:    NormalizePhone(r.Phone),
	}
}

// Validate checks a normalized registration and returns a ValidationError on rejection.
func (r Registration) Validate() error {
	if err := validate.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return domainErrors.NewValidationError(fieldMessage(fieldErrs[0]))
		}
		return fmt.Errorf("validate registration: %w", err)
	}
	if r.Email == "" && r.Phone == "" {
		return domainErrors.NewValidationError("Either email or phone is required")
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "fullName":
		if fe.Tag() == "required" {
			return "Full name is required"
		}
		return fmt.Sprintf("Full name must be at most %s characters", fe.Param())
	case "email":
		return "Invalid email address"
	case "phone":
		switch fe.Tag() {
		case "min":
			return fmt.Sprintf("Phone number must be at least %s characters", fe.Param())
		case "max":
			return fmt.Sprintf("Phone number must be at most %s characters", fe.Param())
		}
		return "Invalid phone number"
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
