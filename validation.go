package auth

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	fullNameMessage        = "Your full name is required."
	emailMessage           = "Please provide a valid email."
	registerPasswordMsg    = "Password must be at least six characters."
	loginPasswordMsg       = "Password is required. Must be at least six characters."
	passwordTooLongMessage = "Password must be at most 72 bytes."

	minFullNameLength = 3
	minPasswordLength = 6
)

func fullNameRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error(fullNameMessage),
		validation.By(minTrimmedLength(minFullNameLength, fullNameMessage)),
	}
}

func emailRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error(emailMessage),
		is.Email.Error(emailMessage),
	}
}

func passwordRules(message string) []validation.Rule {
	return []validation.Rule{
		validation.Required.Error(message),
		validation.Length(minPasswordLength, 0).Error(message),
		validation.By(maxBytes(MaxPasswordBytes, passwordTooLongMessage)),
	}
}

func minTrimmedLength(min int, message string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if len([]rune(strings.TrimSpace(s))) < min {
			return fmt.Errorf("%s", message)
		}
		return nil
	}
}

func maxBytes(max int, message string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if len(s) > max {
			return fmt.Errorf("%s", message)
		}
		return nil
	}
}

// toValidationError converts ozzo field errors into a ValidationError whose
// fields follow the given order. Every failing field is reported.
func toValidationError(err error, order ...string) error {
	if err == nil {
		return nil
	}

	errs, ok := err.(validation.Errors)
	if !ok {
		return NewValidationError([]FieldError{{Field: "body", Message: err.Error()}})
	}

	fields := make([]FieldError, 0, len(errs))
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		seen[name] = true
		if fieldErr, ok := errs[name]; ok && fieldErr != nil {
			fields = append(fields, FieldError{Field: name, Message: fieldErr.Error()})
		}
	}
	for name, fieldErr := range errs {
		if !seen[name] && fieldErr != nil {
			fields = append(fields, FieldError{Field: name, Message: fieldErr.Error()})
		}
	}

	return NewValidationError(fields)
}
