// Package contact validates the site's contact form and models its
// submission lifecycle. There is no delivery: a submission only waits,
// reports success, and returns to idle.
package contact

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Form field names.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldMessage = "message"
)

const (
	minNameLen    = 2
	minMessageLen = 10
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Form is a contact form as submitted.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// FieldErrors maps a field name to its error message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[k]))
	}
	return "invalid contact form: " + strings.Join(parts, "; ")
}

// ErrUnknownField is returned by ValidateField for a field the form does not have.
var ErrUnknownField = errors.New("unknown contact field")

// Validate checks every field and returns nil when the form is valid.
func Validate(f Form) FieldErrors {
	errs := FieldErrors{}
	for field, value := range map[string]string{
		FieldName:    f.Name,
		FieldEmail:   f.Email,
		FieldMessage: f.Message,
	} {
		if msg, _ := ValidateField(field, value); msg != "" {
			errs[field] = msg
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateField checks a single field, as done when the field loses focus.
// It returns an empty message when the value is acceptable.
func ValidateField(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	switch field {
	case FieldName:
		if value == "" {
			return "Name is required", nil
		}
		if utf8.RuneCountInString(value) < minNameLen {
			return fmt.Sprintf("Name must be at least %d characters", minNameLen), nil
		}
	case FieldEmail:
		if value == "" {
			return "Email is required", nil
		}
		if !emailPattern.MatchString(value) {
			return "Please enter a valid email address", nil
		}
	case FieldMessage:
		if value == "" {
			return "Message is required", nil
		}
		if utf8.RuneCountInString(value) < minMessageLen {
			return fmt.Sprintf("Message must be at least %d characters", minMessageLen), nil
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return "", nil
}

// Normalize returns f with surrounding whitespace removed from every field.
func Normalize(f Form) Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Message: strings.TrimSpace(f.Message),
	}
}
