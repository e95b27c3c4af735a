package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate checks the list invariants of a document: every service, project
// and testimonial has a non-empty id that is unique within its list.
// It returns a *ValidationError if any rules fail, or nil if the document is valid.
func Validate(d *SiteDocument) error {
	var ve ValidationError

	services := make([]string, len(d.Services))
	for i, s := range d.Services {
		services[i] = s.ID
	}
	checkIDs(&ve, "services", services)

	projects := make([]string, len(d.Projects))
	for i, p := range d.Projects {
		projects[i] = p.ID
	}
	checkIDs(&ve, "projects", projects)

	testimonials := make([]string, len(d.Testimonials))
	for i, t := range d.Testimonials {
		testimonials[i] = t.ID
	}
	checkIDs(&ve, "testimonials", testimonials)

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

func checkIDs(ve *ValidationError, list string, ids []string) {
	seen := make(map[string]int, len(ids))
	for i, id := range ids {
		field := fmt.Sprintf("%s[%d].id", list, i)
		if strings.TrimSpace(id) == "" {
			ve.add(field, "is required")
			continue
		}
		if first, dup := seen[id]; dup {
			ve.add(field, "duplicates %s[%d].id %q", list, first, id)
			continue
		}
		seen[id] = i
	}
}
