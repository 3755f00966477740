package model

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

// ValidationError holds a list of field-level validation errors. It is
// produced before any request is sent and never reaches the server.
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

// Add appends a field error.
func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

// Err returns e when it holds errors and nil otherwise, so callers can
// write `return ve.Err()`.
func (e *ValidationError) Err() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// RequireFields checks that every named field of a request body is present
// and not blank.
func RequireFields(body map[string]any, fields ...string) error {
	var ve ValidationError
	for _, f := range fields {
		v, ok := body[f]
		if !ok || v == nil {
			ve.Add(f, "is required")
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			ve.Add(f, "is required")
		}
	}
	return ve.Err()
}

// ValidateEmployeeBody checks a create/update body for an employee.
// When partial is true only the fields that are present are checked.
func ValidateEmployeeBody(body map[string]any, partial bool) error {
	var ve ValidationError
	if !partial {
		if err := RequireFields(body, "firstName", "lastName", "email", "role"); err != nil {
			ve.Errors = append(ve.Errors, err.(*ValidationError).Errors...)
		}
	}
	if v, ok := body["email"].(string); ok && v != "" {
		if _, err := mail.ParseAddress(v); err != nil {
			ve.Add("email", fmt.Sprintf("invalid address %q", v))
		}
	}
	if v, ok := body["role"].(string); ok && v != "" && !Role(v).IsValid() {
		ve.Add("role", fmt.Sprintf("invalid value %q", v))
	}
	if v, ok := body["status"].(string); ok && v != "" && !EmployeeStatus(v).IsValid() {
		ve.Add("status", fmt.Sprintf("invalid value %q", v))
	}
	return ve.Err()
}

// ValidatePasswordChange checks a password change form.
func ValidatePasswordChange(current, next, confirm string) error {
	var ve ValidationError
	if current == "" {
		ve.Add("currentPassword", "is required")
	}
	switch {
	case len(next) < 8:
		ve.Add("newPassword", "must be at least 8 characters")
	case next == current:
		ve.Add("newPassword", "must differ from the current password")
	}
	if next != confirm {
		ve.Add("confirmPassword", "does not match the new password")
	}
	return ve.Err()
}

var clockRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidateShiftTimes checks "HH:MM" start and end times of a work shift.
// Overnight shifts (end before start) are allowed; equal times are not.
func ValidateShiftTimes(start, end string) error {
	var ve ValidationError
	if !clockRe.MatchString(start) {
		ve.Add("startTime", fmt.Sprintf("must be HH:MM, got %q", start))
	}
	if !clockRe.MatchString(end) {
		ve.Add("endTime", fmt.Sprintf("must be HH:MM, got %q", end))
	}
	if !ve.HasErrors() && start == end {
		ve.Add("endTime", "must differ from startTime")
	}
	return ve.Err()
}

// ValidateDateRange checks a leave period given as YYYY-MM-DD strings.
func ValidateDateRange(start, end string) error {
	var ve ValidationError
	s, errS := time.Parse(time.DateOnly, start)
	if errS != nil {
		ve.Add("startDate", fmt.Sprintf("must be YYYY-MM-DD, got %q", start))
	}
	e, errE := time.Parse(time.DateOnly, end)
	if errE != nil {
		ve.Add("endDate", fmt.Sprintf("must be YYYY-MM-DD, got %q", end))
	}
	if errS == nil && errE == nil && e.Before(s) {
		ve.Add("endDate", "must not be before startDate")
	}
	return ve.Err()
}
