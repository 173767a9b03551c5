package model

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes returned to callers of the assignment and lookup operations
const (
	CodeShiftNotFound        = "shift_not_found"
	CodeCaregiverNotFound    = "caregiver_not_found"
	CodeShiftNotOpen         = "shift_not_open"
	CodeCaregiverNotEligible = "caregiver_not_eligible"
	CodeValidation           = "validation_error"
	CodeParse                = "parse_error"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrParse                = errors.New("parse failed")
	ErrShiftNotFound        = errors.New("shift not found")
	ErrCaregiverNotFound    = errors.New("caregiver not found")
	ErrShiftNotOpen         = errors.New("shift not open")
	ErrCaregiverNotEligible = errors.New("caregiver not eligible for shift")
)

// ValidationError is returned when a domain record or request argument is malformed
type ValidationError struct {
	Entity   string
	ID       string
	Problems []string
}

func (e *ValidationError) Error() string {
	subject := e.Entity
	if e.ID != "" {
		subject = fmt.Sprintf("%s %q", e.Entity, e.ID)
	}
	return fmt.Sprintf("invalid %s: %s", subject, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ParseError is returned when a timestamp argument cannot be parsed
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// NotFoundError identifies a missing shift or caregiver
type NotFoundError struct {
	Code string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	if e.Code == CodeCaregiverNotFound {
		return ErrCaregiverNotFound
	}
	return ErrShiftNotFound
}

// ConflictError is returned when a shift is no longer open, including
// commits that lost a race at the store
type ConflictError struct {
	ShiftID string
	Status  ShiftStatus
}

func (e *ConflictError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("%s: %s changed concurrently", CodeShiftNotOpen, e.ShiftID)
	}
	return fmt.Sprintf("%s: %s is %s", CodeShiftNotOpen, e.ShiftID, e.Status)
}

func (e *ConflictError) Unwrap() error {
	return ErrShiftNotOpen
}

// EligibilityError is returned when a caregiver fails a hard constraint at commit time
type EligibilityError struct {
	ShiftID     string
	CaregiverID string
	Criterion   string
}

func (e *EligibilityError) Error() string {
	return fmt.Sprintf("%s: %s fails %s for %s", CodeCaregiverNotEligible, e.CaregiverID, e.Criterion, e.ShiftID)
}

func (e *EligibilityError) Unwrap() error {
	return ErrCaregiverNotEligible
}

// ErrorCode maps an error from this package to its wire code.
// Returns an empty string for errors outside the taxonomy.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrShiftNotFound):
		return CodeShiftNotFound
	case errors.Is(err, ErrCaregiverNotFound):
		return CodeCaregiverNotFound
	case errors.Is(err, ErrShiftNotOpen):
		return CodeShiftNotOpen
	case errors.Is(err, ErrCaregiverNotEligible):
		return CodeCaregiverNotEligible
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrParse):
		return CodeParse
	}
	return ""
}

// IsNotFound returns true if the error refers to a missing shift or caregiver
func IsNotFound(err error) bool {
	return errors.Is(err, ErrShiftNotFound) || errors.Is(err, ErrCaregiverNotFound)
}

// IsClientError returns true if the error was caused by the caller's input
func IsClientError(err error) bool {
	return ErrorCode(err) != ""
}
