package placer

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Sentinel errors returned by the placer. Match them with errors.Is.
var (
	ErrInvalidInput      = errors.New("placer: invalid input")
	ErrInvalidDeadline   = errors.New("placer: invalid deadline")
	ErrCapacityExhausted = errors.New("placer: no free slot before deadline")
	ErrNotFound          = errors.New("placer: task not found")
	ErrStoreUnavailable  = errors.New("placer: task store unavailable")
	ErrSlotTaken         = errors.New("placer: slot already taken")
)

// ValidationError captures per-field request problems.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil || len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for f := range v.FieldErrors {
		fields = append(fields, f)
	}
	slices.Sort(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v.FieldErrors[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrInvalidInput) match any validation error.
func (v *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// Field returns the message recorded for field, if any.
func (v *ValidationError) Field(field string) (string, bool) {
	if v == nil {
		return "", false
	}
	msg, ok := v.FieldErrors[field]
	return msg, ok
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// ErrorKind maps sentinel and validation errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}

	switch {
	case errors.Is(err, ErrInvalidDeadline):
		return "invalid_deadline"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrCapacityExhausted):
		return "capacity_exhausted"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrSlotTaken):
		return "slot_taken"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	}

	return "unexpected"
}
