package service

import (
	"fmt"
	"sort"
	"strings"
)

// FieldErrors carries per-field validation messages. Handlers surface it
// as a 400 with the field map in the body.
type FieldErrors map[string]string

// Error implements the error interface.
func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// requirePositive records an error when v is not strictly positive.
func (e FieldErrors) requirePositive(field string, v float64) {
	if !(v > 0) {
		e[field] = "must be a positive number"
	}
}

// orNil returns the map as an error, or nil when no field failed.
func (e FieldErrors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
