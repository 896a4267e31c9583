// Package apperr holds the error taxonomy shared by the calendar engine.
// Callers match with errors.Is against the sentinels below.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrBackend    = errors.New("backend failure")
)

// ValidationError names the offending input so it can be shown to the user verbatim.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Msg }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func Validation(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }

func NotFound(kind, id string) error { return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound) }

// Backend wraps a persistence failure. The cause stays reachable through errors.Is/As.
func Backend(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrBackend, err)
}

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsBackend(err error) bool    { return errors.Is(err, ErrBackend) }
