// SPDX-License-Identifier: MPL-2.0

package description

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDescriptionNotFound is returned when the description file does not exist.
	ErrDescriptionNotFound = errors.New("description not found")

	// ErrInvalidDescription is the sentinel error wrapped by InvalidDescriptionError.
	ErrInvalidDescription = errors.New("invalid description")

	// ErrUnsupportedFormat is returned for description files that are neither TOML nor CUE.
	ErrUnsupportedFormat = errors.New("unsupported description format")
)

// InvalidDescriptionError is returned when a description fails schema or
// semantic validation. It collects every field-level error found.
type InvalidDescriptionError struct {
	Path        string
	FieldErrors []error
}

// Error implements the error interface for InvalidDescriptionError.
func (e *InvalidDescriptionError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, fe := range e.FieldErrors {
		msgs[i] = fe.Error()
	}
	if len(msgs) == 1 {
		return fmt.Sprintf("invalid description %s: %s", e.Path, msgs[0])
	}
	return fmt.Sprintf("invalid description %s:\n  %s", e.Path, strings.Join(msgs, "\n  "))
}

// Unwrap returns ErrInvalidDescription for errors.Is() compatibility.
func (e *InvalidDescriptionError) Unwrap() error { return ErrInvalidDescription }
