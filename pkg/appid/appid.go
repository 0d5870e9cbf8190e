// SPDX-License-Identifier: MPL-2.0

package appid

import (
	"errors"
	"fmt"
	"strings"
)

// MaxLength is the longest application ID Flatpak accepts.
const MaxLength = 255

// minElements is the minimum number of dot-separated ID elements.
const minElements = 3

// ErrInvalidAppID is the sentinel error wrapped by InvalidAppIDError.
var ErrInvalidAppID = errors.New("invalid application ID")

// sanitizer holds the historical replacement set. Existing published IDs
// depend on it, so entries may be added but never changed.
var sanitizer = strings.NewReplacer(
	" ", "_",
	":", "",
	"&", "_",
	"'", "",
)

type (
	// AppID is a reverse-DNS Flatpak application identifier.
	AppID string

	// InvalidAppIDError is returned when a derived ID violates Flatpak's
	// application ID rules.
	InvalidAppIDError struct {
		Value  AppID
		Reason string
	}
)

// Sanitize maps a human-readable name to an identifier-safe token.
// Spaces and ampersands become underscores; colons and apostrophes are removed.
// Sanitize is idempotent.
func Sanitize(name string) string {
	return sanitizer.Replace(name)
}

// New builds the application ID for reverseURL and name and validates it.
func New(reverseURL, name string) (AppID, error) {
	id := AppID(reverseURL + "." + Sanitize(name))
	if ok, errs := id.IsValid(); !ok {
		return "", errs[0]
	}
	return id, nil
}

// String returns the string representation of the AppID.
func (id AppID) String() string { return string(id) }

// IsValid returns whether the AppID satisfies Flatpak's naming rules:
// at least three non-empty elements of [A-Za-z0-9_-], none starting with a
// digit, and at most MaxLength bytes overall.
func (id AppID) IsValid() (bool, []error) {
	s := string(id)
	if len(s) > MaxLength {
		return false, []error{&InvalidAppIDError{Value: id, Reason: fmt.Sprintf("longer than %d characters", MaxLength)}}
	}
	elems := strings.Split(s, ".")
	if len(elems) < minElements {
		return false, []error{&InvalidAppIDError{Value: id, Reason: fmt.Sprintf("needs at least %d elements", minElements)}}
	}
	for _, e := range elems {
		if reason := checkElement(e); reason != "" {
			return false, []error{&InvalidAppIDError{Value: id, Reason: reason}}
		}
	}
	return true, nil
}

func checkElement(e string) string {
	if e == "" {
		return "contains an empty element"
	}
	if e[0] >= '0' && e[0] <= '9' {
		return fmt.Sprintf("element %q starts with a digit", e)
	}
	for _, r := range e {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return fmt.Sprintf("element %q contains %q", e, r)
		}
	}
	return ""
}

// Error implements the error interface for InvalidAppIDError.
func (e *InvalidAppIDError) Error() string {
	return fmt.Sprintf("invalid application ID %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidAppID for errors.Is() compatibility.
func (e *InvalidAppIDError) Unwrap() error { return ErrInvalidAppID }
