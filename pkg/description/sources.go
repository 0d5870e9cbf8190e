// SPDX-License-Identifier: MPL-2.0

package description

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidSourceEntry is the sentinel error wrapped by InvalidSourceEntryError.
var ErrInvalidSourceEntry = errors.New("invalid source entry")

type (
	// Sources is the optional sources table of a description.
	Sources struct {
		Archives []SourceEntry `json:"archives,omitempty"`
		Files    []SourceEntry `json:"files,omitempty"`
		Patches  []SourceEntry `json:"patches,omitempty"`
	}

	// SourceEntry is one archive, file or patch. It decodes from either a bare
	// path string or an object carrying the path and per-entry options.
	SourceEntry struct {
		Path string `json:"path"`
		// StripComponents overrides the per-kind default when set.
		StripComponents *int `json:"strip_components,omitempty"`
		// Dest is the destination sub-path of a loose file, relative to the
		// installed game directory. Nil selects the engine default.
		Dest *string `json:"dest,omitempty"`
	}

	// InvalidSourceEntryError is returned when a source entry is malformed.
	InvalidSourceEntryError struct {
		Kind   string
		Index  int
		Reason string
	}
)

// UnmarshalJSON accepts either "path" or {"path": ..., ...}.
func (s *SourceEntry) UnmarshalJSON(data []byte) error {
	var path string
	if err := json.Unmarshal(data, &path); err == nil {
		*s = SourceEntry{Path: path}
		return nil
	}

	type plain SourceEntry
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("source entry must be a path or an object with a path: %w", err)
	}
	*s = SourceEntry(obj)
	return nil
}

// IsBare reports whether the entry carries no per-entry options.
func (s SourceEntry) IsBare() bool {
	return s.StripComponents == nil && s.Dest == nil
}

// Empty reports whether the table lists no sources at all.
func (s *Sources) Empty() bool {
	return s == nil || len(s.Archives)+len(s.Files)+len(s.Patches) == 0
}

func (s *Sources) validate() []error {
	var errs []error
	check := func(kind string, entries []SourceEntry) {
		for i, e := range entries {
			switch {
			case e.Path == "":
				errs = append(errs, &InvalidSourceEntryError{Kind: kind, Index: i, Reason: "path is empty"})
			case e.StripComponents != nil && *e.StripComponents < 0:
				errs = append(errs, &InvalidSourceEntryError{Kind: kind, Index: i, Reason: "strip_components is negative"})
			}
		}
	}
	check("archives", s.Archives)
	check("files", s.Files)
	check("patches", s.Patches)
	return errs
}

// Error implements the error interface for InvalidSourceEntryError.
func (e *InvalidSourceEntryError) Error() string {
	return fmt.Sprintf("sources.%s[%d]: %s", e.Kind, e.Index, e.Reason)
}

// Unwrap returns ErrInvalidSourceEntry for errors.Is() compatibility.
func (e *InvalidSourceEntryError) Unwrap() error { return ErrInvalidSourceEntry }
