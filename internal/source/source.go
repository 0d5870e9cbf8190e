// SPDX-License-Identifier: MPL-2.0

package source

import (
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/flatpaker/flatpaker/pkg/checksum"
	"github.com/flatpaker/flatpaker/pkg/description"
	"github.com/flatpaker/flatpaker/pkg/manifest"
)

const (
	KindArchive Kind = "archive"
	KindFile    Kind = "file"
	KindPatch   Kind = "patch"

	// ExtraDir is the directory, relative to the primary module's build
	// directory, that loose files are staged in before engine rules move them.
	ExtraDir = "_flatpaker_extra"

	defaultArchiveStrip = 1
	defaultPatchStrip   = 1
)

var (
	// ErrNoSources is returned when a description has neither a sources
	// table nor positional archives.
	ErrNoSources = errors.New("no sources: description has no [sources] table and no archives were given")

	// ErrMissingSource is the sentinel error wrapped by MissingSourceError.
	ErrMissingSource = errors.New("source file missing")
)

type (
	// Kind is the kind of a resolved source.
	Kind string

	// Resolved is a normalized source entry with its content digest.
	Resolved struct {
		Kind            Kind
		Path            string
		SHA256          checksum.Digest
		StripComponents *int
		// Dest is the loose file's destination relative to the game directory.
		Dest string
	}

	// MissingSourceError is returned when a referenced source cannot be read.
	MissingSourceError struct {
		Kind Kind
		Path string
		Err  error
	}
)

// Resolve produces the ordered source list for a description.
//
// With a sources table: archives, then files, then patches, each in document
// order. Bare archives strip one component; patches default to one.
// Without a table: the positional archives, where only the first strips a
// component. defaultFileDest is used for loose files that declare no dest.
//
// Digests are computed here so that files changed after the description was
// loaded are caught.
func Resolve(sources *description.Sources, archives []string, defaultFileDest string) ([]Resolved, error) {
	if sources.Empty() {
		if len(archives) == 0 {
			return nil, ErrNoSources
		}
		return resolvePositional(archives)
	}

	out := make([]Resolved, 0, len(sources.Archives)+len(sources.Files)+len(sources.Patches))
	for _, e := range sources.Archives {
		r, err := resolveEntry(KindArchive, e, defaultArchiveStrip, "")
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	for _, e := range sources.Files {
		r, err := resolveEntry(KindFile, e, 0, defaultFileDest)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	for _, e := range sources.Patches {
		r, err := resolveEntry(KindPatch, e, defaultPatchStrip, "")
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func resolvePositional(archives []string) ([]Resolved, error) {
	out := make([]Resolved, 0, len(archives))
	for i, a := range archives {
		abs, err := filepath.Abs(a)
		if err != nil {
			return nil, fmt.Errorf("resolve archive path %s: %w", a, err)
		}
		strip := 0
		if i == 0 {
			strip = defaultArchiveStrip
		}
		r, err := resolveEntry(KindArchive, description.SourceEntry{Path: abs, StripComponents: &strip}, defaultArchiveStrip, "")
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func resolveEntry(kind Kind, e description.SourceEntry, defaultStrip int, defaultDest string) (Resolved, error) {
	digest, err := checksum.File(e.Path)
	if err != nil {
		return Resolved{}, &MissingSourceError{Kind: kind, Path: e.Path, Err: err}
	}

	r := Resolved{Kind: kind, Path: e.Path, SHA256: digest}
	switch kind {
	case KindFile:
		r.Dest = defaultDest
		if e.Dest != nil {
			r.Dest = path.Clean("/" + *e.Dest)[1:]
		}
	default:
		strip := defaultStrip
		if e.StripComponents != nil {
			strip = *e.StripComponents
		}
		r.StripComponents = &strip
	}

	slog.Debug("resolved source", "kind", kind, "path", r.Path, "sha256", r.SHA256)
	return r, nil
}

// Files returns the distinct destinations of the loose files in order of
// first appearance.
func Files(resolved []Resolved) []string {
	var dests []string
	seen := make(map[string]bool)
	for _, r := range resolved {
		if r.Kind != KindFile || seen[r.Dest] {
			continue
		}
		seen[r.Dest] = true
		dests = append(dests, r.Dest)
	}
	return dests
}

// ToManifest converts r to a manifest source. Loose files are staged under
// ExtraDir/<dest> of the module build directory.
func ToManifest(r Resolved) manifest.Source {
	s := manifest.Source{
		Type:   manifest.SourceType(r.Kind),
		Path:   r.Path,
		SHA256: r.SHA256.String(),
	}
	switch r.Kind {
	case KindFile:
		s.Dest = path.Join(ExtraDir, r.Dest)
	default:
		s.StripComponents = r.StripComponents
	}
	return s
}

// ToManifestAll converts every resolved source in order.
func ToManifestAll(resolved []Resolved) []manifest.Source {
	out := make([]manifest.Source, len(resolved))
	for i, r := range resolved {
		out[i] = ToManifest(r)
	}
	return out
}

// Error implements the error interface for MissingSourceError.
func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("%s source %s: %v", e.Kind, e.Path, e.Err)
}

// Unwrap returns the sentinel and the underlying cause so that both
// errors.Is(err, ErrMissingSource) and errors.Is(err, fs.ErrNotExist) hold.
func (e *MissingSourceError) Unwrap() []error { return []error{ErrMissingSource, e.Err} }
