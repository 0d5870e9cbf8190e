// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	// FormatJSON writes <appid>.json.
	FormatJSON Format = "json"
	// FormatYAML writes <appid>.yml.
	FormatYAML Format = "yaml"

	// BuildSystemSimple is the only build system generated modules use.
	BuildSystemSimple = "simple"

	SourceArchive SourceType = "archive"
	SourceFile    SourceType = "file"
	SourcePatch   SourceType = "patch"
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid manifest format")

type (
	// Format selects the manifest serialization.
	Format string

	// SourceType is the flatpak-builder source type.
	SourceType string

	// InvalidFormatError is returned when a Format value is not recognized.
	InvalidFormatError struct {
		Value Format
	}

	// Manifest is a complete flatpak-builder application manifest.
	Manifest struct {
		SDK            string       `json:"sdk" yaml:"sdk"`
		Runtime        string       `json:"runtime" yaml:"runtime"`
		RuntimeVersion string       `json:"runtime-version" yaml:"runtime-version"`
		ID             string       `json:"id" yaml:"id"`
		BuildOptions   BuildOptions `json:"build-options" yaml:"build-options"`
		Command        string       `json:"command" yaml:"command"`
		FinishArgs     []string     `json:"finish-args" yaml:"finish-args"`
		Modules        []Module     `json:"modules" yaml:"modules"`
	}

	// BuildOptions are the manifest-wide build options.
	BuildOptions struct {
		NoDebuginfo bool `json:"no-debuginfo" yaml:"no-debuginfo"`
		Strip       bool `json:"strip" yaml:"strip"`
	}

	// Module is one build unit of the manifest.
	Module struct {
		BuildSystem   string   `json:"buildsystem" yaml:"buildsystem"`
		Name          string   `json:"name" yaml:"name"`
		Sources       []Source `json:"sources" yaml:"sources"`
		BuildCommands []string `json:"build-commands" yaml:"build-commands"`
		Cleanup       []string `json:"cleanup,omitempty" yaml:"cleanup,omitempty"`
	}

	// Source is a local file, archive or patch consumed by a module.
	Source struct {
		Type            SourceType `json:"type" yaml:"type"`
		Path            string     `json:"path" yaml:"path"`
		SHA256          string     `json:"sha256" yaml:"sha256"`
		StripComponents *int       `json:"strip-components,omitempty" yaml:"strip-components,omitempty"`
		Dest            string     `json:"dest,omitempty" yaml:"dest,omitempty"`
	}
)

// NewModule returns a simple-buildsystem module with non-nil slices.
func NewModule(name string, sources []Source, commands ...string) Module {
	if sources == nil {
		sources = []Source{}
	}
	return Module{
		BuildSystem:   BuildSystemSimple,
		Name:          name,
		Sources:       sources,
		BuildCommands: commands,
	}
}

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

// IsValid returns whether the Format is json or yaml.
func (f Format) IsValid() (bool, []error) {
	switch f {
	case FormatJSON, FormatYAML:
		return true, nil
	default:
		return false, []error{&InvalidFormatError{Value: f}}
	}
}

// Extension returns the file extension flatpak-builder recognizes for f.
func (f Format) Extension() string {
	if f == FormatYAML {
		return ".yml"
	}
	return ".json"
}

// Error implements the error interface for InvalidFormatError.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid manifest format %q (valid: json, yaml)", e.Value)
}

// Unwrap returns ErrInvalidFormat for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// Filename returns the manifest file name for the given application ID.
func Filename(appID string, f Format) string {
	return appID + f.Extension()
}

// Encode serializes m in the requested format. Output is deterministic:
// fields appear in struct order and nil module source lists encode as [].
func Encode(m Manifest, f Format) ([]byte, error) {
	if ok, errs := f.IsValid(); !ok {
		return nil, errs[0]
	}
	m = m.normalized()

	if f == FormatYAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return nil, fmt.Errorf("encode manifest %s: %w", m.ID, err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode manifest %s: %w", m.ID, err)
		}
		return buf.Bytes(), nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode manifest %s: %w", m.ID, err)
	}
	return buf.Bytes(), nil
}

func (m Manifest) normalized() Manifest {
	if m.FinishArgs == nil {
		m.FinishArgs = []string{}
	}
	mods := make([]Module, len(m.Modules))
	for i, mod := range m.Modules {
		if mod.Sources == nil {
			mod.Sources = []Source{}
		}
		if mod.BuildCommands == nil {
			mod.BuildCommands = []string{}
		}
		mods[i] = mod
	}
	m.Modules = mods
	return m
}
