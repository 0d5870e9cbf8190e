// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flatpaker/flatpaker/internal/compiler"
	"github.com/flatpaker/flatpaker/internal/paths"
	"github.com/flatpaker/flatpaker/pkg/manifest"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultRepo is the OSTree repository exported builds land in.
	DefaultRepo = "repo"
	// DefaultBaseVersion is the freedesktop runtime branch install-deps installs.
	DefaultBaseVersion = "23.08"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidDirPath is returned when a directory override is whitespace-only.
	ErrInvalidDirPath = errors.New("invalid directory path")
	// ErrInvalidRuntimeConfig is the sentinel error wrapped by InvalidRuntimeConfigError.
	ErrInvalidRuntimeConfig = errors.New("invalid runtime config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// DirPath is an optional directory override. The zero value ("") means
	// "use the platform default"; non-zero values must not be whitespace-only.
	DirPath string

	// InvalidDirPathError is returned when a DirPath is whitespace-only.
	InvalidDirPathError struct {
		Field string
		Value DirPath
	}

	// InvalidRuntimeConfigError is returned when a RuntimeConfig has invalid fields.
	InvalidRuntimeConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Repo is the OSTree repository for --export and --static-deltas.
		Repo string `json:"repo" mapstructure:"repo"`
		// GPGKey signs exported commits and static deltas when set.
		GPGKey string `json:"gpg_key" mapstructure:"gpg_key"`
		// StateDir overrides the flatpak-builder state directory.
		StateDir DirPath `json:"state_dir" mapstructure:"state_dir"`
		// LogDir overrides where builder logs are written.
		LogDir DirPath `json:"log_dir" mapstructure:"log_dir"`
		// ManifestFormat selects JSON or YAML manifests.
		ManifestFormat manifest.Format `json:"manifest_format" mapstructure:"manifest_format"`
		// Runtime configures the SDK and platform manifests build against.
		Runtime RuntimeConfig `json:"runtime" mapstructure:"runtime"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// RuntimeConfig names the SDK/platform pair and the install-deps inputs.
	RuntimeConfig struct {
		SDK      string `json:"sdk" mapstructure:"sdk"`
		Platform string `json:"platform" mapstructure:"platform"`
		Version  string `json:"version" mapstructure:"version"`
		// BaseVersion is the org.freedesktop branch the custom SDK builds on.
		BaseVersion string `json:"base_version" mapstructure:"base_version"`
		// SDKManifests are built, in order, by install-deps.
		SDKManifests []string `json:"sdk_manifests" mapstructure:"sdk_manifests"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// String returns the string representation of the DirPath.
func (p DirPath) String() string { return string(p) }

// Or returns p, or fallback when p is unset.
func (p DirPath) Or(fallback string) string {
	if p == "" {
		return fallback
	}
	return string(p)
}

func (p DirPath) validate(field string) []error {
	if p != "" && strings.TrimSpace(string(p)) == "" {
		return []error{&InvalidDirPathError{Field: field, Value: p}}
	}
	return nil
}

// Error implements the error interface for InvalidDirPathError.
func (e *InvalidDirPathError) Error() string {
	return fmt.Sprintf("%s: directory path %q is whitespace-only", e.Field, e.Value)
}

// Unwrap returns ErrInvalidDirPath for errors.Is() compatibility.
func (e *InvalidDirPathError) Unwrap() error { return ErrInvalidDirPath }

// IsValid returns whether every runtime identifier is set.
func (c RuntimeConfig) IsValid() (bool, []error) {
	var errs []error
	required := []struct{ field, value string }{
		{"runtime.sdk", c.SDK},
		{"runtime.platform", c.Platform},
		{"runtime.version", c.Version},
		{"runtime.base_version", c.BaseVersion},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", r.field))
		}
	}
	for i, m := range c.SDKManifests {
		if strings.TrimSpace(m) == "" {
			errs = append(errs, fmt.Errorf("runtime.sdk_manifests[%d] must not be empty", i))
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidRuntimeConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidRuntimeConfigError.
func (e *InvalidRuntimeConfigError) Error() string {
	return fmt.Sprintf("invalid runtime config: %s", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidRuntimeConfig for errors.Is() compatibility.
func (e *InvalidRuntimeConfigError) Unwrap() error { return ErrInvalidRuntimeConfig }

// IsValid returns whether the Config has valid fields, delegating to each
// sub-component.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.Repo) == "" {
		errs = append(errs, errors.New("repo must not be empty"))
	}
	errs = append(errs, c.StateDir.validate("state_dir")...)
	errs = append(errs, c.LogDir.validate("log_dir")...)
	if valid, fieldErrs := c.ManifestFormat.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Runtime.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s): %s", len(e.FieldErrors), errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// ResolvedStateDir returns the flatpak-builder state directory.
func (c *Config) ResolvedStateDir() string {
	return c.StateDir.Or(paths.BuilderState())
}

// ResolvedLogDir returns the directory builder logs are written to.
func (c *Config) ResolvedLogDir() string {
	return c.LogDir.Or(paths.Logs())
}

// CompilerRuntime converts the runtime section for the manifest compiler.
func (c *Config) CompilerRuntime() compiler.Runtime {
	return compiler.Runtime{SDK: c.Runtime.SDK, Runtime: c.Runtime.Platform, Version: c.Runtime.Version}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	def := compiler.DefaultRuntimeIDs()
	return &Config{
		Repo:           DefaultRepo,
		ManifestFormat: manifest.FormatJSON,
		Runtime: RuntimeConfig{
			SDK:          def.SDK,
			Platform:     def.Runtime,
			Version:      def.Version,
			BaseVersion:  DefaultBaseVersion,
			SDKManifests: []string{},
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
