// SPDX-License-Identifier: MPL-2.0

package description

import (
	"errors"
	"fmt"
)

const (
	// EngineRenPy selects the Ren'Py rule generator.
	EngineRenPy Engine = "renpy"
	// EngineRPGMaker selects the RPGMaker MV/MZ rule generator.
	EngineRPGMaker Engine = "rpgmaker"

	IntensityNone     Intensity = "none"
	IntensityMild     Intensity = "mild"
	IntensityModerate Intensity = "moderate"
	IntensityIntense  Intensity = "intense"

	// DefaultLicense is the project license used when appdata.license is absent.
	DefaultLicense = "LicenseRef-Proprietary"
)

var (
	// ErrInvalidEngine is the sentinel error wrapped by InvalidEngineError.
	ErrInvalidEngine = errors.New("invalid engine")

	// ErrInvalidIntensity is the sentinel error wrapped by InvalidIntensityError.
	ErrInvalidIntensity = errors.New("invalid content rating intensity")
)

type (
	// Engine identifies the game engine a description targets.
	Engine string

	// Intensity is an OARS content rating value.
	Intensity string

	// InvalidEngineError is returned when an Engine value is not recognized.
	InvalidEngineError struct {
		Value Engine
	}

	// InvalidIntensityError is returned when an Intensity value is not recognized.
	InvalidIntensityError struct {
		Value Intensity
	}

	// Description is a loaded, path-normalized game description.
	// It must not be modified after Load returns it.
	Description struct {
		Common      Common       `json:"common"`
		AppData     AppData      `json:"appdata"`
		Workarounds *Workarounds `json:"workarounds,omitempty"`
		Sources     *Sources     `json:"sources,omitempty"`

		// Path is the absolute path of the file the description was loaded from.
		Path string `json:"-"`
	}

	// Common holds the identity and classification of the game.
	Common struct {
		ReverseURL string   `json:"reverse_url"`
		Name       string   `json:"name"`
		Categories []string `json:"categories"`
		Engine     Engine   `json:"engine"`
		// Icon is an optional external icon file, absolute after Load.
		Icon string `json:"icon,omitempty"`
	}

	// AppData holds the AppStream metadata fields.
	AppData struct {
		Summary       string               `json:"summary"`
		Description   string               `json:"description,omitempty"`
		License       string               `json:"license,omitempty"`
		ContentRating map[string]Intensity `json:"content_rating,omitempty"`
		// Releases maps version to a YYYY-MM-DD date.
		Releases map[string]string `json:"releases,omitempty"`
	}

	// Workarounds holds per-game switches. A nil field means "not set".
	Workarounds struct {
		Icon       *bool `json:"icon,omitempty"`
		IconIsWebP *bool `json:"icon_is_webp,omitempty"`
		UseX11     *bool `json:"use_x11,omitempty"`
		// NoWayland is the legacy spelling of UseX11.
		NoWayland *bool `json:"no_wayland,omitempty"`
	}
)

// String returns the string representation of the Engine.
func (e Engine) String() string { return string(e) }

// IsValid returns whether the Engine is one of the defined engines,
// and a list of validation errors if it is not.
func (e Engine) IsValid() (bool, []error) {
	switch e {
	case EngineRenPy, EngineRPGMaker:
		return true, nil
	default:
		return false, []error{&InvalidEngineError{Value: e}}
	}
}

// Error implements the error interface for InvalidEngineError.
func (e *InvalidEngineError) Error() string {
	return fmt.Sprintf("invalid engine %q (valid: renpy, rpgmaker)", e.Value)
}

// Unwrap returns ErrInvalidEngine for errors.Is() compatibility.
func (e *InvalidEngineError) Unwrap() error { return ErrInvalidEngine }

// String returns the string representation of the Intensity.
func (i Intensity) String() string { return string(i) }

// IsValid returns whether the Intensity is one of the OARS values.
func (i Intensity) IsValid() (bool, []error) {
	switch i {
	case IntensityNone, IntensityMild, IntensityModerate, IntensityIntense:
		return true, nil
	default:
		return false, []error{&InvalidIntensityError{Value: i}}
	}
}

// Error implements the error interface for InvalidIntensityError.
func (e *InvalidIntensityError) Error() string {
	return fmt.Sprintf("invalid content rating intensity %q (valid: none, mild, moderate, intense)", e.Value)
}

// Unwrap returns ErrInvalidIntensity for errors.Is() compatibility.
func (e *InvalidIntensityError) Unwrap() error { return ErrInvalidIntensity }

// ProjectLicense returns the declared license or DefaultLicense.
func (a AppData) ProjectLicense() string {
	if a.License == "" {
		return DefaultLicense
	}
	return a.License
}

// LongDescription returns the description paragraph, falling back to the summary.
func (a AppData) LongDescription() string {
	if a.Description == "" {
		return a.Summary
	}
	return a.Description
}

// IconEnabled reports whether the game ships an icon. Absent means true.
// Safe to call on a nil receiver.
func (w *Workarounds) IconEnabled() bool {
	if w == nil || w.Icon == nil {
		return true
	}
	return *w.Icon
}

// IconWebP returns the declared icon_is_webp value and whether it was set.
// When unset the generated build commands probe the format at build time.
func (w *Workarounds) IconWebP() (value, set bool) {
	if w == nil || w.IconIsWebP == nil {
		return false, false
	}
	return *w.IconIsWebP, true
}

// X11 reports whether the game should run under X11 instead of Wayland.
// use_x11 takes precedence over no_wayland; when neither is set the engine's
// default is returned.
func (w *Workarounds) X11(defaultValue bool) bool {
	switch {
	case w == nil:
		return defaultValue
	case w.UseX11 != nil:
		return *w.UseX11
	case w.NoWayland != nil:
		return *w.NoWayland
	default:
		return defaultValue
	}
}

// Validate checks the invariants the schema cannot express.
func (d *Description) Validate() error {
	var errs []error
	if ok, engineErrs := d.Common.Engine.IsValid(); !ok {
		errs = append(errs, engineErrs...)
	}
	for _, i := range d.AppData.ContentRating {
		if ok, iErrs := i.IsValid(); !ok {
			errs = append(errs, iErrs...)
		}
	}
	if d.Sources != nil {
		errs = append(errs, d.Sources.validate()...)
	}
	if len(errs) > 0 {
		return &InvalidDescriptionError{Path: d.Path, FieldErrors: errs}
	}
	return nil
}
