// SPDX-License-Identifier: MPL-2.0

package description

import (
	"errors"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func TestEngine_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		engine Engine
		want   bool
	}{
		{EngineRenPy, true},
		{EngineRPGMaker, true},
		{"godot", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.engine), func(t *testing.T) {
			t.Parallel()
			ok, errs := tt.engine.IsValid()
			if ok != tt.want {
				t.Fatalf("IsValid() = %v, want %v", ok, tt.want)
			}
			if !ok && !errors.Is(errs[0], ErrInvalidEngine) {
				t.Errorf("error should wrap ErrInvalidEngine, got %v", errs[0])
			}
		})
	}
}

func TestIntensity_IsValid(t *testing.T) {
	t.Parallel()

	for _, i := range []Intensity{IntensityNone, IntensityMild, IntensityModerate, IntensityIntense} {
		if ok, _ := i.IsValid(); !ok {
			t.Errorf("%q should be valid", i)
		}
	}
	ok, errs := Intensity("extreme").IsValid()
	if ok {
		t.Fatal("extreme should be invalid")
	}
	if !errors.Is(errs[0], ErrInvalidIntensity) {
		t.Errorf("error should wrap ErrInvalidIntensity, got %v", errs[0])
	}
}

func TestWorkarounds_Defaults(t *testing.T) {
	t.Parallel()

	var nilW *Workarounds
	if !nilW.IconEnabled() {
		t.Error("nil workarounds should enable the icon")
	}
	if _, set := nilW.IconWebP(); set {
		t.Error("nil workarounds should leave icon_is_webp unset")
	}
	if !nilW.X11(true) || nilW.X11(false) {
		t.Error("nil workarounds should return the engine default")
	}

	w := &Workarounds{Icon: boolPtr(false), IconIsWebP: boolPtr(false)}
	if w.IconEnabled() {
		t.Error("explicit icon=false should disable the icon")
	}
	if v, set := w.IconWebP(); !set || v {
		t.Errorf("IconWebP() = (%v, %v), want (false, true)", v, set)
	}
}

func TestWorkarounds_X11(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		w         *Workarounds
		def, want bool
	}{
		{"unset uses default true", &Workarounds{}, true, true},
		{"unset uses default false", &Workarounds{}, false, false},
		{"use_x11 false", &Workarounds{UseX11: boolPtr(false)}, true, false},
		{"use_x11 true", &Workarounds{UseX11: boolPtr(true)}, false, true},
		{"no_wayland alias", &Workarounds{NoWayland: boolPtr(true)}, false, true},
		{"use_x11 beats no_wayland", &Workarounds{UseX11: boolPtr(false), NoWayland: boolPtr(true)}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.w.X11(tt.def); got != tt.want {
				t.Errorf("X11(%v) = %v, want %v", tt.def, got, tt.want)
			}
		})
	}
}

func TestAppData_Defaults(t *testing.T) {
	t.Parallel()

	a := AppData{Summary: "A game"}
	if a.ProjectLicense() != DefaultLicense {
		t.Errorf("ProjectLicense() = %q, want %q", a.ProjectLicense(), DefaultLicense)
	}
	if a.LongDescription() != "A game" {
		t.Errorf("LongDescription() = %q, want summary", a.LongDescription())
	}

	a.License, a.Description = "MIT", "Longer"
	if a.ProjectLicense() != "MIT" || a.LongDescription() != "Longer" {
		t.Errorf("explicit values not honored: %q %q", a.ProjectLicense(), a.LongDescription())
	}
}

func TestSourceEntry_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	var bare SourceEntry
	if err := bare.UnmarshalJSON([]byte(`"game.zip"`)); err != nil {
		t.Fatal(err)
	}
	if bare.Path != "game.zip" || !bare.IsBare() {
		t.Errorf("bare entry = %+v", bare)
	}

	var obj SourceEntry
	if err := obj.UnmarshalJSON([]byte(`{"path":"overlay.zip","strip_components":0}`)); err != nil {
		t.Fatal(err)
	}
	if obj.StripComponents == nil || *obj.StripComponents != 0 {
		t.Errorf("explicit strip 0 lost: %+v", obj)
	}

	var bad SourceEntry
	if err := bad.UnmarshalJSON([]byte(`42`)); err == nil {
		t.Error("expected error for a number")
	}
}

func TestDescription_Validate(t *testing.T) {
	t.Parallel()

	neg := -1
	d := &Description{
		Path:    "/games/x.toml",
		Common:  Common{Engine: "godot"},
		AppData: AppData{ContentRating: map[string]Intensity{"violence-cartoon": "lots"}},
		Sources: &Sources{Archives: []SourceEntry{{Path: "a.zip", StripComponents: &neg}}},
	}
	err := d.Validate()
	var descErr *InvalidDescriptionError
	if !errors.As(err, &descErr) {
		t.Fatalf("expected *InvalidDescriptionError, got %v", err)
	}
	if len(descErr.FieldErrors) != 3 {
		t.Errorf("field errors = %d, want 3: %v", len(descErr.FieldErrors), descErr.FieldErrors)
	}
	if !errors.Is(err, ErrInvalidDescription) {
		t.Error("error should wrap ErrInvalidDescription")
	}
}
