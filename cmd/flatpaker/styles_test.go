// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"testing"

	"github.com/flatpaker/flatpaker/internal/config"

	"github.com/charmbracelet/lipgloss"
)

func TestApplyColorScheme(t *testing.T) {
	// Not parallel: mutates the lipgloss default renderer and catalog style.
	origDark := lipgloss.HasDarkBackground()
	t.Cleanup(func() {
		lipgloss.SetHasDarkBackground(origDark)
		applyColorScheme(config.ColorSchemeAuto)
	})

	applyColorScheme(config.ColorSchemeLight)
	if lipgloss.HasDarkBackground() {
		t.Error("light scheme should force a light background")
	}
	if got := currentCatalogStyle(); got != "light" {
		t.Errorf("catalog style = %q, want light", got)
	}

	applyColorScheme(config.ColorSchemeDark)
	if !lipgloss.HasDarkBackground() {
		t.Error("dark scheme should force a dark background")
	}
	if got := currentCatalogStyle(); got != "dark" {
		t.Errorf("catalog style = %q, want dark", got)
	}

	applyColorScheme("")
	if got := currentCatalogStyle(); got != "auto" {
		t.Errorf("catalog style = %q, want auto for an empty scheme", got)
	}
}
