// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"sync/atomic"

	"github.com/flatpaker/flatpaker/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Palette. Each color has a light and a dark variant; lipgloss picks one from
// the detected background unless ui.color_scheme forces it.
var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#7C3AED"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#6B7280"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#10B981"}
	ColorError     = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#EF4444"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}
	ColorHighlight = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#3B82F6"}
)

var (
	// TitleStyle is for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for descriptions and "(unset)" markers.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle renders "Success" status words.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle renders "Fail" status words and error markers.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for configuration problems.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// CmdStyle is for configuration keys, paths and command names.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)
)

// catalogStyle is the glamour style issue catalog entries are rendered with.
var catalogStyle atomic.Value

func init() {
	catalogStyle.Store(string(config.ColorSchemeAuto))
}

// applyColorScheme forces the palette variant and the catalog style for
// scheme. Auto keeps lipgloss's background detection.
func applyColorScheme(scheme config.ColorScheme) {
	switch scheme {
	case config.ColorSchemeDark:
		lipgloss.SetHasDarkBackground(true)
	case config.ColorSchemeLight:
		lipgloss.SetHasDarkBackground(false)
	default:
		scheme = config.ColorSchemeAuto
	}
	catalogStyle.Store(string(scheme))
}

func currentCatalogStyle() string {
	return catalogStyle.Load().(string)
}
