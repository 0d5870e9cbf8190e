// SPDX-License-Identifier: MPL-2.0

package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	// AppName is used for directory naming.
	AppName = "flatpaker"

	// DefaultDirMode is the permission mode for directories flatpaker creates.
	DefaultDirMode os.FileMode = 0o755

	// DefaultFileMode is the permission mode for files flatpaker writes.
	DefaultFileMode os.FileMode = 0o644
)

// Config is the directory holding config.cue or config.toml.
//
//	Linux:   $XDG_CONFIG_HOME/flatpaker
//	macOS:   ~/Library/Application Support/flatpaker
func Config() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Logs is where builder output is captured when not running verbosely.
//
//	Linux:   $XDG_STATE_HOME/flatpaker/logs
func Logs() string {
	return filepath.Join(xdg.StateHome, AppName, "logs")
}

// BuilderState is the flatpak-builder --state-dir shared by all builds, so
// downloaded runtimes and ccache survive workspace cleanup.
//
//	Linux:   $XDG_CACHE_HOME/flatpaker/builder
func BuilderState() string {
	return filepath.Join(xdg.CacheHome, AppName, "builder")
}

// Workspaces is the parent of every per-description temporary workspace.
func Workspaces() string {
	return filepath.Join(os.TempDir(), AppName)
}
