// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"slices"
	"sync"
)

// Sandbox type constants.
const (
	// SandboxNone indicates no sandbox environment detected.
	SandboxNone SandboxType = ""
	// SandboxFlatpak indicates a Flatpak sandbox, e.g. a flatpak'd editor terminal.
	SandboxFlatpak SandboxType = "flatpak"
	// SandboxToolbox indicates a toolbox or distrobox container.
	SandboxToolbox SandboxType = "toolbox"

	// SpawnCommand runs a command on the host from either environment.
	SpawnCommand = "flatpak-spawn"

	flatpakInfoPath = "/.flatpak-info"
	toolboxEnvPath  = "/run/.toolboxenv"
)

// detectOnce caches the sandbox detection result for the lifetime of the process.
//
// INVARIANT: detectSandboxFrom MUST NOT panic. sync.OnceValue propagates a
// panic on every call.
var detectOnce = sync.OnceValue(func() SandboxType {
	return detectSandboxFrom(statFile)
})

// SandboxType identifies the type of application sandbox, if any.
type SandboxType string

// DetectSandbox returns the sandbox the current process is running in.
// The result is cached after the first call.
//
// Detection methods:
//   - Flatpak: /.flatpak-info exists
//   - Toolbox: /run/.toolboxenv exists
func DetectSandbox() SandboxType {
	return detectOnce()
}

// IsSandboxed reports whether st requires commands to be spawned on the host.
func (st SandboxType) IsSandboxed() bool {
	return st == SandboxFlatpak || st == SandboxToolbox
}

// HostCommand rewrites name and args so they execute on the host when st is
// a sandbox. Outside a sandbox they are returned unchanged.
func HostCommand(st SandboxType, name string, args []string) (string, []string) {
	if !st.IsSandboxed() {
		return name, args
	}
	return SpawnCommand, slices.Concat([]string{"--host", name}, args)
}

// detectSandboxFrom performs sandbox detection using the provided lookup
// function so tests can inject results without touching the filesystem.
func detectSandboxFrom(statFile func(string) error) SandboxType {
	// Flatpak takes precedence: a toolbox can run a flatpak'd terminal but
	// not the other way round.
	if err := statFile(flatpakInfoPath); err == nil {
		return SandboxFlatpak
	}
	if err := statFile(toolboxEnvPath); err == nil {
		return SandboxToolbox
	}
	return SandboxNone
}

// statFile wraps os.Stat to match the func(string) error signature.
func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}
