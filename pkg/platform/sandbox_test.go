// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"slices"
	"testing"
)

func statOnly(existing ...string) func(string) error {
	return func(path string) error {
		if slices.Contains(existing, path) {
			return nil
		}
		return os.ErrNotExist
	}
}

func TestDetectSandboxFrom(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing []string
		want     SandboxType
	}{
		{"no sandbox", nil, SandboxNone},
		{"flatpak", []string{flatpakInfoPath}, SandboxFlatpak},
		{"toolbox", []string{toolboxEnvPath}, SandboxToolbox},
		{"flatpak wins over toolbox", []string{toolboxEnvPath, flatpakInfoPath}, SandboxFlatpak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := detectSandboxFrom(statOnly(tt.existing...)); got != tt.want {
				t.Errorf("detectSandboxFrom() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectSandbox_Cached(t *testing.T) {
	t.Parallel()

	if first, second := DetectSandbox(), DetectSandbox(); first != second {
		t.Errorf("DetectSandbox() changed between calls: %q then %q", first, second)
	}
}

func TestHostCommand(t *testing.T) {
	t.Parallel()

	args := []string{"--force-clean", "build", "app.json"}

	tests := []struct {
		name     string
		sandbox  SandboxType
		wantName string
		wantArgs []string
	}{
		{"host", SandboxNone, "flatpak-builder", args},
		{"flatpak", SandboxFlatpak, SpawnCommand, []string{"--host", "flatpak-builder", "--force-clean", "build", "app.json"}},
		{"toolbox", SandboxToolbox, SpawnCommand, []string{"--host", "flatpak-builder", "--force-clean", "build", "app.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			name, got := HostCommand(tt.sandbox, "flatpak-builder", args)
			if name != tt.wantName || !slices.Equal(got, tt.wantArgs) {
				t.Errorf("HostCommand() = %s %v, want %s %v", name, got, tt.wantName, tt.wantArgs)
			}
		})
	}
}

func TestSandboxType_IsSandboxed(t *testing.T) {
	t.Parallel()

	if SandboxNone.IsSandboxed() {
		t.Error("SandboxNone.IsSandboxed() = true")
	}
	if !SandboxFlatpak.IsSandboxed() || !SandboxToolbox.IsSandboxed() {
		t.Error("flatpak and toolbox must be sandboxed")
	}
}
