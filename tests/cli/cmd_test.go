// SPDX-License-Identifier: MPL-2.0

// Package cli contains CLI integration tests using testscript.
//
// These tests drive the real flatpaker binary. flatpak-builder is never on
// PATH, so only compilation and error paths are exercised end to end.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

// binDir holds the flatpaker binary built once for the whole package.
var binDir string

func TestMain(m *testing.M) {
	os.Exit(runWithBinary(m))
}

func runWithBinary(m *testing.M) int {
	dir, err := os.MkdirTemp("", "flatpaker-cli-")
	if err != nil {
		fmt.Fprintln(os.Stderr, "create bin dir:", err)
		return 1
	}
	defer os.RemoveAll(dir)
	binDir = dir

	root, err := moduleRoot()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	build := exec.CommandContext(context.Background(), "go", "build", "-o", filepath.Join(binDir, "flatpaker"), ".")
	build.Dir = root
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "build flatpaker:", err)
		return 1
	}
	return m.Run()
}

// moduleRoot walks up from the test's directory to the one holding go.mod.
func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no go.mod above %s", dir)
		}
		dir = parent
	}
}

func TestCLI(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			// Only flatpaker is reachable, so builder lookups fail.
			env.Setenv("PATH", binDir)

			home := env.WorkDir
			env.Setenv("HOME", home)
			for name, sub := range map[string]string{
				"XDG_CONFIG_HOME": ".config",
				"XDG_STATE_HOME":  ".state",
				"XDG_CACHE_HOME":  ".cache",
				"TMPDIR":          ".tmp",
			} {
				env.Setenv(name, filepath.Join(home, sub))
			}
			return os.MkdirAll(filepath.Join(home, ".tmp"), 0o755)
		},
		ContinueOnError: true,
	})
}
