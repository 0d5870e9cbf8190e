// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"
	"testing"

	"github.com/flatpaker/flatpaker/internal/config"
)

func TestConfigDump_AppliesFlagOverrides(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run("config", "dump", "--repo", "/srv/flatpak", "--gpg", "F00D"); err != nil {
		t.Fatalf("config dump error = %v", err)
	}
	out := env.stdout.String()
	for _, want := range []string{`repo: "/srv/flatpak"`, `gpg_key: "F00D"`, `base_version: "` + config.DefaultBaseVersion + `"`} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
}

func TestConfigShow(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run("config", "show"); err != nil {
		t.Fatalf("config show error = %v", err)
	}
	out := env.stdout.String()
	for _, want := range []string{"Current Configuration", "repo", config.DefaultRepo, "runtime.base_version", "(unset)"} {
		if !strings.Contains(out, want) {
			t.Errorf("show missing %q:\n%s", want, out)
		}
	}
}

func TestConfig_WithoutSubcommandPrintsHelp(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run("config"); err != nil {
		t.Fatalf("config error = %v", err)
	}
	if !strings.Contains(env.stdout.String(), "FLATPAKER_") {
		t.Errorf("help output = %q", env.stdout.String())
	}
}
