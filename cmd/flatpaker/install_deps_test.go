// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/flatpaker/flatpaker/internal/builder"
	"github.com/flatpaker/flatpaker/internal/config"
)

func TestInstallDeps_RuntimeOnly(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run("install-deps"); err != nil {
		t.Fatalf("install-deps error = %v", err)
	}
	if len(env.builder.runtimes) != 1 || env.builder.runtimes[0] != config.DefaultBaseVersion {
		t.Errorf("runtimes = %v, want [%s]", env.builder.runtimes, config.DefaultBaseVersion)
	}
	if len(env.builder.builds) != 0 {
		t.Errorf("builds = %d, want 0 without sdk manifests", len(env.builder.builds))
	}
	if !strings.Contains(env.stdout.String(), builder.PlatformRef+"//"+config.DefaultBaseVersion) {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestInstallDeps_SDKManifests(t *testing.T) {
	env := newTestEnv(t)
	cfg := config.DefaultConfig()
	cfg.Runtime.SDKManifests = []string{"/srv/sdk/com.example.Sdk.yml", "/srv/sdk/com.example.Platform.yml"}
	env.app.Config = &fakeConfigProvider{cfg: cfg}

	if err := env.run("install-deps", "--export", "--repo", "sdk-repo"); err != nil {
		t.Fatalf("install-deps error = %v", err)
	}
	if len(env.builder.builds) != 2 {
		t.Fatalf("builds = %d, want 2", len(env.builder.builds))
	}
	for i, req := range env.builder.builds {
		if req.Manifest != cfg.Runtime.SDKManifests[i] {
			t.Errorf("build %d manifest = %q", i, req.Manifest)
		}
		if !req.Install || req.Repo != "sdk-repo" {
			t.Errorf("build %d request = %+v", i, req)
		}
	}
}

func TestInstallDeps_RejectsArguments(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run("install-deps", "extra"); err == nil {
		t.Fatal("expected an argument error")
	}
}

func TestInstallDeps_BuilderMissing(t *testing.T) {
	env := newTestEnv(t)
	env.builder.availableErr = &builder.NotFoundError{Binary: builder.FlatpakBinary}

	err := env.run("install-deps")
	if !errors.Is(err, builder.ErrBuilderNotFound) {
		t.Fatalf("error = %v, want ErrBuilderNotFound", err)
	}
	if len(env.builder.runtimes) != 0 {
		t.Error("runtime installed without flatpak")
	}
}
