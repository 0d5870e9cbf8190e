// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flatpaker/flatpaker/internal/builder"
	"github.com/flatpaker/flatpaker/internal/issue"
	"github.com/flatpaker/flatpaker/pkg/description"
	"github.com/flatpaker/flatpaker/pkg/manifest"
	"github.com/flatpaker/flatpaker/pkg/types"
)

// Command tests are not parallel: the root command installs the process-wide
// slog default on every run.

func TestBuild_Success(t *testing.T) {
	env := newTestEnv(t)
	desc, archive := writeGame(t)

	if err := env.run("build", desc, "--archive", archive); err != nil {
		t.Fatalf("build error = %v\nstderr: %s", err, env.stderr)
	}

	if len(env.builder.builds) != 1 {
		t.Fatalf("builds = %d, want 1", len(env.builder.builds))
	}
	req := env.builder.builds[0]
	if filepath.Base(req.Manifest) != "com.example.My_Game.json" {
		t.Errorf("Manifest = %q", req.Manifest)
	}
	if req.Repo != "" {
		t.Errorf("Repo = %q, want empty without --export", req.Repo)
	}
	if req.Install {
		t.Error("Install should be false without --install")
	}
	out := env.stdout.String()
	if !strings.Contains(out, "Building com.example.My_Game") || !strings.Contains(out, "Success") {
		t.Errorf("stdout = %q", out)
	}
	if strings.Contains(out, "TARGET") {
		t.Error("single builds should not print a summary table")
	}
	if len(env.builder.repoUpdates) != 0 {
		t.Error("static deltas ran without --static-deltas")
	}
}

func TestBuild_ExportSignAndDeltas(t *testing.T) {
	env := newTestEnv(t)
	desc, archive := writeGame(t)

	err := env.run("build", desc, "-a", archive,
		"--export", "--install", "--repo", "out-repo", "--gpg", "ABCD", "--static-deltas")
	if err != nil {
		t.Fatalf("build error = %v", err)
	}

	req := env.builder.builds[0]
	if req.Repo != "out-repo" || req.GPGKey != "ABCD" || !req.Install {
		t.Errorf("request = %+v", req)
	}
	if len(env.builder.repoUpdates) != 1 || env.builder.repoUpdates[0] != "out-repo" {
		t.Errorf("repo updates = %v", env.builder.repoUpdates)
	}
	if !strings.Contains(env.stdout.String(), "Generating static deltas") {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestBuild_YAMLFormat(t *testing.T) {
	env := newTestEnv(t)
	desc, archive := writeGame(t)

	if err := env.run("build", desc, "-a", archive, "--format", string(manifest.FormatYAML)); err != nil {
		t.Fatalf("build error = %v", err)
	}
	if got := filepath.Ext(env.builder.builds[0].Manifest); got != ".yml" {
		t.Errorf("manifest extension = %q, want .yml", got)
	}
}

func TestBuild_InvalidFormat(t *testing.T) {
	env := newTestEnv(t)
	desc, archive := writeGame(t)

	err := env.run("build", desc, "-a", archive, "--format", "xml")
	if !errors.Is(err, manifest.ErrInvalidFormat) {
		t.Fatalf("error = %v, want ErrInvalidFormat", err)
	}
	if len(env.builder.builds) != 0 {
		t.Error("nothing should be built with an invalid format")
	}
}

func TestBuild_RequiresDescription(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run("build"); err == nil {
		t.Fatal("expected an argument error")
	}
}

func TestBuild_BuilderMissing(t *testing.T) {
	env := newTestEnv(t)
	env.builder.availableErr = &builder.NotFoundError{Binary: builder.FlatpakBuilderBinary}
	desc, archive := writeGame(t)

	err := env.run("build", desc, "-a", archive)

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != types.ExitFailure {
		t.Fatalf("error = %v, want ExitError(1)", err)
	}
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.IssueID != issue.BuilderNotFoundId {
		t.Errorf("error = %v, want builder-not-found service error", err)
	}
	if len(env.builder.builds) != 0 {
		t.Error("build ran without a builder")
	}
}

func TestBuild_MissingDescription(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("build", filepath.Join(t.TempDir(), "absent.toml"))

	if !errors.Is(err, description.ErrDescriptionNotFound) {
		t.Fatalf("error = %v, want ErrDescriptionNotFound", err)
	}
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.IssueID != issue.DescriptionNotFoundId {
		t.Errorf("IssueID mismatch for %v", err)
	}
}

func TestBuild_StrictFailure(t *testing.T) {
	env := newTestEnv(t)
	env.builder.buildErr = &builder.BuildFailedError{Command: builder.FlatpakBuilderBinary, Code: 1}
	first, archive := writeGame(t)
	second, _ := writeGame(t)

	err := env.run("build", first, second, "-a", archive)

	if !errors.Is(err, builder.ErrBuildFailed) {
		t.Fatalf("error = %v, want ErrBuildFailed", err)
	}
	if len(env.builder.builds) != 1 {
		t.Errorf("builds = %d, strict mode should stop after the first failure", len(env.builder.builds))
	}
	if !strings.Contains(env.stdout.String(), "Fail") {
		t.Errorf("stdout = %q", env.stdout.String())
	}
}

func TestBuild_KeepGoingReportsEveryFailure(t *testing.T) {
	env := newTestEnv(t)
	env.builder.buildErr = &builder.BuildFailedError{Command: builder.FlatpakBuilderBinary, Code: 1}
	first, archive := writeGame(t)
	second, _ := writeGame(t)

	err := env.run("build", "--keep-going", first, second, "-a", archive)

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Err != nil {
		t.Fatalf("error = %v, want an already-reported ExitError", err)
	}
	if len(env.builder.builds) != 2 {
		t.Errorf("builds = %d, want 2", len(env.builder.builds))
	}
	if !strings.Contains(env.stdout.String(), "TARGET") {
		t.Errorf("expected a summary table, stdout = %q", env.stdout.String())
	}
	if got := strings.Count(env.stderr.String(), "flatpak-builder exited with code 1"); got < 2 {
		t.Errorf("stderr reports %d failures, want 2:\n%s", got, env.stderr)
	}
}

func TestBuild_ConfigLoadFailure(t *testing.T) {
	env := newTestEnv(t)
	env.app.Config = &fakeConfigProvider{err: errors.New("bad config")}
	desc, archive := writeGame(t)

	err := env.run("build", desc, "-a", archive)

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.IssueID != issue.ConfigLoadFailedId {
		t.Fatalf("error = %v, want config service error", err)
	}
}
