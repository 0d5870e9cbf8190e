// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/flatpaker/flatpaker/pkg/platform"
	"github.com/flatpaker/flatpaker/pkg/types"
)

const (
	// FlatpakBuilderBinary is the manifest builder executable.
	FlatpakBuilderBinary = "flatpak-builder"
	// FlatpakBinary is the flatpak CLI used for repository and runtime work.
	FlatpakBinary = "flatpak"

	// PlatformRef and SdkRef are the freedesktop runtimes the custom SDK builds on.
	PlatformRef = "org.freedesktop.Platform"
	SdkRef      = "org.freedesktop.Sdk"
)

var (
	// ErrBuildFailed is the sentinel error wrapped by BuildFailedError.
	ErrBuildFailed = errors.New("build failed")

	// ErrBuilderNotFound is returned when a required executable is not on PATH.
	ErrBuilderNotFound = errors.New("builder executable not found")

	// ErrEmptyRepo is returned when a repository operation has no repository path.
	ErrEmptyRepo = errors.New("repository path is empty")
)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// Option configures a Builder.
	Option func(*Builder)

	// Builder runs flatpak tooling.
	Builder struct {
		execCommand ExecCommandFunc
		lookPath    func(string) (string, error)
		stdout      io.Writer
		stderr      io.Writer
		sandbox     platform.SandboxType
	}

	// Request describes one flatpak-builder invocation.
	Request struct {
		// AppID names the per-build log files.
		AppID string
		// Manifest is the path to the manifest file.
		Manifest string
		// BuildDir is the flatpak-builder build directory.
		BuildDir string
		// StateDir overrides flatpak-builder's .flatpak-builder cache location.
		StateDir string
		// Repo exports the result into an OSTree repository when non-empty.
		Repo string
		// GPGKey signs exported commits. Ignored without Repo.
		GPGKey string
		// Install installs the result for the current user.
		Install bool
		// Verbose streams builder output instead of writing log files.
		Verbose bool
		// LogDir receives <appid>.stdout and <appid>.stderr when not verbose.
		LogDir string
	}

	// BuildFailedError reports a non-zero exit from an external command.
	BuildFailedError struct {
		Command string
		Code    types.ExitCode
		LogDir  string
		Err     error
	}

	// NotFoundError reports a missing executable.
	NotFoundError struct {
		Binary string
	}
)

// Error implements the error interface for BuildFailedError.
func (e *BuildFailedError) Error() string {
	msg := fmt.Sprintf("%s exited with code %s", e.Command, e.Code)
	if e.Code.IsNotFound() {
		msg += ", a command in the manifest was not found"
	}
	if e.LogDir != "" {
		msg += " (logs in " + e.LogDir + ")"
	}
	return msg
}

// Unwrap returns ErrBuildFailed and the underlying exec error.
func (e *BuildFailedError) Unwrap() []error { return []error{ErrBuildFailed, e.Err} }

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found in PATH", e.Binary)
}

// Unwrap returns ErrBuilderNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrBuilderNotFound }

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) Option {
	return func(b *Builder) {
		b.execCommand = fn
	}
}

// WithLookPath replaces exec.LookPath for availability checks.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(b *Builder) {
		b.lookPath = fn
	}
}

// WithOutput sets where verbose command output is streamed.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(b *Builder) {
		b.stdout = stdout
		b.stderr = stderr
	}
}

// WithSandbox overrides sandbox detection. Inside a sandbox every command is
// spawned on the host through flatpak-spawn.
func WithSandbox(st platform.SandboxType) Option {
	return func(b *Builder) {
		b.sandbox = st
	}
}

// New creates a Builder backed by the real flatpak binaries.
func New(opts ...Option) *Builder {
	b := &Builder{
		execCommand: exec.CommandContext,
		lookPath:    exec.LookPath,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		sandbox:     platform.DetectSandbox(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Available checks that both flatpak and flatpak-builder are on PATH. Inside
// a sandbox the host PATH is not visible, so only flatpak-spawn is checked.
func (b *Builder) Available() error {
	bins := []string{FlatpakBuilderBinary, FlatpakBinary}
	if b.sandbox.IsSandboxed() {
		bins = []string{platform.SpawnCommand}
	}
	for _, bin := range bins {
		if _, err := b.lookPath(bin); err != nil {
			return &NotFoundError{Binary: bin}
		}
	}
	return nil
}

// BuildArgs returns the flatpak-builder arguments for req.
func BuildArgs(req Request) []string {
	args := []string{"--force-clean"}
	if req.StateDir != "" {
		args = append(args, "--state-dir", req.StateDir)
	}
	args = append(args, req.BuildDir, req.Manifest)
	if req.Repo != "" {
		args = append(args, "--repo", req.Repo)
		if req.GPGKey != "" {
			args = append(args, "--gpg-sign", req.GPGKey)
		}
	}
	if req.Install {
		args = append(args, "--user", "--install")
	}
	return args
}

// Build runs flatpak-builder for req and blocks until it exits.
func (b *Builder) Build(ctx context.Context, req Request) error {
	args := BuildArgs(req)
	slog.Debug("running flatpak-builder", "args", args)
	return b.run(ctx, req.AppID, req.LogDir, req.Verbose, FlatpakBuilderBinary, args...)
}

// UpdateRepoArgs returns the build-update-repo arguments that regenerate
// static deltas for repo.
func UpdateRepoArgs(repo, gpgKey string) []string {
	args := []string{"build-update-repo", repo, "--generate-static-deltas"}
	if gpgKey != "" {
		args = append(args, "--gpg-sign", gpgKey)
	}
	return args
}

// UpdateRepo regenerates static deltas for repo. Output goes to
// <logDir>/static-deltas.stdout|.stderr unless verbose.
func (b *Builder) UpdateRepo(ctx context.Context, repo, gpgKey, logDir string, verbose bool) error {
	if repo == "" {
		return ErrEmptyRepo
	}
	args := UpdateRepoArgs(repo, gpgKey)
	slog.Debug("updating repository", "repo", repo)
	return b.run(ctx, "static-deltas", logDir, verbose, FlatpakBinary, args...)
}

// InstallRuntimeArgs returns the flatpak install arguments for the base
// platform and SDK at version.
func InstallRuntimeArgs(version string) []string {
	return []string{
		"install", "--no-auto-pin", "--user",
		PlatformRef + "//" + version,
		SdkRef + "//" + version,
	}
}

// InstallRuntime installs the freedesktop platform and SDK at version. Output
// goes to <logDir>/runtime.stdout|.stderr unless verbose.
func (b *Builder) InstallRuntime(ctx context.Context, version, logDir string, verbose bool) error {
	return b.run(ctx, "runtime", logDir, verbose, FlatpakBinary, InstallRuntimeArgs(version)...)
}

func (b *Builder) run(ctx context.Context, logName, logDir string, verbose bool, name string, args ...string) (err error) {
	name, args = platform.HostCommand(b.sandbox, name, args)
	cmd := b.execCommand(ctx, name, args...)

	if verbose || logDir == "" {
		cmd.Stdout = b.stdout
		cmd.Stderr = b.stderr
	} else {
		stdout, stderr, openErr := openLogs(logDir, logName)
		if openErr != nil {
			return openErr
		}
		defer func() {
			if closeErr := stdout.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
			if closeErr := stderr.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}()
		cmd.Stdout = stdout
		cmd.Stderr = stderr
	}

	if runErr := cmd.Run(); runErr != nil {
		if errors.Is(runErr, exec.ErrNotFound) {
			return &NotFoundError{Binary: name}
		}
		code := types.ExitCode(-1)
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			code = types.ExitCode(exitErr.ExitCode())
		}
		failed := &BuildFailedError{Command: name, Code: code, Err: runErr}
		if !verbose {
			failed.LogDir = logDir
		}
		return failed
	}
	return nil
}

func openLogs(dir, name string) (stdout, stderr *os.File, err error) {
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory %s: %w", dir, err)
	}
	stdout, err = os.Create(filepath.Join(dir, name+".stdout"))
	if err != nil {
		return nil, nil, fmt.Errorf("create stdout log: %w", err)
	}
	stderr, err = os.Create(filepath.Join(dir, name+".stderr"))
	if err != nil {
		_ = stdout.Close()
		return nil, nil, fmt.Errorf("create stderr log: %w", err)
	}
	return stdout, stderr, nil
}
