// SPDX-License-Identifier: MPL-2.0

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/flatpaker/flatpaker/internal/builder"
	"github.com/flatpaker/flatpaker/internal/compiler"
	"github.com/flatpaker/flatpaker/pkg/appid"
	"github.com/flatpaker/flatpaker/pkg/description"

	"github.com/charmbracelet/lipgloss"
)

// ErrNoDescriptions is returned when Run is called with no paths.
var ErrNoDescriptions = errors.New("no descriptions given")

type (
	// Loader reads a description file.
	Loader func(path string) (*description.Description, error)

	// Compiler turns a description into a manifest inside workdir.
	Compiler interface {
		Compile(ctx context.Context, desc *description.Description, workdir string, archives []string) (*compiler.Result, error)
	}

	// Builder runs the external flatpak tooling.
	Builder interface {
		Build(ctx context.Context, req builder.Request) error
		UpdateRepo(ctx context.Context, repo, gpgKey, logDir string, verbose bool) error
		InstallRuntime(ctx context.Context, version, logDir string, verbose bool) error
	}

	// Workspace is the per-description scratch directory.
	Workspace interface {
		Dir() string
		BuildDir() string
		Close() error
	}

	// WorkspaceFactory acquires the workspace for a game name.
	WorkspaceFactory func(name string) (Workspace, error)

	// Options control a batch.
	Options struct {
		// KeepGoing attempts every description even after a failure.
		KeepGoing bool
		// Verbose streams builder output and suppresses the status line.
		Verbose bool
		// Install installs each build for the current user.
		Install bool
		// Export commits each build into Repo.
		Export bool
		// Deltas regenerates static deltas for Repo after the batch.
		Deltas bool
		Repo   string
		GPGKey string
		// Archives are positional sources for descriptions without a sources table.
		Archives []string
		StateDir string
		LogDir   string
		// BaseVersion is the freedesktop runtime branch InstallDeps installs.
		BaseVersion string
		// SDKManifests are built by InstallDeps after the base runtime.
		SDKManifests []string
	}

	// Styles render the status words.
	Styles struct {
		Success lipgloss.Style
		Fail    lipgloss.Style
	}

	// Dependencies are the collaborators a batch runs against.
	Dependencies struct {
		Loader     Loader
		Compiler   Compiler
		Builder    Builder
		Workspaces WorkspaceFactory
		// Status receives "Building <appid> Success|Fail" lines; nil discards.
		Status io.Writer
		Styles Styles
	}

	// Orchestrator runs batches.
	Orchestrator struct {
		opts Options
		deps Dependencies
	}
)

// New creates an Orchestrator.
func New(opts Options, deps Dependencies) *Orchestrator {
	if deps.Status == nil {
		deps.Status = io.Discard
	}
	return &Orchestrator{opts: opts, deps: deps}
}

// Run processes paths in order. In strict mode the first failure is returned
// together with the partial report. With KeepGoing the error is nil and
// failures are reported through Report.
func (o *Orchestrator) Run(ctx context.Context, paths []string) (*Report, error) {
	if len(paths) == 0 {
		return nil, ErrNoDescriptions
	}

	report := &Report{}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result := o.runOne(ctx, path)
		report.Results = append(report.Results, result)

		if result.Err != nil && !o.opts.KeepGoing {
			return report, result.Err
		}
	}

	if o.opts.Deltas && report.Succeeded() > 0 {
		if !o.opts.Verbose {
			fmt.Fprintln(o.deps.Status, "Generating static deltas")
		}
		if err := o.deps.Builder.UpdateRepo(ctx, o.opts.Repo, o.opts.GPGKey, o.opts.LogDir, o.opts.Verbose); err != nil {
			report.DeltasErr = wrapDeltas(o.opts.Repo, err)
			if !o.opts.KeepGoing {
				return report, report.DeltasErr
			}
		}
	}

	return report, nil
}

func (o *Orchestrator) runOne(ctx context.Context, path string) (result Result) {
	result = Result{Path: path, Label: path}

	desc, err := o.deps.Loader(path)
	if err != nil {
		o.status(result.Label)
		o.finish(false)
		result.Err = wrap(path, "", err)
		return result
	}

	id, err := appid.New(desc.Common.ReverseURL, desc.Common.Name)
	if err == nil {
		result.Label = id.String()
	}
	o.status(result.Label)
	defer func() { o.finish(result.Err == nil) }()
	if err != nil {
		result.Err = wrap(path, result.Label, err)
		return result
	}

	ws, err := o.deps.Workspaces(desc.Common.Name)
	if err != nil {
		result.Err = wrap(path, result.Label, err)
		return result
	}
	defer func() {
		if closeErr := ws.Close(); closeErr != nil {
			slog.Warn("failed to remove workspace", "dir", ws.Dir(), "error", closeErr)
		}
	}()

	compiled, err := o.deps.Compiler.Compile(ctx, desc, ws.Dir(), o.opts.Archives)
	if err != nil {
		result.Err = wrap(path, result.Label, err)
		return result
	}
	result.AppID = compiled.AppID.String()
	result.Label = result.AppID

	req := builder.Request{
		AppID:    result.AppID,
		Manifest: compiled.ManifestPath,
		BuildDir: ws.BuildDir(),
		StateDir: o.opts.StateDir,
		GPGKey:   o.opts.GPGKey,
		Install:  o.opts.Install,
		Verbose:  o.opts.Verbose,
		LogDir:   o.opts.LogDir,
	}
	if o.opts.Export {
		req.Repo = o.opts.Repo
	}
	if err := o.deps.Builder.Build(ctx, req); err != nil {
		result.Err = wrap(path, result.AppID, err)
		return result
	}

	slog.Debug("build finished", "app_id", result.AppID, "manifest", compiled.ManifestPath)
	return result
}

// InstallDeps installs the freedesktop base runtime and then builds each
// configured SDK manifest with --install (and --repo when exporting).
func (o *Orchestrator) InstallDeps(ctx context.Context) (*Report, error) {
	report := &Report{}

	o.status(builder.PlatformRef + "//" + o.opts.BaseVersion)
	err := o.deps.Builder.InstallRuntime(ctx, o.opts.BaseVersion, o.opts.LogDir, o.opts.Verbose)
	o.finish(err == nil)
	if err != nil {
		err = wrapRuntime(o.opts.BaseVersion, err)
		report.Results = append(report.Results, Result{Label: "runtime", Err: err})
		return report, err
	}
	report.Results = append(report.Results, Result{Label: "runtime"})

	for _, m := range o.opts.SDKManifests {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		o.status(m)
		result := Result{Path: m, Label: m}
		ws, err := o.deps.Workspaces(sdkWorkspaceName(m))
		if err == nil {
			req := builder.Request{
				AppID:    sdkWorkspaceName(m),
				Manifest: m,
				BuildDir: ws.BuildDir(),
				StateDir: o.opts.StateDir,
				GPGKey:   o.opts.GPGKey,
				Install:  true,
				Verbose:  o.opts.Verbose,
				LogDir:   o.opts.LogDir,
			}
			if o.opts.Export {
				req.Repo = o.opts.Repo
			}
			err = o.deps.Builder.Build(ctx, req)
			if closeErr := ws.Close(); closeErr != nil {
				slog.Warn("failed to remove workspace", "dir", ws.Dir(), "error", closeErr)
			}
		}
		o.finish(err == nil)

		if err != nil {
			result.Err = wrap(m, m, err)
		}
		report.Results = append(report.Results, result)
		if result.Err != nil && !o.opts.KeepGoing {
			return report, result.Err
		}
	}
	return report, nil
}

func (o *Orchestrator) status(label string) {
	if o.opts.Verbose {
		slog.Info("building", "target", label)
		return
	}
	fmt.Fprintf(o.deps.Status, "Building %s ", label)
}

func (o *Orchestrator) finish(ok bool) {
	if o.opts.Verbose {
		return
	}
	if ok {
		fmt.Fprintln(o.deps.Status, o.deps.Styles.Success.Render("Success"))
	} else {
		fmt.Fprintln(o.deps.Status, o.deps.Styles.Fail.Render("Fail"))
	}
}

// sdkWorkspaceName names the workspace and log files of an SDK manifest after
// its file name, e.g. com.example.Sdk for sdk/com.example.Sdk.yml.
func sdkWorkspaceName(manifestPath string) string {
	base := filepath.Base(manifestPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
