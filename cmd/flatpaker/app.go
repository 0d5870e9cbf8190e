// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/flatpaker/flatpaker/internal/builder"
	"github.com/flatpaker/flatpaker/internal/config"
	"github.com/flatpaker/flatpaker/internal/orchestrator"
	"github.com/flatpaker/flatpaker/internal/paths"
	"github.com/flatpaker/flatpaker/internal/workspace"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer; every command handler receives an App.
	App struct {
		Config        ConfigProvider
		Builder       BuildService
		WorkspaceRoot string
		stdout        io.Writer
		stderr        io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config        ConfigProvider
		Builder       BuildService
		WorkspaceRoot string
		Stdout        io.Writer
		Stderr        io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// BuildService runs flatpak tooling and reports whether it is installed.
	BuildService interface {
		orchestrator.Builder
		Available() error
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Builder == nil {
		deps.Builder = builder.New(builder.WithOutput(deps.Stdout, deps.Stderr))
	}
	if deps.WorkspaceRoot == "" {
		deps.WorkspaceRoot = paths.Workspaces()
	}

	return &App{
		Config:        deps.Config,
		Builder:       deps.Builder,
		WorkspaceRoot: deps.WorkspaceRoot,
		stdout:        deps.Stdout,
		stderr:        deps.Stderr,
	}
}

// workspaces returns the factory the orchestrator acquires workspaces from.
func (a *App) workspaces(keep bool) orchestrator.WorkspaceFactory {
	mgr := workspace.NewManager(a.WorkspaceRoot, keep)
	return func(name string) (orchestrator.Workspace, error) {
		ws, err := mgr.Acquire(name)
		if err != nil {
			return nil, err
		}
		return ws, nil
	}
}
