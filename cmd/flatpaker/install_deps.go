// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"

	"github.com/flatpaker/flatpaker/internal/orchestrator"
	"github.com/flatpaker/flatpaker/pkg/types"

	"github.com/spf13/cobra"
)

func newInstallDepsCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "install-deps",
		Short: "Install runtime and SDK dependencies",
		Long: `Install the org.freedesktop Platform and Sdk the flatpaker runtime builds on,
then build and install every manifest listed in runtime.sdk_manifests.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInstallDeps(cmd.Context(), app, flags)
		},
	}
}

func runInstallDeps(ctx context.Context, app *App, flags *globalFlags) error {
	cfg, err := loadConfig(ctx, app, flags)
	if err != nil {
		return err
	}
	if err := app.Builder.Available(); err != nil {
		return &ExitError{Code: types.ExitFailure, Err: serviceErrorFor(err, flags.verbose)}
	}

	orch := orchestrator.New(orchestrator.Options{
		KeepGoing:    flags.keepGoing,
		Verbose:      flags.verbose,
		Export:       flags.export,
		Repo:         cfg.Repo,
		GPGKey:       cfg.GPGKey,
		StateDir:     cfg.ResolvedStateDir(),
		LogDir:       cfg.ResolvedLogDir(),
		BaseVersion:  cfg.Runtime.BaseVersion,
		SDKManifests: cfg.Runtime.SDKManifests,
	}, orchestrator.Dependencies{
		Builder:    app.Builder,
		Workspaces: app.workspaces(flags.noCleanup),
		Status:     app.stdout,
		Styles:     orchestrator.Styles{Success: SuccessStyle, Fail: ErrorStyle},
	})

	report, err := orch.InstallDeps(ctx)
	return reportOutcome(app, report, err, flags.verbose)
}
