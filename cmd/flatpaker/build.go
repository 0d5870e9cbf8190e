// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/flatpaker/flatpaker/internal/compiler"
	"github.com/flatpaker/flatpaker/internal/config"
	"github.com/flatpaker/flatpaker/internal/orchestrator"
	"github.com/flatpaker/flatpaker/pkg/description"
	"github.com/flatpaker/flatpaker/pkg/manifest"
	"github.com/flatpaker/flatpaker/pkg/types"

	"github.com/spf13/cobra"
)

// compileFlags are shared by build and generate.
type compileFlags struct {
	archives []string
	format   string
}

func (f *compileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.archives, "archive", "a", nil, "game archive for descriptions without a [sources] table (repeatable)")
	cmd.Flags().StringVar(&f.format, "format", "", "manifest format: json or yaml (default from config)")
}

// compiler creates a manifest compiler from cfg and the flag overrides.
func (f *compileFlags) compiler(cfg *config.Config) (*compiler.Compiler, error) {
	format := cfg.ManifestFormat
	if f.format != "" {
		format = manifest.Format(f.format)
		if valid, errs := format.IsValid(); !valid {
			return nil, errs[0]
		}
	}
	return compiler.New(compiler.Options{Runtime: cfg.CompilerRuntime(), Format: format}), nil
}

func (f *compileFlags) absArchives() ([]string, error) {
	out := make([]string, 0, len(f.archives))
	for _, a := range f.archives {
		abs, err := filepath.Abs(a)
		if err != nil {
			return nil, fmt.Errorf("resolve archive %s: %w", a, err)
		}
		out = append(out, abs)
	}
	return out, nil
}

func newBuildCommand(app *App, flags *globalFlags) *cobra.Command {
	cf := &compileFlags{}
	var deltas bool

	cmd := &cobra.Command{
		Use:   "build <description>...",
		Short: "Build flatpaks from descriptions",
		Long: `Build flatpaks from one or more game descriptions.

Each description is compiled into a manifest inside its own temporary
workspace and handed to flatpak-builder. Builder output is written to the
log directory unless --verbose is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), app, flags, cf, deltas, args)
		},
	}
	cf.register(cmd)
	cmd.Flags().BoolVar(&deltas, "static-deltas", false, "generate static deltas for the repo after the batch")

	return cmd
}

func runBuild(ctx context.Context, app *App, flags *globalFlags, cf *compileFlags, deltas bool, descriptions []string) error {
	cfg, err := loadConfig(ctx, app, flags)
	if err != nil {
		return err
	}

	if err := app.Builder.Available(); err != nil {
		return &ExitError{Code: types.ExitFailure, Err: serviceErrorFor(err, flags.verbose)}
	}

	comp, err := cf.compiler(cfg)
	if err != nil {
		return err
	}
	archives, err := cf.absArchives()
	if err != nil {
		return err
	}

	orch := orchestrator.New(orchestrator.Options{
		KeepGoing: flags.keepGoing,
		Verbose:   flags.verbose,
		Install:   flags.install,
		Export:    flags.export,
		Deltas:    deltas,
		Repo:      cfg.Repo,
		GPGKey:    cfg.GPGKey,
		Archives:  archives,
		StateDir:  cfg.ResolvedStateDir(),
		LogDir:    cfg.ResolvedLogDir(),
	}, orchestrator.Dependencies{
		Loader:     description.Load,
		Compiler:   comp,
		Builder:    app.Builder,
		Workspaces: app.workspaces(flags.noCleanup),
		Status:     app.stdout,
		Styles:     orchestrator.Styles{Success: SuccessStyle, Fail: ErrorStyle},
	})

	report, err := orch.Run(ctx, descriptions)
	return reportOutcome(app, report, err, flags.verbose)
}

// reportOutcome prints the batch summary and failures and converts them into
// the command's exit status.
func reportOutcome(app *App, report *orchestrator.Report, err error, verbose bool) error {
	if report != nil && len(report.Results) > 1 {
		fmt.Fprintln(app.stdout)
		fmt.Fprintln(app.stdout, report.Summary(orchestrator.Styles{Success: SuccessStyle, Fail: ErrorStyle}))
	}

	if err != nil {
		return &ExitError{Code: types.ExitFailure, Err: serviceErrorFor(err, verbose)}
	}
	if report.OK() {
		return nil
	}

	var rendered bool
	for _, failed := range report.Failed() {
		svcErr := serviceErrorFor(failed.Err, verbose)
		if rendered {
			svcErr.IssueID = 0
		}
		renderServiceError(app.stderr, svcErr)
		rendered = rendered || svcErr.IssueID != 0
	}
	if report.DeltasErr != nil {
		renderServiceError(app.stderr, serviceErrorFor(report.DeltasErr, verbose))
	}
	return reported(types.ExitFailure)
}
