// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/flatpaker/flatpaker/internal/paths"
	"github.com/flatpaker/flatpaker/pkg/description"
	"github.com/flatpaker/flatpaker/pkg/types"

	"github.com/spf13/cobra"
)

func newGenerateCommand(app *App, flags *globalFlags) *cobra.Command {
	cf := &compileFlags{}
	var outDir string

	cmd := &cobra.Command{
		Use:   "generate <description>",
		Short: "Write the manifest and metadata without building",
		Long: `Compile a description into a flatpak-builder manifest, desktop entry and
AppStream metainfo file in the output directory. flatpak-builder is not run,
so the result can be inspected or built by hand:

  flatpak-builder --force-clean build <out>/<app-id>.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), app, flags, cf, outDir, args[0])
		},
	}
	cf.register(cmd)
	cmd.Flags().StringVarP(&outDir, "output", "o", ".", "directory to write the generated files to")

	return cmd
}

func runGenerate(ctx context.Context, app *App, flags *globalFlags, cf *compileFlags, outDir, path string) error {
	cfg, err := loadConfig(ctx, app, flags)
	if err != nil {
		return err
	}
	comp, err := cf.compiler(cfg)
	if err != nil {
		return err
	}
	archives, err := cf.absArchives()
	if err != nil {
		return err
	}

	desc, err := description.Load(path)
	if err != nil {
		return &ExitError{Code: types.ExitFailure, Err: serviceErrorFor(err, flags.verbose)}
	}

	outDir, err = filepath.Abs(outDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	result, err := comp.Compile(ctx, desc, outDir, archives)
	if err != nil {
		return &ExitError{Code: types.ExitFailure, Err: serviceErrorFor(err, flags.verbose)}
	}

	fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Generated"), CmdStyle.Render(result.ManifestPath))
	return nil
}
