// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/flatpaker/flatpaker/internal/config"
	"github.com/flatpaker/flatpaker/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// globalFlags are the persistent flags shared by build and install-deps.
type globalFlags struct {
	verbose    bool
	configPath string
	repo       string
	gpgKey     string
	export     bool
	install    bool
	noCleanup  bool
	keepGoing  bool
}

// NewRootCommand builds the flatpaker command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "flatpaker",
		Short: "Package pre-built games as Flatpaks",
		Long: TitleStyle.Render("flatpaker") + SubtitleStyle.Render(" - Package pre-built games as Flatpaks") + `

flatpaker compiles a small TOML or CUE description of a Ren'Py or
RPGMaker MV/MZ game into a flatpak-builder manifest, together with the
desktop entry and AppStream metadata it needs, and builds it.

` + SubtitleStyle.Render("Examples:") + `
  flatpaker build game.toml                 Build one game
  flatpaker build --keep-going *.toml       Build many, continue past failures
  flatpaker build --export --static-deltas games/*.toml
  flatpaker generate game.toml -o out/      Write the manifest only
  flatpaker install-deps                    Install the runtime and SDK`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(app.stderr, flags.verbose)
		},
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "print builder output and debug logs to the terminal")
	pf.StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/flatpaker/config.cue)")
	pf.StringVar(&flags.repo, "repo", "", "a flatpak repo to put the result in (default from config, \"repo\")")
	pf.StringVar(&flags.gpgKey, "gpg", "", "a GPG key to sign the output with when writing to a repo")
	pf.BoolVar(&flags.export, "export", false, "export to the repo")
	pf.BoolVar(&flags.install, "install", false, "install for the user (useful for testing)")
	pf.BoolVar(&flags.noCleanup, "no-cleanup", false, "don't delete the temporary directory")
	pf.BoolVarP(&flags.keepGoing, "keep-going", "k", false, "if one flatpak fails to build, continue to the next")

	rootCmd.AddCommand(newBuildCommand(app, flags))
	rootCmd.AddCommand(newGenerateCommand(app, flags))
	rootCmd.AddCommand(newInstallDepsCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		os.Exit(int(exitCode(err)))
	}
}

// handleError leaves already-reported failures alone and defers everything
// else to fang's styled handler.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		renderServiceError(w, svcErr)
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// setupLogging installs a charm log handler behind log/slog.
func setupLogging(w io.Writer, verbose bool) {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "flatpaker",
		Level:  level,
	})
	slog.SetDefault(slog.New(logger))
}

// loadConfig loads configuration with the persistent flags layered on top.
func loadConfig(ctx context.Context, app *App, flags *globalFlags) (*config.Config, error) {
	cfg, err := app.Config.Load(ctx, flags.loadOptions())
	if err != nil {
		return nil, newServiceError(err, issue.ConfigLoadFailedId, WarningStyle.Render("Error: ")+formatErrorForDisplay(err, flags.verbose)+"\n")
	}

	applyColorScheme(cfg.UI.ColorScheme)
	if !flags.verbose && cfg.UI.Verbose {
		flags.verbose = true
		setupLogging(app.stderr, true)
	}
	return cfg, nil
}

func (f *globalFlags) loadOptions() config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: f.configPath,
		Overrides: map[string]string{
			"repo":    f.repo,
			"gpg_key": f.gpgKey,
		},
	}
}
