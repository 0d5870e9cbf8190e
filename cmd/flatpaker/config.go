// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/flatpaker/flatpaker/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `flatpaker config` command tree.
func newConfigCommand(app *App, flags *globalFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage flatpaker configuration",
		Long: `Manage flatpaker configuration.

Configuration is read from config.cue, or config.toml, in:
  - Linux: $XDG_CONFIG_HOME/flatpaker (default ~/.config/flatpaker)
  - macOS: ~/Library/Application Support/flatpaker

FLATPAKER_* environment variables override file values, e.g.
FLATPAKER_GPG_KEY or FLATPAKER_RUNTIME_VERSION.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, flags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig("")
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Configuration file:"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ResolvePath(flags.loadOptions())
			if err != nil {
				return err
			}
			if path == "" {
				fmt.Fprintf(app.stdout, "%s %s\n", config.ConfigDir(), SubtitleStyle.Render("(no config file, using defaults)"))
				return nil
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context(), app, flags)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, flags *globalFlags) error {
	cfg, err := loadConfig(ctx, app, flags)
	if err != nil {
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	row := func(key, value string) {
		if value == "" {
			value = SubtitleStyle.Render("(unset)")
		} else {
			value = valueStyle.Render(value)
		}
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render(key), value)
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)

	path, _ := config.ResolvePath(flags.loadOptions())
	if path == "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), path)
	}
	fmt.Fprintln(app.stdout)

	row("repo", cfg.Repo)
	row("gpg_key", cfg.GPGKey)
	row("state_dir", cfg.ResolvedStateDir())
	row("log_dir", cfg.ResolvedLogDir())
	row("manifest_format", string(cfg.ManifestFormat))
	row("runtime.sdk", cfg.Runtime.SDK)
	row("runtime.platform", cfg.Runtime.Platform)
	row("runtime.version", cfg.Runtime.Version)
	row("runtime.base_version", cfg.Runtime.BaseVersion)
	row("runtime.sdk_manifests", strings.Join(cfg.Runtime.SDKManifests, ", "))
	row("ui.color_scheme", cfg.UI.ColorScheme.String())
	row("ui.verbose", fmt.Sprint(cfg.UI.Verbose))

	return nil
}
