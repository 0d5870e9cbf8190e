// SPDX-License-Identifier: MPL-2.0

package config

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flatpaker/flatpaker/internal/issue"
	"github.com/flatpaker/flatpaker/internal/paths"
	"github.com/flatpaker/flatpaker/pkg/cueutil"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the primary config file extension.
	ConfigFileExt = "cue"
	// ConfigFileExtTOML is the fallback config file extension.
	ConfigFileExtTOML = "toml"

	// EnvPrefix prefixes environment overrides, e.g. FLATPAKER_GPG_KEY.
	EnvPrefix = "FLATPAKER"
)

// ErrConfigNotFound is returned when an explicit config file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the flatpaker configuration directory.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() string {
	if configDirOverride != "" {
		return configDirOverride
	}
	return paths.Config()
}

// ResolvePath reports which config file Load would read for opts, or "" when
// only defaults apply.
func ResolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, opts.ConfigFilePath)
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir := configDirWithOverride(opts.ConfigDirPath)
	for _, ext := range []string{ConfigFileExt, ConfigFileExtTOML} {
		candidate := filepath.Join(cfgDir, ConfigFileName+"."+ext)
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := ResolvePath(opts)
	if err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithIssue(issue.ConfigLoadFailedId).
			WithResource(opts.ConfigFilePath).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Use 'flatpaker config init' to write a default configuration").
			Wrap(err).
			BuildError()
	}

	if resolvedPath != "" {
		if err := loadFileIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithIssue(issue.ConfigLoadFailedId).
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE or TOML syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Use 'flatpaker config dump' to see every supported key").
				Wrap(err).
				BuildError()
		}
	}

	for _, key := range opts.overrideKeys() {
		v.Set(key, opts.Overrides[key])
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment and flag overrides bypass the CUE schema, so check the result again.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithIssue(issue.ConfigLoadFailedId).
			WithResource(resolvedPath).
			WithSuggestion("Check command-line flags, FLATPAKER_* environment variables and the config file").
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("repo", defaults.Repo)
	v.SetDefault("gpg_key", defaults.GPGKey)
	v.SetDefault("state_dir", string(defaults.StateDir))
	v.SetDefault("log_dir", string(defaults.LogDir))
	v.SetDefault("manifest_format", string(defaults.ManifestFormat))
	v.SetDefault("runtime.sdk", defaults.Runtime.SDK)
	v.SetDefault("runtime.platform", defaults.Runtime.Platform)
	v.SetDefault("runtime.version", defaults.Runtime.Version)
	v.SetDefault("runtime.base_version", defaults.Runtime.BaseVersion)
	v.SetDefault("runtime.sdk_manifests", defaults.Runtime.SDKManifests)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) string {
	if configDirPath != "" {
		return configDirPath
	}
	return ConfigDir()
}

// loadFileIntoViper validates a config file against the #Config schema and
// merges its contents into Viper. TOML files are read with Viper's own TOML
// codec and then encoded into CUE so both formats share one schema.
func loadFileIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	var userValue cue.Value
	if strings.EqualFold(filepath.Ext(path), "."+ConfigFileExtTOML) {
		tv := viper.New()
		tv.SetConfigType(ConfigFileExtTOML)
		if err := tv.ReadConfig(bytes.NewReader(data)); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		userValue = ctx.Encode(tv.AllSettings())
	} else {
		userValue = ctx.CompileBytes(data, cue.Filename(path))
	}
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config.cue into dir (the config
// directory when empty) unless one already exists. It returns the file path.
func CreateDefaultConfig(dir string) (string, error) {
	cfgDir := configDirWithOverride(dir)
	if err := os.MkdirAll(cfgDir, paths.DefaultDirMode); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, nil
	}

	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(DefaultConfig())), paths.DefaultFileMode); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return cfgPath, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// flatpaker configuration file\n\n")

	fmt.Fprintf(&sb, "repo: %q\n", cfg.Repo)
	if cfg.GPGKey != "" {
		fmt.Fprintf(&sb, "gpg_key: %q\n", cfg.GPGKey)
	}
	if cfg.StateDir != "" {
		fmt.Fprintf(&sb, "state_dir: %q\n", cfg.StateDir)
	}
	if cfg.LogDir != "" {
		fmt.Fprintf(&sb, "log_dir: %q\n", cfg.LogDir)
	}
	fmt.Fprintf(&sb, "manifest_format: %q\n", cfg.ManifestFormat)

	sb.WriteString("\nruntime: {\n")
	fmt.Fprintf(&sb, "\tsdk: %q\n", cfg.Runtime.SDK)
	fmt.Fprintf(&sb, "\tplatform: %q\n", cfg.Runtime.Platform)
	fmt.Fprintf(&sb, "\tversion: %q\n", cfg.Runtime.Version)
	fmt.Fprintf(&sb, "\tbase_version: %q\n", cfg.Runtime.BaseVersion)
	if len(cfg.Runtime.SDKManifests) > 0 {
		sb.WriteString("\tsdk_manifests: [\n")
		for _, m := range cfg.Runtime.SDKManifests {
			fmt.Fprintf(&sb, "\t\t%q,\n", m)
		}
		sb.WriteString("\t]\n")
	}
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
