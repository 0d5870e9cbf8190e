// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"maps"
	"slices"
)

type (
	// LoadOptions select the configuration source and the values layered on
	// top of it.
	LoadOptions struct {
		// ConfigFilePath loads exactly this file; it must exist.
		ConfigFilePath string
		// ConfigDirPath replaces the XDG config directory in the lookup.
		ConfigDirPath string
		// Overrides win over the file and the environment. Keys use the file
		// syntax ("repo", "runtime.version"); empty values are ignored so an
		// unset flag never masks a configured value.
		Overrides map[string]string
	}

	// Provider loads configuration from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	fileProvider struct{}
)

// configDirOverride redirects the default lookup in tests without touching
// XDG_CONFIG_HOME, which adrg/xdg only reads at init.
var configDirOverride string

// NewProvider returns the Provider backed by config.cue / config.toml.
func NewProvider() Provider {
	return &fileProvider{}
}

func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	return cfg, err
}

// SetConfigDirOverride points ConfigDir at dir until Reset.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears SetConfigDirOverride.
func Reset() {
	configDirOverride = ""
}

// overrideKeys returns the non-empty override keys in a stable order.
func (o LoadOptions) overrideKeys() []string {
	keys := slices.Sorted(maps.Keys(o.Overrides))
	return slices.DeleteFunc(keys, func(k string) bool { return o.Overrides[k] == "" })
}
