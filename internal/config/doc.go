// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the
// primary file format.
//
// Configuration is loaded from $XDG_CONFIG_HOME/flatpaker/config.cue, falling
// back to config.toml in the same directory, then to built-in defaults. Every
// file is validated against the embedded CUE schema (config_schema.cue) before
// it is merged into Viper, and FLATPAKER_* environment variables override file
// values (FLATPAKER_RUNTIME_VERSION for runtime.version).
package config
