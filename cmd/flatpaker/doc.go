// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for flatpaker.
//
// The command tree is built by NewRootCommand around an App, the composition
// root holding the configuration provider, the flatpak builder and the output
// streams. Execute runs the tree through fang for styled help and errors.
package cmd
