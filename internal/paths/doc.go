// SPDX-License-Identifier: MPL-2.0

// Package paths resolves the per-user directories flatpaker reads and writes,
// following the XDG base directory conventions.
package paths
