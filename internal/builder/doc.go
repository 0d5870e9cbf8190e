// SPDX-License-Identifier: MPL-2.0

// Package builder drives the external flatpak tooling: flatpak-builder for
// manifest builds, flatpak build-update-repo for static deltas, and
// flatpak install for the freedesktop base runtime.
//
// Commands are created through an injectable ExecCommandFunc so tests can
// substitute a helper process for the real binaries.
package builder
