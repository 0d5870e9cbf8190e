// SPDX-License-Identifier: MPL-2.0

// Package manifest defines the flatpak-builder manifest model and its
// JSON and YAML encodings.
package manifest
