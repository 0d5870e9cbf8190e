// SPDX-License-Identifier: MPL-2.0

// Package checksum computes the content digests that flatpak-builder uses to
// verify every local source referenced by a generated manifest.
//
// Digests depend only on file content: renaming a file or changing its
// timestamps does not change the result.
package checksum
