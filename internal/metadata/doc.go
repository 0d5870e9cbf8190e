// SPDX-License-Identifier: MPL-2.0

// Package metadata writes the desktop entry, the AppStream metainfo file and
// the optional normalized icon for a game, and builds the manifest modules
// that install them.
package metadata
