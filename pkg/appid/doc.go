// SPDX-License-Identifier: MPL-2.0

// Package appid derives the Flatpak application ID of a packaged game.
//
// The ID is the description's reverse URL joined with a sanitized form of the
// game's display name. It names the manifest, the desktop entry, the metainfo
// file and the installed icon, so it must be a pure function of those two
// fields.
package appid
