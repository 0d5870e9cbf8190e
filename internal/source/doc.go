// SPDX-License-Identifier: MPL-2.0

// Package source resolves a description's sources into ordered,
// content-addressed manifest source entries.
package source
