// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. The Issue catalog adds longer Markdown guidance, rendered
// with glamour, for the failures users hit most: a missing or invalid game
// description, a missing flatpak-builder, a failed build and an unreadable
// configuration file.
package issue
