// SPDX-License-Identifier: MPL-2.0

// Package platform detects whether flatpaker runs inside a sandbox or
// development container and, if so, how to reach the host's flatpak tools.
package platform
