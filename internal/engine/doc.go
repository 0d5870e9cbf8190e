// SPDX-License-Identifier: MPL-2.0

// Package engine generates the engine-specific build modules of a manifest.
//
// Each supported engine is a Generator selected by For. Generators are pure:
// given a description, its resolved sources and the application ID they
// return the primary install module(s), the icon module and the launcher
// module. Sandbox-specific behavior (save path rewrites, bytecode
// recompilation, display backend selection) lives in the generated shell
// commands, which are parsed as POSIX shell before being returned.
package engine
