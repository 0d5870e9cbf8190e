// SPDX-License-Identifier: MPL-2.0

// Package orchestrator runs a batch of game descriptions through load,
// compile and build, one at a time, each inside its own workspace.
//
// In strict mode the first failure stops the batch. With KeepGoing every
// description is attempted and failures are collected in the Report. Static
// deltas are regenerated once after the batch when at least one build
// succeeded.
package orchestrator
