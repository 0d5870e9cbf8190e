// SPDX-License-Identifier: MPL-2.0

// Package compiler turns a loaded description into a flatpak-builder
// manifest and the files the manifest references.
//
// Assemble is the pure core: it orders the generated modules and wraps them
// with the runtime identifiers and sandbox permissions. Compiler.Compile runs
// the whole pipeline (identity, sources, engine rules, metadata, assembly)
// and writes its outputs into a workspace directory.
package compiler
