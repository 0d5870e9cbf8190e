// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// Game descriptions and the tool configuration are both validated against
// embedded CUE schemas. The common flow is:
//
//  1. Compile the embedded schema
//  2. Compile (or encode) user data and unify with schema
//  3. Validate and decode to Go struct
//
// # Usage
//
//	//go:embed description_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Description](
//	    schemaBytes,
//	    userFileBytes,
//	    "#Description",
//	    cueutil.WithFilename("game.cue"),
//	)
//
// Formats CUE cannot read directly (TOML descriptions) are first decoded into
// a generic Go value and passed to DecodeValue, which runs steps 1 and 3 on
// the encoded value.
package cueutil
