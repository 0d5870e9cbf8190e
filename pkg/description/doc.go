// SPDX-License-Identifier: MPL-2.0

// Package description models and loads game package descriptions.
//
// A description is a TOML (or CUE) document with the sections common,
// appdata, workarounds and sources. Load validates the document against the
// embedded #Description schema, rewrites every relative path against the
// description's own directory and returns an immutable *Description.
//
// Optional switches are pointer-typed so that an absent field and an explicit
// false are distinguishable; the accessor methods on Workarounds document the
// defaults.
package description
