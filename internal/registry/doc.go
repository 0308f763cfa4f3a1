// SPDX-License-Identifier: MPL-2.0

// Package registry holds the set of installed packages and persists it as a
// TOML document in kura's data directory.
//
// The in-memory [Registry] keeps insertion order so listings and the
// generated host manifest are stable across runs. The [Store] reads and writes
// the document through an afero filesystem; a missing or unreadable document
// is treated as an empty registry.
package registry
