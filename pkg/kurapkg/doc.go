// SPDX-License-Identifier: MPL-2.0

// Package kurapkg models native extension packages and resolves a raw source
// string into a typed package identity.
//
// A package is a Rust crate exposing a `make_module()` constructor for the
// embedded Koto runtime. Its canonical name always comes from the `package.name`
// field of the crate's own Cargo.toml, never from user input.
//
// # Resolution policy
//
// Sources are classified in order:
//   - a string starting with a known remote prefix (default "https://github.com/")
//     is a [KindRemote] package; its manifest is fetched over HTTP from
//     "<repo>/raw/main/Cargo.toml" without cloning
//   - an existing filesystem path is a [KindLocal] package; its manifest is read
//     from disk and its path is canonicalized (absolute, symlinks resolved)
//   - anything else fails with [ErrUnresolvableSource]
//
// A remote package's LocalPath is the managed clone location
// "<crates-dir>/<name>", computed before any clone happens.
package kurapkg
