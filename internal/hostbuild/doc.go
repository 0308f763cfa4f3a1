// SPDX-License-Identifier: MPL-2.0

// Package hostbuild synthesizes and compiles the host project that embeds the
// Koto runtime together with every installed package.
//
// The host project ("koto-local") lives in the crates directory and moves
// through three states:
//
//	Absent      no scaffold directory
//	Scaffolded  toolchain project initialized, runtime crate added
//	Built       target/<profile>/koto-local exists
//
// Each [Synthesizer.Build] rewrites the host manifest so its path
// dependencies mirror the registry exactly, regenerates src/main.rs from the
// embedded template, and invokes the toolchain.
package hostbuild
