// SPDX-License-Identifier: MPL-2.0

// Package testutil holds test helpers shared by kura's packages: Must*
// file helpers that fail the test on error, a Cargo.toml writer for package
// fixtures, and FakeRunner, a scripted process.Runner that records every
// command instead of spawning it.
package testutil
