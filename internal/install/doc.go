// SPDX-License-Identifier: MPL-2.0

// Package install adds, removes and lists packages in the registry.
//
// Installing a remote package clones it into the managed crates directory
// with the configured version-control tool; a local package is only recorded.
// Every mutation is persisted before the success message is printed.
package install
