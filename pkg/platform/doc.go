// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// This package contains utilities for handling platform-specific concerns:
// Windows reserved filenames that cannot be used as package directory names,
// executable suffixes for build artifacts, and application sandbox detection
// for spawning toolchain processes on the host system.
package platform
