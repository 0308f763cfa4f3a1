// SPDX-License-Identifier: MPL-2.0

// Package process runs external programs (the version-control client, the
// compiler toolchain, and built artifacts) behind the Runner capability so
// orchestration code can be exercised with a scripted fake in tests.
//
// A Runner reports a non-zero exit through Result.ExitCode. An error is only
// returned when the program could not be started at all.
package process
