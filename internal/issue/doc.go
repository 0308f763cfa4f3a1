// SPDX-License-Identifier: MPL-2.0

// Package issue holds kura's catalog of failure explanations and the
// ActionableError type the CLI uses to report them. Catalog entries are
// Markdown, rendered with glamour when verbose output is on.
package issue
