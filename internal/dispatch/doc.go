// SPDX-License-Identifier: MPL-2.0

// Package dispatch runs a script through the host binary, building it first
// when no artifact exists for the requested mode.
package dispatch
