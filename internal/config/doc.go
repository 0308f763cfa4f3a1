// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from $XDG_CONFIG_HOME/kura/config.cue (or the platform
// equivalent), validated against an embedded CUE schema (config_schema.cue), and
// merged over built-in defaults. Environment variables prefixed with KURA_
// override file values (KURA_DATA_DIR, KURA_TOOLCHAIN, KURA_UI_VERBOSE, ...).
// A missing config file is not an error.
package config
