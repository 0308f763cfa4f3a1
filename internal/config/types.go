// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kura-dev/kura/pkg/types"
)

const (
	// DefaultToolchain is the build tool command line.
	DefaultToolchain = "cargo"
	// DefaultVCS is the version-control command line.
	DefaultVCS = "git"
	// DefaultRuntimeCrate is the scripting runtime embedded in the host binary.
	DefaultRuntimeCrate = "koto"
	// DefaultRemotePrefix is the only remote host recognized by default.
	DefaultRemotePrefix = "https://github.com/"
)

var (
	// ErrInvalidCommandLine is the sentinel error wrapped by InvalidCommandLineError.
	ErrInvalidCommandLine = errors.New("invalid command line")
	// ErrInvalidRemotePrefix is the sentinel error wrapped by InvalidRemotePrefixError.
	ErrInvalidRemotePrefix = errors.New("invalid remote prefix")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// CommandLine is a program name optionally followed by arguments,
	// split with shell quoting rules when used.
	CommandLine string

	// InvalidCommandLineError is returned when a CommandLine is blank.
	InvalidCommandLineError struct {
		Field string
		Value CommandLine
	}

	// RemotePrefix is a URL prefix identifying remote package sources.
	RemotePrefix string

	// InvalidRemotePrefixError is returned when a RemotePrefix is not an
	// http(s) URL prefix.
	InvalidRemotePrefixError struct {
		Value RemotePrefix
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// DataDir overrides the platform data directory. Empty means the platform default.
		DataDir types.FilesystemPath `json:"data_dir" mapstructure:"data_dir"`
		// Toolchain is the build tool command line.
		Toolchain CommandLine `json:"toolchain" mapstructure:"toolchain"`
		// VCS is the version-control command line used for cloning.
		VCS CommandLine `json:"vcs" mapstructure:"vcs"`
		// RuntimeCrate is added to a fresh host project.
		RuntimeCrate string `json:"runtime_crate" mapstructure:"runtime_crate"`
		// RemotePrefixes lists URL prefixes treated as remote sources.
		RemotePrefixes []RemotePrefix `json:"remote_prefixes" mapstructure:"remote_prefixes"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug logging and detailed error output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Toolchain:      DefaultToolchain,
		VCS:            DefaultVCS,
		RuntimeCrate:   DefaultRuntimeCrate,
		RemotePrefixes: []RemotePrefix{DefaultRemotePrefix},
	}
}

// String returns the string representation of the CommandLine.
func (c CommandLine) String() string { return string(c) }

// Error implements the error interface.
func (e *InvalidCommandLineError) Error() string {
	return fmt.Sprintf("invalid %s command line %q: must name a program", e.Field, e.Value)
}

// Unwrap returns ErrInvalidCommandLine for errors.Is() compatibility.
func (e *InvalidCommandLineError) Unwrap() error { return ErrInvalidCommandLine }

// String returns the string representation of the RemotePrefix.
func (p RemotePrefix) String() string { return string(p) }

// Validate returns nil if the prefix starts with http:// or https://.
func (p RemotePrefix) Validate() error {
	s := string(p)
	if !strings.HasPrefix(s, "https://") && !strings.HasPrefix(s, "http://") {
		return &InvalidRemotePrefixError{Value: p}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidRemotePrefixError) Error() string {
	return fmt.Sprintf("invalid remote prefix %q: must start with http:// or https://", e.Value)
}

// Unwrap returns ErrInvalidRemotePrefix for errors.Is() compatibility.
func (e *InvalidRemotePrefixError) Unwrap() error { return ErrInvalidRemotePrefix }

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	if c.DataDir != "" {
		if err := c.DataDir.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if strings.TrimSpace(string(c.Toolchain)) == "" {
		errs = append(errs, &InvalidCommandLineError{Field: "toolchain", Value: c.Toolchain})
	}
	if strings.TrimSpace(string(c.VCS)) == "" {
		errs = append(errs, &InvalidCommandLineError{Field: "vcs", Value: c.VCS})
	}
	if strings.TrimSpace(c.RuntimeCrate) == "" {
		errs = append(errs, fmt.Errorf("runtime_crate must not be empty"))
	}
	for _, p := range c.RemotePrefixes {
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// PrefixStrings returns the remote prefixes as plain strings.
func (c Config) PrefixStrings() []string {
	out := make([]string, len(c.RemotePrefixes))
	for i, p := range c.RemotePrefixes {
		out[i] = p.String()
	}
	return out
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
