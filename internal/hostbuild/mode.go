// SPDX-License-Identifier: MPL-2.0

package hostbuild

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ModeRelease builds with optimizations. It is the default.
	ModeRelease Mode = "release"
	// ModeDebug builds without optimizations.
	ModeDebug Mode = "debug"
)

// ErrInvalidMode is the sentinel error wrapped by InvalidModeError.
var ErrInvalidMode = errors.New("invalid build mode")

type (
	// Mode selects the build profile.
	Mode string

	// InvalidModeError is returned when a Mode value is not recognized.
	InvalidModeError struct {
		Value Mode
	}
)

// ParseMode parses a user-supplied mode, case-insensitively. Empty selects ModeRelease.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return ModeRelease, nil
	}
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

// String returns the string representation of the Mode.
func (m Mode) String() string { return string(m) }

// Validate returns nil if the Mode is ModeDebug or ModeRelease.
func (m Mode) Validate() error {
	switch m {
	case ModeDebug, ModeRelease:
		return nil
	default:
		return &InvalidModeError{Value: m}
	}
}

// ProfileDir is the directory under target/ the toolchain writes to.
func (m Mode) ProfileDir() string { return string(m) }

// BuildArgs returns the toolchain arguments for this mode.
func (m Mode) BuildArgs() []string {
	if m == ModeDebug {
		return []string{"build"}
	}
	return []string{"build", "--release"}
}

// Error implements the error interface.
func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid build mode %q (must be %q or %q)", e.Value, ModeDebug, ModeRelease)
}

// Unwrap returns ErrInvalidMode for errors.Is() compatibility.
func (e *InvalidModeError) Unwrap() error { return ErrInvalidMode }
