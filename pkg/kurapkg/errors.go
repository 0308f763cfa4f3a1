// SPDX-License-Identifier: MPL-2.0

package kurapkg

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvableSource is returned when a source is neither a known remote
	// URL nor an existing filesystem path.
	ErrUnresolvableSource = errors.New("unresolvable package source")
	// ErrRemoteManifestUnavailable is returned when a remote manifest cannot be
	// fetched or parsed.
	ErrRemoteManifestUnavailable = errors.New("remote manifest unavailable")
	// ErrLocalManifestUnavailable is returned when a local manifest cannot be
	// read or parsed.
	ErrLocalManifestUnavailable = errors.New("local manifest unavailable")
	// ErrManifestFieldMissing is returned when a manifest lacks package.name.
	ErrManifestFieldMissing = errors.New("manifest field missing")
	// ErrReservedName is returned when a package name collides with a name kura
	// uses for its own files.
	ErrReservedName = errors.New("reserved package name")
)

type (
	// UnresolvableSourceError carries the source that could not be classified.
	UnresolvableSourceError struct {
		Source string
	}

	// ManifestUnavailableError reports a manifest that could not be read,
	// fetched or parsed. Location is a URL for remote manifests and a file
	// path for local ones.
	ManifestUnavailableError struct {
		Location string
		Remote   bool
		Err      error
	}

	// ManifestFieldMissingError reports a manifest without a usable field.
	ManifestFieldMissingError struct {
		Location string
		Field    string
	}

	// ReservedNameError reports a package name kura cannot accept.
	ReservedNameError struct {
		Name Name
	}
)

// Error implements the error interface.
func (e *UnresolvableSourceError) Error() string {
	return fmt.Sprintf("cannot resolve package source %q: not a supported remote URL and no such path exists", e.Source)
}

// Unwrap returns ErrUnresolvableSource for errors.Is() compatibility.
func (e *UnresolvableSourceError) Unwrap() error { return ErrUnresolvableSource }

// Error implements the error interface.
func (e *ManifestUnavailableError) Error() string {
	where := "local"
	if e.Remote {
		where = "remote"
	}
	return fmt.Sprintf("%s manifest %s unavailable: %v", where, e.Location, e.Err)
}

// Unwrap returns the kind sentinel and the underlying cause.
func (e *ManifestUnavailableError) Unwrap() []error {
	sentinel := ErrLocalManifestUnavailable
	if e.Remote {
		sentinel = ErrRemoteManifestUnavailable
	}
	return []error{sentinel, e.Err}
}

// Error implements the error interface.
func (e *ManifestFieldMissingError) Error() string {
	return fmt.Sprintf("manifest %s does not declare %s", e.Location, e.Field)
}

// Unwrap returns ErrManifestFieldMissing for errors.Is() compatibility.
func (e *ManifestFieldMissingError) Unwrap() error { return ErrManifestFieldMissing }

// Error implements the error interface.
func (e *ReservedNameError) Error() string {
	return fmt.Sprintf("package name %q is reserved by kura", e.Name)
}

// Unwrap returns ErrReservedName for errors.Is() compatibility.
func (e *ReservedNameError) Unwrap() error { return ErrReservedName }
