// SPDX-License-Identifier: MPL-2.0

package kurapkg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kura-dev/kura/pkg/platform"
)

const (
	// KindRemote is a package cloned from a source-control URL.
	KindRemote Kind = "remote"
	// KindLocal is a package referenced in place from a local directory.
	KindLocal Kind = "local"
)

var (
	// ErrInvalidKind is the sentinel error wrapped by InvalidKindError.
	ErrInvalidKind = errors.New("invalid package kind")
	// ErrInvalidName is the sentinel error wrapped by InvalidNameError.
	ErrInvalidName = errors.New("invalid package name")
)

type (
	// Kind says where a package's source lives. It is decided once during
	// resolution and never changes afterwards.
	Kind string

	// InvalidKindError is returned when a Kind value is not recognized.
	InvalidKindError struct {
		Value Kind
	}

	// Name is a package's canonical name as declared by its manifest.
	// It doubles as the registry key, the dependency key in the host manifest,
	// and (for remote packages) the clone directory name.
	Name string

	// InvalidNameError is returned when a Name cannot be used as a registry
	// key or directory name.
	InvalidNameError struct {
		Value  Name
		Reason string
	}

	// Package is a resolved package identity.
	Package struct {
		// Name is unique within the registry.
		Name Name `toml:"name"`
		// Kind records whether the package was cloned or referenced in place.
		Kind Kind `toml:"kind"`
		// Locator is the source-control URL for remote packages; blank for local ones.
		Locator string `toml:"locator"`
		// LocalPath is the absolute path of the package root directory.
		LocalPath string `toml:"local_path"`
	}
)

// String returns the label used in listings ("remote" or "local").
func (k Kind) String() string { return string(k) }

// Validate returns nil if the Kind is KindRemote or KindLocal.
func (k Kind) Validate() error {
	switch k {
	case KindRemote, KindLocal:
		return nil
	default:
		return &InvalidKindError{Value: k}
	}
}

// Error implements the error interface.
func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("invalid package kind %q (must be %q or %q)", e.Value, KindRemote, KindLocal)
}

// Unwrap returns ErrInvalidKind for errors.Is() compatibility.
func (e *InvalidKindError) Unwrap() error { return ErrInvalidKind }

// String returns the string representation of the Name.
func (n Name) String() string { return string(n) }

// ModuleIdent returns the identifier the package is known by inside Rust
// source and the script prelude: hyphens become underscores.
func (n Name) ModuleIdent() string { return strings.ReplaceAll(string(n), "-", "_") }

// Validate returns nil if the Name is safe to use as a registry key and a
// directory name on every supported platform.
func (n Name) Validate() error {
	s := string(n)
	switch {
	case strings.TrimSpace(s) == "":
		return &InvalidNameError{Value: n, Reason: "must not be empty"}
	case s != strings.TrimSpace(s):
		return &InvalidNameError{Value: n, Reason: "must not have surrounding whitespace"}
	case s == "." || s == "..":
		return &InvalidNameError{Value: n, Reason: "must not be a relative directory reference"}
	case strings.ContainsAny(s, `/\:`):
		return &InvalidNameError{Value: n, Reason: "must not contain path separators"}
	case platform.IsWindowsReservedName(s):
		return &InvalidNameError{Value: n, Reason: "is a reserved file name on Windows"}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid package name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidName for errors.Is() compatibility.
func (e *InvalidNameError) Unwrap() error { return ErrInvalidName }

// Validate checks the package fields that the registry relies on.
func (p Package) Validate() error {
	var errs []error
	if err := p.Name.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := p.Kind.Validate(); err != nil {
		errs = append(errs, err)
	}
	if p.Kind == KindRemote && strings.TrimSpace(p.Locator) == "" {
		errs = append(errs, fmt.Errorf("remote package %q has no locator", p.Name))
	}
	if strings.TrimSpace(p.LocalPath) == "" {
		errs = append(errs, fmt.Errorf("package %q has no local path", p.Name))
	}
	return errors.Join(errs...)
}
