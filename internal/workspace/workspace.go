// SPDX-License-Identifier: MPL-2.0

// Package workspace describes where kura keeps its state on disk: the package
// registry, the managed package clones, and the host build scaffold.
//
//	<data-dir>/kura/config.toml           registry
//	<data-dir>/kura/crates/<package>      cloned remote packages
//	<data-dir>/kura/crates/koto-local     host scaffold
package workspace

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

const (
	// AppDirName is the directory kura creates under the platform data dir.
	AppDirName = "kura"
	// RegistryFileName is the registry document inside the app dir.
	RegistryFileName = "config.toml"
	// CratesDirName holds managed package clones and the host scaffold.
	CratesDirName = "crates"
	// HostName is the host scaffold's directory, package and binary name.
	HostName = "koto-local"
)

// ErrDataDirUnavailable is returned when the platform cannot supply a state directory.
var ErrDataDirUnavailable = errors.New("data directory unavailable")

// Workspace resolves every state path from a single root.
type Workspace struct {
	root string
}

// New creates a Workspace rooted at <dataDir>/kura. An empty dataDir selects
// the platform data directory (XDG_DATA_HOME, ~/Library/Application Support,
// or %LOCALAPPDATA%).
func New(dataDir string) (*Workspace, error) {
	if strings.TrimSpace(dataDir) == "" {
		dataDir = xdg.DataHome
	}
	if strings.TrimSpace(dataDir) == "" {
		return nil, fmt.Errorf("%w: platform reported no data home", ErrDataDirUnavailable)
	}

	abs, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataDirUnavailable, err)
	}

	return &Workspace{root: filepath.Join(abs, AppDirName)}, nil
}

// Root returns <data-dir>/kura.
func (w *Workspace) Root() string { return w.root }

// RegistryPath returns the registry document path.
func (w *Workspace) RegistryPath() string { return filepath.Join(w.root, RegistryFileName) }

// CratesDir returns the directory holding managed clones and the scaffold.
func (w *Workspace) CratesDir() string { return filepath.Join(w.root, CratesDirName) }

// PackageDir returns the managed clone location for a remote package.
func (w *Workspace) PackageDir(name string) string { return filepath.Join(w.CratesDir(), name) }

// ScaffoldDir returns the host scaffold directory.
func (w *Workspace) ScaffoldDir() string { return filepath.Join(w.CratesDir(), HostName) }
