// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/kura-dev/kura/pkg/kurapkg"
)

type (
	// Store loads and saves a Registry at a fixed path.
	Store struct {
		fs     afero.Fs
		path   string
		logger *log.Logger
	}

	// document is the on-disk shape of the registry.
	document struct {
		Packages []kurapkg.Package `toml:"packages"`
	}
)

// NewStore creates a Store for the registry document at path.
// A nil logger discards warnings.
func NewStore(fsys afero.Fs, path string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{fs: fsys, path: path, logger: logger}
}

// Path returns the location of the registry document.
func (s *Store) Path() string { return s.path }

// Load reads the registry. It never fails: a missing document yields an empty
// registry, and an unreadable or malformed one is logged and treated as empty.
// Entries that fail validation or repeat an earlier name are skipped.
func (s *Store) Load() *Registry {
	reg := New()

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("registry unreadable, starting empty", "path", s.path, "err", err)
		}
		return reg
	}

	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("registry malformed, starting empty", "path", s.path, "err", err)
		return reg
	}

	for _, pkg := range doc.Packages {
		if err := pkg.Validate(); err != nil {
			s.logger.Warn("skipping invalid registry entry", "name", pkg.Name, "err", err)
			continue
		}
		if !reg.Install(pkg) {
			s.logger.Warn("skipping duplicate registry entry", "name", pkg.Name)
		}
	}
	return reg
}

// Save writes the full registry, replacing any previous document.
func (s *Store) Save(reg *Registry) error {
	data, err := toml.Marshal(document{Packages: reg.Packages()})
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write registry: %w", err)
	}

	if err := s.fs.Rename(tmpPath, s.path); err != nil {
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("failed to rename registry: %w", err)
	}

	return nil
}
