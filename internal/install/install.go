// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/kura-dev/kura/internal/process"
	"github.com/kura-dev/kura/internal/registry"
	"github.com/kura-dev/kura/pkg/kurapkg"
)

// DefaultVCS is the version-control command used to clone remote packages.
const DefaultVCS = "git"

// ErrCloneFailed is returned when the version-control tool fails to clone a
// remote package.
var ErrCloneFailed = errors.New("clone failed")

type (
	// Resolver classifies a source string and reads its manifest.
	Resolver interface {
		Resolve(ctx context.Context, source string) (kurapkg.Package, error)
	}

	// CloneError carries the failing command's captured stderr.
	CloneError struct {
		Locator string
		Dest    string
		Stderr  string
		Err     error
	}

	// Options configures an Orchestrator.
	Options struct {
		Resolver  Resolver
		Store     *registry.Store
		Runner    process.Runner
		Fs        afero.Fs
		CratesDir string
		// VCS is the clone command line; empty means [DefaultVCS].
		VCS    string
		Out    io.Writer
		Logger *log.Logger
	}

	// Orchestrator performs install, remove and list.
	Orchestrator struct {
		resolver  Resolver
		store     *registry.Store
		runner    process.Runner
		fs        afero.Fs
		cratesDir string
		vcs       string
		out       io.Writer
		logger    *log.Logger
	}
)

// Error implements the error interface.
func (e *CloneError) Error() string {
	msg := fmt.Sprintf("failed to clone %s into %s", e.Locator, e.Dest)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Stderr != "" {
		msg += "\n" + e.Stderr
	}
	return msg
}

// Unwrap returns ErrCloneFailed and the underlying cause, if any.
func (e *CloneError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCloneFailed}
	}
	return []error{ErrCloneFailed, e.Err}
}

// New creates an Orchestrator.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		resolver:  opts.Resolver,
		store:     opts.Store,
		runner:    opts.Runner,
		fs:        opts.Fs,
		cratesDir: opts.CratesDir,
		vcs:       opts.VCS,
		out:       opts.Out,
		logger:    opts.Logger,
	}
	if o.fs == nil {
		o.fs = afero.NewOsFs()
	}
	if strings.TrimSpace(o.vcs) == "" {
		o.vcs = DefaultVCS
	}
	if o.out == nil {
		o.out = io.Discard
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	return o
}

// Install resolves source and records it. A package whose name is already
// installed is reported and left untouched, and no clone happens.
func (o *Orchestrator) Install(ctx context.Context, source string) error {
	pkg, err := o.resolver.Resolve(ctx, source)
	if err != nil {
		return err
	}

	reg := o.store.Load()
	if reg.Contains(pkg.Name) {
		fmt.Fprintf(o.out, "Package '%s' is already installed.\n", pkg.Name)
		return nil
	}

	if pkg.Kind == kurapkg.KindRemote {
		if err := o.clone(ctx, pkg); err != nil {
			return err
		}
	}

	reg.Install(pkg)
	if err := o.store.Save(reg); err != nil {
		return fmt.Errorf("failed to save registry: %w", err)
	}

	fmt.Fprintf(o.out, "Installed package: %s (%s)\n", pkg.Name, pkg.Kind)
	return nil
}

// Remove deletes the package named name from the registry. With purge, the
// managed clone of a remote package is deleted too. A missing package is
// reported with close matches and the registry file is not rewritten.
func (o *Orchestrator) Remove(_ context.Context, name kurapkg.Name, purge bool) error {
	reg := o.store.Load()
	pkg, ok := reg.Get(name)
	if !ok {
		fmt.Fprintf(o.out, "Package '%s' is not installed.\n", name)
		if suggestions := reg.Suggest(name); len(suggestions) > 0 {
			fmt.Fprintf(o.out, "Did you mean: %s?\n", joinNames(suggestions))
		}
		return nil
	}

	reg.Remove(name)
	if err := o.store.Save(reg); err != nil {
		return fmt.Errorf("failed to save registry: %w", err)
	}
	fmt.Fprintf(o.out, "Removed package: %s\n", name)

	if purge {
		return o.purge(pkg)
	}
	return nil
}

// List prints every installed package with its kind in installation order.
func (o *Orchestrator) List(_ context.Context) error {
	reg := o.store.Load()
	if reg.Len() == 0 {
		fmt.Fprintln(o.out, "No packages installed.")
		return nil
	}

	fmt.Fprintln(o.out, "Installed packages:")
	for name, kind := range reg.List() {
		fmt.Fprintf(o.out, "- %s (%s)\n", name, kind)
	}
	return nil
}

func (o *Orchestrator) clone(ctx context.Context, pkg kurapkg.Package) error {
	if err := o.fs.MkdirAll(o.cratesDir, 0o755); err != nil {
		return &CloneError{Locator: pkg.Locator, Dest: pkg.LocalPath, Err: err}
	}

	cmd, err := process.NewCommand(o.vcs, o.cratesDir, "clone", pkg.Locator, pkg.Name.String())
	if err != nil {
		return &CloneError{Locator: pkg.Locator, Dest: pkg.LocalPath, Err: err}
	}

	o.logger.Debug("cloning package", "cmd", cmd.String(), "dir", cmd.Dir)
	res, err := o.runner.Run(ctx, cmd)
	if err != nil {
		return &CloneError{Locator: pkg.Locator, Dest: pkg.LocalPath, Stderr: res.StderrText(), Err: err}
	}
	if !res.Success() {
		return &CloneError{Locator: pkg.Locator, Dest: pkg.LocalPath, Stderr: res.StderrText()}
	}
	return nil
}

func (o *Orchestrator) purge(pkg kurapkg.Package) error {
	if pkg.Kind != kurapkg.KindRemote {
		o.logger.Debug("not purging local package directory", "path", pkg.LocalPath)
		return nil
	}
	if !within(o.cratesDir, pkg.LocalPath) {
		o.logger.Warn("refusing to purge clone outside crates directory", "path", pkg.LocalPath)
		return nil
	}
	if err := o.fs.RemoveAll(pkg.LocalPath); err != nil {
		return fmt.Errorf("failed to delete %s: %w", pkg.LocalPath, err)
	}
	fmt.Fprintf(o.out, "Deleted clone at: %s\n", pkg.LocalPath)
	return nil
}

// within reports whether path is strictly below dir.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

func joinNames(names []kurapkg.Name) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n.String()
	}
	return strings.Join(parts, ", ")
}
