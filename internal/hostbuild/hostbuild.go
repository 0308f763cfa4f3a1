// SPDX-License-Identifier: MPL-2.0

package hostbuild

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/kura-dev/kura/internal/process"
	"github.com/kura-dev/kura/internal/registry"
	"github.com/kura-dev/kura/pkg/kurapkg"
	"github.com/kura-dev/kura/pkg/platform"
)

const (
	// DefaultToolchain is the build tool command line.
	DefaultToolchain = "cargo"
	// DefaultRuntimeCrate is the dependency added to a fresh scaffold.
	DefaultRuntimeCrate = "koto"
	// DefaultHostName names the host project directory, package and binary.
	DefaultHostName = "koto-local"

	manifestFile = "Cargo.toml"
)

var (
	// ErrScaffoldInitFailed is returned when the toolchain cannot initialize
	// the host project or add the runtime crate to it.
	ErrScaffoldInitFailed = errors.New("host project initialization failed")
	// ErrBuildFailed is returned when the toolchain fails to compile the host project.
	ErrBuildFailed = errors.New("host project build failed")
)

type (
	// ToolchainError carries the failing toolchain step and its captured stderr.
	ToolchainError struct {
		Step    string
		Command string
		Stderr  string
		Err     error
		kind    error
	}

	// Options configures a Synthesizer.
	Options struct {
		Store  *registry.Store
		Runner process.Runner
		Fs     afero.Fs
		// ScaffoldDir is where the host project lives.
		ScaffoldDir string
		// HostName defaults to DefaultHostName.
		HostName string
		// Toolchain is the build tool command line; may carry arguments.
		Toolchain string
		// RuntimeCrate is added to a fresh scaffold.
		RuntimeCrate string
		// Template overrides the embedded entry-point template.
		Template string
		// GOOS selects the artifact file name; defaults to runtime.GOOS.
		GOOS string
		// Out receives status messages; ErrOut receives toolchain output.
		Out    io.Writer
		ErrOut io.Writer
		Logger *log.Logger
	}

	// Synthesizer owns the host project lifecycle.
	Synthesizer struct {
		store        *registry.Store
		runner       process.Runner
		fs           afero.Fs
		dir          string
		hostName     string
		toolchain    string
		runtimeCrate string
		template     string
		goos         string
		out          io.Writer
		errOut       io.Writer
		logger       *log.Logger
	}
)

// Error implements the error interface.
func (e *ToolchainError) Error() string {
	msg := fmt.Sprintf("%s failed (%s)", e.Step, e.Command)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Stderr != "" {
		msg += "\n" + e.Stderr
	}
	return msg
}

// Unwrap returns the failure sentinel and the underlying cause, if any.
func (e *ToolchainError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.Err}
}

// New creates a Synthesizer.
func New(opts Options) *Synthesizer {
	s := &Synthesizer{
		store:        opts.Store,
		runner:       opts.Runner,
		fs:           opts.Fs,
		dir:          opts.ScaffoldDir,
		hostName:     orDefault(opts.HostName, DefaultHostName),
		toolchain:    orDefault(opts.Toolchain, DefaultToolchain),
		runtimeCrate: orDefault(opts.RuntimeCrate, DefaultRuntimeCrate),
		template:     orDefault(opts.Template, entryPointTemplate),
		goos:         orDefault(opts.GOOS, runtime.GOOS),
		out:          opts.Out,
		errOut:       opts.ErrOut,
		logger:       opts.Logger,
	}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.out == nil {
		s.out = io.Discard
	}
	if s.errOut == nil {
		s.errOut = io.Discard
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// Dir returns the scaffold directory.
func (s *Synthesizer) Dir() string { return s.dir }

// ArtifactPath returns where the toolchain places the host binary for mode.
func (s *Synthesizer) ArtifactPath(mode Mode) string {
	return filepath.Join(s.dir, "target", mode.ProfileDir(), platform.ExecutableName(s.goos, s.hostName))
}

// ArtifactExists reports whether a host binary for mode is already present.
func (s *Synthesizer) ArtifactExists(mode Mode) bool {
	ok, err := afero.Exists(s.fs, s.ArtifactPath(mode))
	return err == nil && ok
}

// Build brings the host project to the Built state for mode and returns the
// artifact path. The manifest and entry point are regenerated on every call.
func (s *Synthesizer) Build(ctx context.Context, mode Mode) (string, error) {
	if err := mode.Validate(); err != nil {
		return "", err
	}

	if err := s.ensureScaffold(ctx); err != nil {
		return "", err
	}

	pkgs := s.store.Load().Packages()
	if err := s.writeManifest(pkgs); err != nil {
		return "", err
	}
	if err := s.writeEntryPoint(pkgs); err != nil {
		return "", err
	}

	cmd, err := process.NewCommand(s.toolchain, s.dir, mode.BuildArgs()...)
	if err != nil {
		return "", &ToolchainError{Step: "build", Command: s.toolchain, Err: err, kind: ErrBuildFailed}
	}
	cmd.Stdout = s.errOut
	cmd.Stderr = s.errOut

	s.logger.Debug("building host project", "cmd", cmd.String(), "mode", mode, "packages", len(pkgs))
	if err := s.run(ctx, "build", cmd, ErrBuildFailed); err != nil {
		return "", err
	}

	fmt.Fprintf(s.out, "Koto built at: %s\n", s.dir)
	return s.ArtifactPath(mode), nil
}

// Clean removes the scaffold directory and every build output in it.
func (s *Synthesizer) Clean(_ context.Context) error {
	if err := s.fs.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", s.dir, err)
	}
	fmt.Fprintf(s.out, "Cleaned project '%s' at: %s\n", s.hostName, s.dir)
	return nil
}

// ensureScaffold initializes the host project when its manifest is missing.
// A failed initialization leaves no scaffold behind.
func (s *Synthesizer) ensureScaffold(ctx context.Context) error {
	manifest := filepath.Join(s.dir, manifestFile)
	if ok, err := afero.Exists(s.fs, manifest); err == nil && ok {
		return nil
	}

	s.logger.Debug("initializing host project", "dir", s.dir)
	if err := s.fs.RemoveAll(s.dir); err != nil {
		return &ToolchainError{Step: "init", Command: s.toolchain, Err: err, kind: ErrScaffoldInitFailed}
	}
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return &ToolchainError{Step: "init", Command: s.toolchain, Err: err, kind: ErrScaffoldInitFailed}
	}

	steps := []struct {
		name string
		args []string
	}{
		{"init", []string{"init", "--bin", "--name", s.hostName}},
		{"add " + s.runtimeCrate, []string{"add", s.runtimeCrate}},
	}
	for _, step := range steps {
		cmd, err := process.NewCommand(s.toolchain, s.dir, step.args...)
		if err == nil {
			err = s.run(ctx, step.name, cmd, ErrScaffoldInitFailed)
		} else {
			err = &ToolchainError{Step: step.name, Command: s.toolchain, Err: err, kind: ErrScaffoldInitFailed}
		}
		if err != nil {
			if rmErr := s.fs.RemoveAll(s.dir); rmErr != nil {
				s.logger.Warn("failed to remove partial host project", "dir", s.dir, "err", rmErr)
			}
			return err
		}
	}
	return nil
}

func (s *Synthesizer) writeManifest(pkgs []kurapkg.Package) error {
	path := filepath.Join(s.dir, manifestFile)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return fmt.Errorf("failed to read host manifest: %w", err)
	}

	updated, err := RewriteManifest(data, s.hostName, pkgs)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(s.fs, path, updated, 0o644); err != nil {
		return fmt.Errorf("failed to write host manifest: %w", err)
	}
	return nil
}

func (s *Synthesizer) writeEntryPoint(pkgs []kurapkg.Package) error {
	names := make([]kurapkg.Name, len(pkgs))
	for i, pkg := range pkgs {
		names[i] = pkg.Name
	}

	source, err := RenderEntryPoint(s.template, names)
	if err != nil {
		return err
	}

	path := filepath.Join(s.dir, filepath.FromSlash(entryPointPath))
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := afero.WriteFile(s.fs, path, []byte(source), 0o644); err != nil {
		return fmt.Errorf("failed to write entry point: %w", err)
	}
	return nil
}

func (s *Synthesizer) run(ctx context.Context, step string, cmd process.Command, kind error) error {
	res, err := s.runner.Run(ctx, cmd)
	if err != nil {
		return &ToolchainError{Step: step, Command: cmd.String(), Stderr: res.StderrText(), Err: err, kind: kind}
	}
	if !res.Success() {
		return &ToolchainError{
			Step:    step,
			Command: cmd.String(),
			Stderr:  res.StderrText(),
			Err:     fmt.Errorf("exit status %d", res.ExitCode),
			kind:    kind,
		}
	}
	return nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
