// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/kura-dev/kura/internal/hostbuild"
	"github.com/kura-dev/kura/internal/process"
	"github.com/kura-dev/kura/pkg/types"
)

// ErrScriptNotFound is returned when the script path cannot be canonicalized.
var ErrScriptNotFound = errors.New("script not found")

type (
	// Builder produces the host binary.
	Builder interface {
		ArtifactPath(mode hostbuild.Mode) string
		ArtifactExists(mode hostbuild.Mode) bool
		Build(ctx context.Context, mode hostbuild.Mode) (string, error)
	}

	// ScriptNotFoundError carries the script path as given by the user.
	ScriptNotFoundError struct {
		Path string
		Err  error
	}

	// Options configures a Dispatcher.
	Options struct {
		Builder Builder
		Runner  process.Runner
		Stdin   io.Reader
		Stdout  io.Writer
		Stderr  io.Writer
		Logger  *log.Logger
	}

	// Dispatcher runs scripts against the host binary.
	Dispatcher struct {
		builder Builder
		runner  process.Runner
		stdin   io.Reader
		stdout  io.Writer
		stderr  io.Writer
		logger  *log.Logger
	}
)

// Error implements the error interface.
func (e *ScriptNotFoundError) Error() string {
	return fmt.Sprintf("script %s not found: %v", e.Path, e.Err)
}

// Unwrap returns ErrScriptNotFound and the underlying cause.
func (e *ScriptNotFoundError) Unwrap() []error { return []error{ErrScriptNotFound, e.Err} }

// New creates a Dispatcher.
func New(opts Options) *Dispatcher {
	d := &Dispatcher{
		builder: opts.Builder,
		runner:  opts.Runner,
		stdin:   opts.Stdin,
		stdout:  opts.Stdout,
		stderr:  opts.Stderr,
		logger:  opts.Logger,
	}
	if d.logger == nil {
		d.logger = log.New(io.Discard)
	}
	return d
}

// Run executes script with the host binary for mode and returns the child's
// exit code. The script is checked before anything is built or spawned. An
// existing artifact is reused even if packages changed since it was built.
func (d *Dispatcher) Run(ctx context.Context, script string, mode hostbuild.Mode) (types.ExitCode, error) {
	if err := mode.Validate(); err != nil {
		return 1, err
	}

	canonical, err := canonicalize(script)
	if err != nil {
		return 1, &ScriptNotFoundError{Path: script, Err: err}
	}

	artifact := d.builder.ArtifactPath(mode)
	if d.builder.ArtifactExists(mode) {
		d.logger.Debug("reusing existing host binary", "path", artifact)
	} else {
		d.logger.Debug("host binary missing, building", "mode", mode)
		if artifact, err = d.builder.Build(ctx, mode); err != nil {
			return 1, err
		}
	}

	res, err := d.runner.Run(ctx, process.Command{
		Name:   artifact,
		Args:   []string{canonical},
		Stdin:  d.stdin,
		Stdout: d.stdout,
		Stderr: d.stderr,
	})
	if err != nil {
		return res.ExitCode, fmt.Errorf("failed to run %s: %w", artifact, err)
	}
	return res.ExitCode, nil
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
