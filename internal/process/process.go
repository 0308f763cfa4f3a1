// SPDX-License-Identifier: MPL-2.0

package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/kura-dev/kura/pkg/platform"
	"github.com/kura-dev/kura/pkg/types"

	"mvdan.cc/sh/v3/shell"
)

// ErrEmptyCommandLine is returned when a configured command line has no words.
var ErrEmptyCommandLine = errors.New("empty command line")

type (
	// Command describes a single child process invocation.
	Command struct {
		// Name is the program to run, resolved through PATH.
		Name string
		// Args are passed to the program verbatim.
		Args []string
		// Dir is the working directory; empty means the current directory.
		Dir string
		// Stdin is connected to the child's standard input when non-nil.
		Stdin io.Reader
		// Stdout and Stderr, when non-nil, receive output as it is produced.
		// Output is captured into the Result either way.
		Stdout io.Writer
		Stderr io.Writer
	}

	// Result holds the outcome of a finished child process.
	Result struct {
		Stdout   []byte
		Stderr   []byte
		ExitCode types.ExitCode
	}

	// Runner starts a child process and waits for it to exit.
	Runner interface {
		Run(ctx context.Context, cmd Command) (Result, error)
	}

	// ExecRunner is the production Runner backed by os/exec.
	ExecRunner struct {
		sandbox platform.SandboxType
	}
)

// NewExecRunner creates a Runner that spawns real processes. When kura itself
// runs inside a Flatpak sandbox, commands are forwarded to the host.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{sandbox: platform.DetectSandbox()}
}

// String renders the command line for log and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Success reports whether the process exited with status zero.
func (r Result) Success() bool { return r.ExitCode.IsSuccess() }

// StderrText returns the captured standard error with surrounding whitespace trimmed.
func (r Result) StderrText() string { return strings.TrimSpace(string(r.Stderr)) }

// Run executes cmd and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	name, args := platform.HostCommand(r.sandbox, cmd.Name, cmd.Args)

	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, name, args...)
	c.Dir = cmd.Dir
	c.Stdin = cmd.Stdin
	c.Stdout = teeWriter(&stdout, cmd.Stdout)
	c.Stderr = teeWriter(&stderr, cmd.Stderr)

	err := c.Run()
	result := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := types.ExitCode(exitErr.ExitCode())
		if validateErr := code.Validate(); validateErr != nil {
			// Killed by a signal; report a generic failure.
			code = 1
		}
		result.ExitCode = code
		return result, nil
	}

	result.ExitCode = 1
	return result, fmt.Errorf("failed to start %s: %w", cmd.Name, err)
}

// ParseCommandLine splits a configured command line such as "cargo +nightly"
// into words using POSIX shell quoting rules. Environment references are
// expanded from the current process environment.
func ParseCommandLine(line string) ([]string, error) {
	words, err := shell.Fields(line, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid command line %q: %w", line, err)
	}
	if len(words) == 0 {
		return nil, ErrEmptyCommandLine
	}
	return words, nil
}

// NewCommand builds a Command from a configured command line followed by
// extra arguments.
func NewCommand(line, dir string, args ...string) (Command, error) {
	words, err := ParseCommandLine(line)
	if err != nil {
		return Command{}, err
	}
	return Command{
		Name: words[0],
		Args: append(words[1:], args...),
		Dir:  dir,
	}, nil
}

func teeWriter(capture *bytes.Buffer, stream io.Writer) io.Writer {
	if stream == nil {
		return capture
	}
	return io.MultiWriter(capture, stream)
}
