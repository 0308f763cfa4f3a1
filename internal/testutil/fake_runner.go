// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"io"
	"slices"
	"sync"

	"github.com/kura-dev/kura/internal/process"
	"github.com/kura-dev/kura/pkg/types"
)

type (
	// FakeHandler produces the outcome of a faked command. Handlers may touch
	// the filesystem to mimic side effects (a clone directory, a built artifact).
	FakeHandler func(cmd process.Command) (process.Result, error)

	// FakeRunner is a process.Runner that records invocations and answers
	// them from registered handlers. Unmatched commands succeed silently.
	FakeRunner struct {
		mu       sync.Mutex
		calls    []process.Command
		handlers []fakeRoute
	}

	fakeRoute struct {
		name    string
		sub     string
		handler FakeHandler
	}
)

// NewFakeRunner creates a FakeRunner with no handlers.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// On registers a handler for commands named name whose first argument is sub.
// An empty sub matches any arguments. Later registrations take precedence.
func (f *FakeRunner) On(name, sub string, h FakeHandler) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = append(f.handlers, fakeRoute{name: name, sub: sub, handler: h})
	return f
}

// Run implements process.Runner.
func (f *FakeRunner) Run(_ context.Context, cmd process.Command) (process.Result, error) {
	f.mu.Lock()
	cmd.Args = slices.Clone(cmd.Args)
	f.calls = append(f.calls, cmd)
	var handler FakeHandler
	for i := len(f.handlers) - 1; i >= 0; i-- {
		route := f.handlers[i]
		if route.name != cmd.Name {
			continue
		}
		if route.sub != "" && (len(cmd.Args) == 0 || cmd.Args[0] != route.sub) {
			continue
		}
		handler = route.handler
		break
	}
	f.mu.Unlock()

	if handler == nil {
		return process.Result{}, nil
	}
	return handler(cmd)
}

// Calls returns every recorded invocation in order.
func (f *FakeRunner) Calls() []process.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// CallsTo returns recorded invocations of name whose first argument is sub.
func (f *FakeRunner) CallsTo(name, sub string) []process.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []process.Command
	for _, c := range f.calls {
		if c.Name == name && (sub == "" || (len(c.Args) > 0 && c.Args[0] == sub)) {
			out = append(out, c)
		}
	}
	return out
}

// Reply returns a handler that writes stdout/stderr to the command's streams
// (when set) and exits with code.
func Reply(stdout, stderr string, code types.ExitCode) FakeHandler {
	return func(cmd process.Command) (process.Result, error) {
		writeStream(cmd.Stdout, stdout)
		writeStream(cmd.Stderr, stderr)
		return process.Result{Stdout: []byte(stdout), Stderr: []byte(stderr), ExitCode: code}, nil
	}
}

// Do returns a handler that runs fn for its side effects and then succeeds.
// A non-nil error from fn is returned as a start failure.
func Do(fn func(cmd process.Command) error) FakeHandler {
	return func(cmd process.Command) (process.Result, error) {
		if err := fn(cmd); err != nil {
			return process.Result{ExitCode: 1}, err
		}
		return process.Result{}, nil
	}
}

func writeStream(w io.Writer, s string) {
	if w == nil || s == "" {
		return
	}
	_, _ = io.WriteString(w, s)
}
