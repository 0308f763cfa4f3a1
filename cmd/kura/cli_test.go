// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/kura-dev/kura/internal/config"
	"github.com/kura-dev/kura/internal/dispatch"
	"github.com/kura-dev/kura/internal/hostbuild"
	"github.com/kura-dev/kura/internal/process"
	"github.com/kura-dev/kura/internal/testutil"
	"github.com/kura-dev/kura/pkg/kurapkg"
	"github.com/kura-dev/kura/pkg/platform"
	"github.com/kura-dev/kura/pkg/types"
)

const hostManifest = `[package]
name = "koto-local"
version = "0.1.0"
edition = "2021"

[dependencies]
koto = "0.15.3"
`

type (
	staticConfigProvider struct {
		cfg *config.Config
	}

	cliHarness struct {
		app     *App
		runner  *testutil.FakeRunner
		stdout  *bytes.Buffer
		stderr  *bytes.Buffer
		dataDir string
	}
)

func (p staticConfigProvider) Load(_ context.Context, _ config.LoadOptions) (*config.Config, error) {
	cfg := *p.cfg
	return &cfg, nil
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.DataDir = types.FilesystemPath(t.TempDir())

	h := &cliHarness{
		runner:  testutil.NewFakeRunner(),
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		dataDir: cfg.DataDir.String(),
	}
	h.app = NewApp(Dependencies{
		Config: staticConfigProvider{cfg: cfg},
		Runner: h.runner,
		Stdin:  strings.NewReader(""),
		Stdout: h.stdout,
		Stderr: h.stderr,
	})
	return h
}

func (h *cliHarness) execute(t *testing.T, args ...string) error {
	t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()
	return h.app.Execute(t.Context(), args)
}

func (h *cliHarness) scaffoldDir() string {
	return filepath.Join(h.dataDir, "kura", "crates", "koto-local")
}

func (h *cliHarness) artifact(profile string) string {
	return filepath.Join(h.scaffoldDir(), "target", profile, platform.ExecutableName(runtime.GOOS, "koto-local"))
}

// fakeCargo answers init by writing a fresh manifest and build by writing
// the artifact for the requested profile.
func (h *cliHarness) fakeCargo() {
	h.runner.
		On("cargo", "init", testutil.Do(func(cmd process.Command) error {
			return os.WriteFile(filepath.Join(cmd.Dir, "Cargo.toml"), []byte(hostManifest), 0o644)
		})).
		On("cargo", "build", testutil.Do(func(cmd process.Command) error {
			profile := "debug"
			for _, a := range cmd.Args {
				if a == "--release" {
					profile = "release"
				}
			}
			path := h.artifact(profile)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			return os.WriteFile(path, []byte("bin"), 0o755)
		}))
}

func TestCLI_InstallListRemove(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)
	pkgDir := filepath.Join(t.TempDir(), "koto-json")
	testutil.WritePackageManifest(t, pkgDir, "koto-json")

	if err := h.execute(t, "list"); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "No packages installed.") {
		t.Errorf("list on empty registry = %q", h.stdout.String())
	}

	if err := h.execute(t, "install", pkgDir); err != nil {
		t.Fatalf("install: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "Installed package: koto-json (local)") {
		t.Errorf("install output = %q", h.stdout.String())
	}
	if got := h.runner.Calls(); len(got) != 0 {
		t.Errorf("local install spawned %v, want no processes", got)
	}

	if err := h.execute(t, "install", pkgDir); err != nil {
		t.Fatalf("second install: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "Package 'koto-json' is already installed.") {
		t.Errorf("duplicate install output = %q", h.stdout.String())
	}

	if err := h.execute(t, "list"); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "- koto-json (local)") {
		t.Errorf("list output = %q", h.stdout.String())
	}

	if err := h.execute(t, "remove", "koto-jsn"); err != nil {
		t.Fatalf("remove typo: %v", err)
	}
	out := h.stdout.String()
	if !strings.Contains(out, "Package 'koto-jsn' is not installed.") || !strings.Contains(out, "Did you mean: koto-json?") {
		t.Errorf("remove typo output = %q", out)
	}

	if err := h.execute(t, "remove", "--purge", "koto-json"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "Removed package: koto-json") {
		t.Errorf("remove output = %q", h.stdout.String())
	}
	if _, err := os.Stat(filepath.Join(pkgDir, "Cargo.toml")); err != nil {
		t.Errorf("purge touched a local package directory: %v", err)
	}
}

func TestCLI_InstallFailures(t *testing.T) {
	t.Parallel()

	t.Run("unresolvable source", func(t *testing.T) {
		t.Parallel()

		h := newCLIHarness(t)
		err := h.execute(t, "install", filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, kurapkg.ErrUnresolvableSource) {
			t.Fatalf("install error = %v, want ErrUnresolvableSource", err)
		}
		if !strings.Contains(h.stderr.String(), "Error:") {
			t.Errorf("stderr = %q, want rendered error", h.stderr.String())
		}
	})

	t.Run("reserved name", func(t *testing.T) {
		t.Parallel()

		h := newCLIHarness(t)
		pkgDir := filepath.Join(t.TempDir(), "host")
		testutil.WritePackageManifest(t, pkgDir, "koto-local")

		err := h.execute(t, "install", pkgDir)
		if !errors.Is(err, kurapkg.ErrReservedName) {
			t.Fatalf("install error = %v, want ErrReservedName", err)
		}
	})

	t.Run("missing argument", func(t *testing.T) {
		t.Parallel()

		h := newCLIHarness(t)
		if err := h.execute(t, "install"); err == nil {
			t.Fatal("install without a source succeeded")
		}
	})
}

func TestCLI_RunBuildsAndPropagatesExitCode(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)
	h.fakeCargo()
	h.runner.On(h.artifact("release"), "", testutil.Reply("hello from koto\n", "", 3))

	script := filepath.Join(t.TempDir(), "hello.koto")
	testutil.MustWriteFile(t, script, "print 'hello from koto'\n")

	err := h.execute(t, "run", script)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("run error = %v, want *ExitError", err)
	}
	if exitErr.Code != 3 {
		t.Errorf("exit code = %d, want 3", exitErr.Code)
	}
	if strings.Contains(h.stderr.String(), "Error:") {
		t.Errorf("script exit status should not be rendered as an error: %q", h.stderr.String())
	}

	out := h.stdout.String()
	if !strings.Contains(out, "Koto built at: "+h.scaffoldDir()) {
		t.Errorf("stdout = %q, want build confirmation", out)
	}
	if !strings.Contains(out, "hello from koto") {
		t.Errorf("stdout = %q, want script output", out)
	}

	for _, sub := range []string{"init", "add", "build"} {
		if n := len(h.runner.CallsTo("cargo", sub)); n != 1 {
			t.Errorf("cargo %s called %d times, want 1", sub, n)
		}
	}
	if _, err := os.Stat(filepath.Join(h.scaffoldDir(), "src", "main.rs")); err != nil {
		t.Errorf("entry point not generated: %v", err)
	}

	// A second run reuses the artifact.
	if err := h.execute(t, "run", script); err == nil {
		t.Fatal("second run: expected exit error")
	}
	if n := len(h.runner.CallsTo("cargo", "build")); n != 1 {
		t.Errorf("cargo build called %d times after reuse, want 1", n)
	}
}

func TestCLI_RunMissingScript(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)
	h.fakeCargo()

	err := h.execute(t, "run", filepath.Join(t.TempDir(), "nope.koto"))
	if !errors.Is(err, dispatch.ErrScriptNotFound) {
		t.Fatalf("run error = %v, want ErrScriptNotFound", err)
	}
	if got := h.runner.Calls(); len(got) != 0 {
		t.Errorf("missing script spawned %v, want nothing", got)
	}
}

func TestCLI_InvalidMode(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)
	err := h.execute(t, "build", "--mode", "fast")
	if !errors.Is(err, hostbuild.ErrInvalidMode) {
		t.Fatalf("build error = %v, want ErrInvalidMode", err)
	}
}

func TestCLI_BuildAndClean(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)
	h.fakeCargo()

	if err := h.execute(t, "build", "--mode", "debug"); err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := os.Stat(h.artifact("debug")); err != nil {
		t.Fatalf("debug artifact missing: %v", err)
	}

	if err := h.execute(t, "clean"); err != nil {
		t.Fatalf("clean: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "Cleaned project 'koto-local' at: "+h.scaffoldDir()) {
		t.Errorf("clean output = %q", h.stdout.String())
	}
	if _, err := os.Stat(h.scaffoldDir()); !os.IsNotExist(err) {
		t.Errorf("scaffold still present after clean: %v", err)
	}
}

func TestCLI_BuildFailure(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)
	h.fakeCargo()
	h.runner.On("cargo", "build", testutil.Reply("", "error[E0425]: cannot find value\n", 101))

	err := h.execute(t, "build")
	if !errors.Is(err, hostbuild.ErrBuildFailed) {
		t.Fatalf("build error = %v, want ErrBuildFailed", err)
	}
}

func TestCLI_ConfigPath(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)
	path := filepath.Join(t.TempDir(), "custom.cue")
	if err := h.execute(t, "--config", path, "config", "path"); err != nil {
		t.Fatalf("config path: %v", err)
	}
	if got := strings.TrimSpace(h.stdout.String()); got != path {
		t.Errorf("config path = %q, want %q", got, path)
	}
}

func TestCLI_ConfigInit(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)
	path := filepath.Join(t.TempDir(), "kura", "config.cue")

	if err := h.execute(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "Created default configuration at "+path) {
		t.Errorf("config init output = %q", h.stdout.String())
	}
	data := testutil.MustReadFile(t, path)
	if !strings.Contains(data, `toolchain: "cargo"`) {
		t.Errorf("generated config = %q", data)
	}

	if err := h.execute(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("second config init: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "already exists") {
		t.Errorf("second config init output = %q", h.stdout.String())
	}
}

func TestCLI_ConfigShow(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)
	if err := h.execute(t, "--config", filepath.Join(t.TempDir(), "absent.cue"), "config", "show"); err != nil {
		t.Fatalf("config show: %v", err)
	}
	out := h.stdout.String()
	for _, want := range []string{"Current Configuration", "(using defaults)", "cargo", "https://github.com/", filepath.Join(h.dataDir, "kura")} {
		if !strings.Contains(out, want) {
			t.Errorf("config show output missing %q:\n%s", want, out)
		}
	}
}
