// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/kura-dev/kura/internal/config"
	"github.com/kura-dev/kura/internal/dispatch"
	"github.com/kura-dev/kura/internal/hostbuild"
	"github.com/kura-dev/kura/internal/install"
	"github.com/kura-dev/kura/internal/issue"
	"github.com/kura-dev/kura/internal/process"
	"github.com/kura-dev/kura/internal/registry"
	"github.com/kura-dev/kura/internal/workspace"
	"github.com/kura-dev/kura/pkg/kurapkg"
	"github.com/kura-dev/kura/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra handler receives the App and builds
	// a session from it.
	App struct {
		Config     ConfigProvider
		Runner     process.Runner
		Fs         afero.Fs
		HTTPClient *http.Client
		stdin      io.Reader
		stdout     io.Writer
		stderr     io.Writer

		flags   rootFlags
		verbose bool
		logger  *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config     ConfigProvider
		Runner     process.Runner
		Fs         afero.Fs
		HTTPClient *http.Client
		Stdin      io.Reader
		Stdout     io.Writer
		Stderr     io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// session holds the services for one command invocation, built from the
	// effective configuration.
	session struct {
		cfg        *config.Config
		workspace  *workspace.Workspace
		logger     *log.Logger
		installer  *install.Orchestrator
		host       *hostbuild.Synthesizer
		dispatcher *dispatch.Dispatcher
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:     deps.Config,
		Runner:     deps.Runner,
		Fs:         deps.Fs,
		HTTPClient: deps.HTTPClient,
		stdin:      deps.Stdin,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Runner == nil {
		app.Runner = process.NewExecRunner()
	}
	if app.Fs == nil {
		app.Fs = afero.NewOsFs()
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	app.logger = newLogger(app.stderr, false)
	return app
}

// Execute runs the command line args (os.Args when nil) through fang.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := newRootCommand(a)
	rootCmd.SetIn(a.stdin)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)
	if args != nil {
		rootCmd.SetArgs(args)
	}

	return fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(a.renderError),
	)
}

// configOptions converts global flags into config load options.
func (a *App) configOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: types.FilesystemPath(a.flags.configFile)}
}

// loadConfig loads the configuration, falling back to defaults with a
// warning when the file cannot be used.
func (a *App) loadConfig(ctx context.Context) *config.Config {
	cfg, err := a.Config.Load(ctx, a.configOptions())
	if err != nil {
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.flags.verbose))
		return config.DefaultConfig()
	}
	return cfg
}

// session builds the services for one command invocation.
func (a *App) session(ctx context.Context) (*session, error) {
	cfg := a.loadConfig(ctx)

	a.verbose = a.flags.verbose || cfg.UI.Verbose
	a.logger = newLogger(a.stderr, a.verbose)

	ws, err := workspace.New(cfg.DataDir.String())
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("locate data directory").
			WithSuggestion("Set data_dir in the config file or KURA_DATA_DIR").
			WithIssue(issue.DataDirUnavailableId).
			Wrap(err).
			BuildError()
	}
	a.logger.Debug("using workspace", "root", ws.Root())

	store := registry.NewStore(a.Fs, ws.RegistryPath(), a.logger)

	resolver := kurapkg.NewResolver(ws.CratesDir(), workspace.HostName)
	resolver.RemotePrefixes = cfg.PrefixStrings()
	resolver.HTTPClient = a.HTTPClient

	host := hostbuild.New(hostbuild.Options{
		Store:        store,
		Runner:       a.Runner,
		Fs:           a.Fs,
		ScaffoldDir:  ws.ScaffoldDir(),
		HostName:     workspace.HostName,
		Toolchain:    cfg.Toolchain.String(),
		RuntimeCrate: cfg.RuntimeCrate,
		Out:          a.stdout,
		ErrOut:       a.stderr,
		Logger:       a.logger,
	})

	return &session{
		cfg:       cfg,
		workspace: ws,
		logger:    a.logger,
		installer: install.New(install.Options{
			Resolver:  resolver,
			Store:     store,
			Runner:    a.Runner,
			Fs:        a.Fs,
			CratesDir: ws.CratesDir(),
			VCS:       cfg.VCS.String(),
			Out:       a.stdout,
			Logger:    a.logger,
		}),
		host: host,
		dispatcher: dispatch.New(dispatch.Options{
			Builder: host,
			Runner:  a.Runner,
			Stdin:   a.stdin,
			Stdout:  a.stdout,
			Stderr:  a.stderr,
			Logger:  a.logger,
		}),
	}, nil
}
