// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for kura.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags holds global flag values for one invocation.
type rootFlags struct {
	verbose    bool
	configFile string
}

func newRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kura",
		Short: "Build a Koto interpreter with native extension packages",
		Long: TitleStyle.Render("kura") + SubtitleStyle.Render(" - Koto with batteries you choose") + `

kura installs native extension packages for the Koto scripting language,
compiles a Koto interpreter that embeds every installed package, and runs
scripts with it. Packages come from a git repository or a local directory
holding a Rust crate that exposes make_module().

` + SubtitleStyle.Render("Quick Start:") + `
  1. Install a package from GitHub or a local directory
  2. Run a script; the interpreter is built on first use

` + SubtitleStyle.Render("Examples:") + `
  kura install https://github.com/owner/koto-random   Install a remote package
  kura install ./koto-json                            Install a local package
  kura run script.koto                                Run a script
  kura build --mode debug                             Build without optimizations
  kura list                                           List installed packages`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.flags.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/kura/config.cue)")

	rootCmd.AddCommand(
		newInstallCommand(app),
		newRemoveCommand(app),
		newListCommand(app),
		newBuildCommand(app),
		newRunCommand(app),
		newCleanCommand(app),
		newConfigCommand(app),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute runs the CLI with the process arguments and exits with the
// resulting status. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := app.Execute(context.Background(), nil); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}
