// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kura-dev/kura/internal/hostbuild"
)

const modeFlagUsage = "build profile: debug or release"

func newBuildCommand(app *App) *cobra.Command {
	var mode string

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Build the Koto interpreter with all installed packages",
		Long: `Build the Koto interpreter.

The host project is created on first use, its dependencies are synchronized
with the installed packages, and the toolchain compiles it. Toolchain output
is shown on standard error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := hostbuild.ParseMode(mode)
			if err != nil {
				return err
			}
			s, err := app.session(cmd.Context())
			if err != nil {
				return err
			}
			_, err = s.host.Build(cmd.Context(), m)
			return wrapFailure("build host project", s.host.Dir(), err)
		},
	}

	buildCmd.Flags().StringVar(&mode, "mode", string(hostbuild.ModeRelease), modeFlagUsage)

	return buildCmd
}

func newRunCommand(app *App) *cobra.Command {
	var mode string

	runCmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run a Koto script",
		Long: `Run a Koto script with the interpreter.

The interpreter is built first when no binary exists for the selected mode.
An existing binary is reused as is; run 'kura build' after installing or
removing packages. The script's exit code becomes kura's exit code.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := hostbuild.ParseMode(mode)
			if err != nil {
				return err
			}
			s, err := app.session(cmd.Context())
			if err != nil {
				return err
			}

			code, err := s.dispatcher.Run(cmd.Context(), args[0], m)
			if err != nil {
				return wrapFailure("run script", args[0], err)
			}
			if !code.IsSuccess() {
				s.logger.Debug("script exited with non-zero status", "code", code)
				return &ExitError{Code: code}
			}
			return nil
		},
	}

	runCmd.Flags().StringVar(&mode, "mode", string(hostbuild.ModeRelease), modeFlagUsage)

	return runCmd
}

func newCleanCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Delete the host project and its build outputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.session(cmd.Context())
			if err != nil {
				return err
			}
			return wrapFailure("clean host project", s.host.Dir(), s.host.Clean(cmd.Context()))
		},
	}
}
