// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kura-dev/kura/pkg/kurapkg"
)

func newInstallCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "install <source>",
		Short: "Install a package from a repository URL or local directory",
		Long: `Install a native extension package.

A source starting with a remote prefix (https://github.com/ by default) is
cloned into kura's data directory. Any other source must be an existing
directory; it is referenced in place and never copied.

The package name always comes from the package's own Cargo.toml.`,
		Example: `  kura install https://github.com/owner/koto-random
  kura install ../koto-json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.session(cmd.Context())
			if err != nil {
				return err
			}
			return wrapFailure("install package", args[0], s.installer.Install(cmd.Context(), args[0]))
		},
	}
}

func newRemoveCommand(app *App) *cobra.Command {
	var purge bool

	removeCmd := &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm", "uninstall"},
		Short:   "Remove an installed package",
		Long: `Remove a package from the registry.

The package stops being compiled into the interpreter on the next build.
With --purge, the cloned sources of a remote package are deleted as well;
a local package's directory is never touched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.session(cmd.Context())
			if err != nil {
				return err
			}
			return wrapFailure("remove package", args[0], s.installer.Remove(cmd.Context(), kurapkg.Name(args[0]), purge))
		},
	}

	removeCmd.Flags().BoolVar(&purge, "purge", false, "also delete the cloned sources of a remote package")

	return removeCmd
}

func newListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List installed packages",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.session(cmd.Context())
			if err != nil {
				return err
			}
			return wrapFailure("list packages", "", s.installer.List(cmd.Context()))
		},
	}
}
