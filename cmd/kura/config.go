// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kura-dev/kura/internal/config"
	"github.com/kura-dev/kura/internal/issue"
	"github.com/kura-dev/kura/internal/workspace"
)

// newConfigCommand creates the `kura config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage kura configuration",
		Long: `Manage kura configuration.

Configuration is stored in:
  - Linux: ~/.config/kura/config.cue
  - macOS: ~/Library/Application Support/kura/config.cue
  - Windows: %LOCALAPPDATA%\kura\config.cue

Every key can be overridden from the environment with the KURA_ prefix,
for example KURA_TOOLCHAIN or KURA_DATA_DIR.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.FilePath(app.configOptions())
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), app.configOptions())
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.Config.Load(ctx, app.configOptions())
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("load configuration").
			WithSuggestion("Run 'kura config path' to locate the file").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	w := app.stdout

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	cfgPath, pathErr := config.FilePath(app.configOptions())
	if pathErr == nil && fileExistsCheck(cfgPath) {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfgPath)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	if ws, wsErr := workspace.New(cfg.DataDir.String()); wsErr == nil {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Data directory"), ws.Root())
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("toolchain"), valueStyle.Render(cfg.Toolchain.String()))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("vcs"), valueStyle.Render(cfg.VCS.String()))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("runtime_crate"), valueStyle.Render(cfg.RuntimeCrate))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("remote_prefixes"), valueStyle.Render(strings.Join(cfg.PrefixStrings(), ", ")))

	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func initConfig(app *App) error {
	path, err := config.FilePath(app.configOptions())
	if err != nil {
		return err
	}

	created, err := config.CreateDefaultConfig(path)
	if err != nil {
		return wrapFailure("create config file", path, err)
	}
	if !created {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
		return nil
	}

	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

// fileExistsCheck checks if a file exists
func fileExistsCheck(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
