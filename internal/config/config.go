// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/kura-dev/kura/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "kura"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides (KURA_TOOLCHAIN, ...).
	EnvPrefix = "KURA"

	maxConfigFileSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the kura configuration directory: $XDG_CONFIG_HOME/kura on
// Linux, ~/Library/Application Support/kura on macOS, %LOCALAPPDATA%\kura on
// Windows.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if xdg.ConfigHome == "" {
		return "", fmt.Errorf("failed to determine config directory")
	}
	return filepath.Join(xdg.ConfigHome, AppName), nil
}

// FilePath returns the config file kura reads for opts, whether or not it exists.
func FilePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath.String(), nil
	}
	cfgDir, err := configDirWithOverride(opts.ConfigDirPath.String())
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// loadWithOptions performs option-driven config loading. It returns the
// effective config and the file it came from ("" when only defaults and
// environment applied).
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("toolchain", defaults.Toolchain)
	v.SetDefault("vcs", defaults.VCS)
	v.SetDefault("runtime_crate", defaults.RuntimeCrate)
	v.SetDefault("remote_prefixes", defaults.PrefixStrings())
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := FilePath(opts)
	if err != nil {
		return nil, "", err
	}

	resolvedPath := ""
	switch {
	case fileExists(path):
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Use 'kura config show' to see the effective configuration").
				Wrap(err).
				BuildError()
		}
		resolvedPath = path
	case opts.ConfigFilePath != "":
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Check that the file exists and is readable").
			Wrap(fmt.Errorf("config file not found: %s", path)).
			BuildError()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Check KURA_* environment variables for blank values").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper merges a validated config file into v. Values from the
// file sit above defaults and below KURA_* environment variables.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	values, err := decodeConfigFile(data, path)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(values); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// decodeConfigFile checks data against the embedded #Config definition and
// returns the keys it sets. Non-concrete values are accepted so a partial
// file only overrides what it names.
func decodeConfigFile(data []byte, path string) (map[string]any, error) {
	if len(data) > maxConfigFileSize {
		return nil, fmt.Errorf("%s: file too large (%d bytes, limit %d)", path, len(data), maxConfigFileSize)
	}

	cctx := cuecontext.New()
	schema := cctx.CompileString(configSchema).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("config schema: %w", err)
	}

	file := cctx.CompileBytes(data, cue.Filename(path))
	if err := file.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	unified := schema.Unify(file)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return nil, formatCUEError(err)
	}

	var values map[string]any
	if err := unified.Decode(&values); err != nil {
		return nil, formatCUEError(err)
	}
	return values, nil
}

// formatCUEError flattens a CUE error list into one line per problem, each
// carrying its source position.
func formatCUEError(err error) error {
	details := strings.TrimSpace(cueerrors.Details(err, nil))
	if details == "" {
		return err
	}
	return fmt.Errorf("%s", details)
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config file at path unless one exists.
// It reports whether a file was written.
func CreateDefaultConfig(path string) (bool, error) {
	if fileExists(path) {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}

	return true, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// kura configuration file\n\n")

	if cfg.DataDir != "" {
		fmt.Fprintf(&sb, "data_dir: %q\n", cfg.DataDir)
	}
	fmt.Fprintf(&sb, "toolchain: %q\n", cfg.Toolchain)
	fmt.Fprintf(&sb, "vcs: %q\n", cfg.VCS)
	fmt.Fprintf(&sb, "runtime_crate: %q\n", cfg.RuntimeCrate)

	sb.WriteString("\nremote_prefixes: [\n")
	for _, p := range cfg.RemotePrefixes {
		fmt.Fprintf(&sb, "\t%q,\n", p)
	}
	sb.WriteString("]\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
