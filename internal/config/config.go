// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/solpack/solpack/internal/cueutil"
	"github.com/solpack/solpack/internal/issue"
	"github.com/solpack/solpack/pkg/types"
)

const (
	// AppName is the application name.
	AppName = "solpack"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// LocalConfigFile is looked up in the working directory.
	LocalConfigFile = AppName + "." + ConfigFileExt
	// EnvPrefix prefixes the environment overrides of directory keys.
	EnvPrefix = "SOLPACK"
)

// envKeys lists the only keys read from the environment.
var envKeys = []string{"input_dir", "output_dir", "workspace_dir"}

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the solpack configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (types.FilesystemPath, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return types.FilesystemPath(filepath.Join(configDir, AppName)), nil
}

// LoadWithSource loads the configuration and returns the file it came from,
// or "" when only defaults and the environment applied.
func LoadWithSource(ctx context.Context, opts LoadOptions) (*Config, string, error) {
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
	v.SetDefault("input_dir", string(defaults.InputDir))
	v.SetDefault("output_dir", string(defaults.OutputDir))
	v.SetDefault("workspace_dir", string(defaults.WorkspaceDir))
	v.SetDefault("plan_file", defaults.PlanFile)
	v.SetDefault("ui.color_scheme", string(defaults.UI.ColorScheme))
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, "", fmt.Errorf("bind %s: %w", key, err)
		}
	}

	resolvedPath, err := resolveConfigFile(opts)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", configError(resolvedPath, err,
				"Check that the file contains valid CUE syntax",
				"Verify the configuration values match the expected schema",
				"Use 'solpack config show' to see the effective configuration")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", configError(resolvedPath, err,
			"Directory settings must not be blank",
			"ui.color_scheme must be one of auto, dark, light")
	}

	return &cfg, resolvedPath, nil
}

// resolveConfigFile applies the lookup order. An explicit file must exist;
// the implicit locations are optional.
func resolveConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		path := string(opts.ConfigFilePath)
		if !fileExists(path) {
			return "", configError(path, fmt.Errorf("config file not found: %s", path),
				"Verify the file path is correct",
				"Check that the file exists and is readable")
		}
		return path, nil
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		var err error
		if cfgDir, err = ConfigDir(); err != nil {
			return "", err
		}
	}
	if cuePath := filepath.Join(string(cfgDir), ConfigFileName+"."+ConfigFileExt); fileExists(cuePath) {
		return cuePath, nil
	}

	localPath := filepath.Join(string(opts.BaseDir), LocalConfigFile)
	if fileExists(localPath) {
		return localPath, nil
	}
	return "", nil
}

func configError(resource string, err error, suggestions ...string) error {
	ctx := issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(resource).
		WithIssue(issue.ConfigLoadFailedId)
	for _, s := range suggestions {
		ctx = ctx.WithSuggestion(s)
	}
	return ctx.Wrap(err).BuildError()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.DecodeMap([]byte(configSchema), data, "#Config", cueutil.WithFilename(path))
	if err != nil {
		return err
	}

	// Merging keeps defaults and lets bound environment variables win.
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// solpack configuration\n\n")
	fmt.Fprintf(&sb, "input_dir:     %q\n", cfg.InputDir)
	fmt.Fprintf(&sb, "output_dir:    %q\n", cfg.OutputDir)
	fmt.Fprintf(&sb, "workspace_dir: %q\n", cfg.WorkspaceDir)
	if cfg.PlanFile != "" {
		fmt.Fprintf(&sb, "plan_file:     %q\n", cfg.PlanFile)
	}

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
