// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"github.com/solpack/solpack/pkg/types"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultInputDir is scanned for managed archives.
	DefaultInputDir types.FilesystemPath = "Input"
	// DefaultOutputDir receives unmanaged archives.
	DefaultOutputDir types.FilesystemPath = "Packaged Solutions"
	// DefaultWorkspaceDir is the scratch directory of a run.
	DefaultWorkspaceDir types.FilesystemPath = "Temporary"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// the field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// InputDir is scanned for *_managed.zip archives.
		InputDir types.FilesystemPath `json:"input_dir" mapstructure:"input_dir"`
		// OutputDir receives the unmanaged archives.
		OutputDir types.FilesystemPath `json:"output_dir" mapstructure:"output_dir"`
		// WorkspaceDir is the scratch directory of a run.
		WorkspaceDir types.FilesystemPath `json:"workspace_dir" mapstructure:"workspace_dir"`
		// PlanFile selects a rename plan file; empty means the built-in plan.
		PlanFile string `json:"plan_file" mapstructure:"plan_file"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging of every edit and move
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// Validate returns nil when every directory is set and the color scheme is
// known, or an *InvalidConfigError listing each problem.
func (c Config) Validate() error {
	var errs []error
	for _, p := range []types.FilesystemPath{c.InputDir, c.OutputDir, c.WorkspaceDir} {
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid config: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid config: %d field errors", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig and every field error.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// Validate returns nil if the ColorScheme is one of the defined schemes.
func (cs ColorScheme) Validate() error {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: cs}
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		InputDir:     DefaultInputDir,
		OutputDir:    DefaultOutputDir,
		WorkspaceDir: DefaultWorkspaceDir,
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}
