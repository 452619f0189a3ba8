// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/solpack/solpack/internal/issue"
	"github.com/solpack/solpack/internal/testutil"
	"github.com/solpack/solpack/pkg/types"
)

// isolated returns options whose implicit lookups hit empty temp dirs.
func isolated(t *testing.T) LoadOptions {
	t.Helper()
	return LoadOptions{
		ConfigDirPath: types.FilesystemPath(t.TempDir()),
		BaseDir:       types.FilesystemPath(t.TempDir()),
	}
}

func load(t *testing.T, opts LoadOptions) (*Config, string) {
	t.Helper()
	cfg, source, err := LoadWithSource(context.Background(), opts)
	if err != nil {
		t.Fatalf("LoadWithSource() failed: %v", err)
	}
	return cfg, source
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.InputDir != "Input" || cfg.OutputDir != "Packaged Solutions" || cfg.WorkspaceDir != "Temporary" {
		t.Errorf("directories = %q, %q, %q", cfg.InputDir, cfg.OutputDir, cfg.WorkspaceDir)
	}
	if cfg.PlanFile != "" {
		t.Errorf("PlanFile = %q, want empty", cfg.PlanFile)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto || cfg.UI.Verbose {
		t.Errorf("UI = %+v", cfg.UI)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestLoad_DefaultsWhenNoConfigFile(t *testing.T) {
	t.Parallel()

	cfg, source := load(t, isolated(t))
	if source != "" {
		t.Errorf("source = %q, want empty", source)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoad_ConfigDirFile(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	path := filepath.Join(string(opts.ConfigDirPath), "config.cue")
	testutil.MustWriteFile(t, path, `
output_dir: "dist"
plan_file:  "plans/acme.yaml"
ui: verbose: true
`)

	cfg, source := load(t, opts)
	if source != path {
		t.Errorf("source = %q, want %q", source, path)
	}
	if cfg.OutputDir != "dist" || cfg.PlanFile != "plans/acme.yaml" || !cfg.UI.Verbose {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.InputDir != DefaultInputDir || cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_LocalFileWhenConfigDirEmpty(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	path := filepath.Join(string(opts.BaseDir), LocalConfigFile)
	testutil.MustWriteFile(t, path, `input_dir: "exports"`)

	cfg, source := load(t, opts)
	if source != path || cfg.InputDir != "exports" {
		t.Errorf("source = %q, cfg = %+v", source, cfg)
	}
}

func TestLoad_ConfigDirWinsOverLocalFile(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	testutil.MustWriteFile(t, filepath.Join(string(opts.ConfigDirPath), "config.cue"), `input_dir: "from-dir"`)
	testutil.MustWriteFile(t, filepath.Join(string(opts.BaseDir), LocalConfigFile), `input_dir: "from-local"`)

	cfg, _ := load(t, opts)
	if cfg.InputDir != "from-dir" {
		t.Errorf("InputDir = %q, want from-dir", cfg.InputDir)
	}
}

func TestLoad_CustomPath(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	testutil.MustWriteFile(t, filepath.Join(string(opts.ConfigDirPath), "config.cue"), `input_dir: "ignored"`)
	custom := filepath.Join(t.TempDir(), "custom.cue")
	testutil.MustWriteFile(t, custom, `workspace_dir: "scratch"`)
	opts.ConfigFilePath = types.FilesystemPath(custom)

	cfg, source := load(t, opts)
	if source != custom {
		t.Errorf("source = %q", source)
	}
	if cfg.WorkspaceDir != "scratch" || cfg.InputDir != DefaultInputDir {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_CustomPathNotFound(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	opts.ConfigFilePath = types.FilesystemPath(filepath.Join(t.TempDir(), "missing.cue"))

	_, _, err := LoadWithSource(context.Background(), opts)
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error = %v, want *issue.ActionableError", err)
	}
	if ae.Issue != issue.ConfigLoadFailedId || !ae.HasSuggestions() {
		t.Errorf("ActionableError = %+v", ae)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"syntax error", `input_dir: "unterminated`},
		{"unknown field", `container_engine: "docker"`},
		{"wrong type", `ui: verbose: "yes"`},
		{"bad color scheme", `ui: color_scheme: "neon"`},
		{"blank directory", `output_dir: "   "`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := isolated(t)
			path := filepath.Join(string(opts.ConfigDirPath), "config.cue")
			testutil.MustWriteFile(t, path, tt.content)

			_, _, err := LoadWithSource(context.Background(), opts)
			if err == nil {
				t.Fatal("LoadWithSource() succeeded, want error")
			}
			if !strings.Contains(err.Error(), "load configuration") {
				t.Errorf("error = %v, want load configuration context", err)
			}
		})
	}
}

func TestLoad_EnvironmentOverridesDirectories(t *testing.T) {
	opts := isolated(t)
	testutil.MustWriteFile(t, filepath.Join(string(opts.ConfigDirPath), "config.cue"), `output_dir: "from-file"`)
	t.Setenv("SOLPACK_OUTPUT_DIR", "from-env")
	t.Setenv("SOLPACK_WORKSPACE_DIR", "/tmp/ws")
	t.Setenv("SOLPACK_PLAN_FILE", "ignored.yaml")

	cfg, _ := load(t, opts)
	if cfg.OutputDir != "from-env" || cfg.WorkspaceDir != "/tmp/ws" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.PlanFile != "" {
		t.Errorf("PlanFile = %q, only directories come from the environment", cfg.PlanFile)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := LoadWithSource(ctx, isolated(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestProvider_Load(t *testing.T) {
	t.Parallel()

	cfg, err := NewProvider().Load(context.Background(), isolated(t))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.WorkspaceDir != DefaultWorkspaceDir {
		t.Errorf("WorkspaceDir = %q", cfg.WorkspaceDir)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	want := DefaultConfig()
	want.PlanFile = "plan.toml"
	want.UI.Verbose = true

	opts := isolated(t)
	path := filepath.Join(string(opts.ConfigDirPath), "config.cue")
	testutil.MustWriteFile(t, path, GenerateCUE(want))

	got, _ := load(t, opts)
	if *got != *want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("APPDATA", dir)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() failed: %v", err)
	}
	if got.Base() != AppName {
		t.Errorf("ConfigDir() = %s, want a %s directory", got, AppName)
	}
}
