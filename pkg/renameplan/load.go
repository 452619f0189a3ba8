// SPDX-License-Identifier: MPL-2.0

package renameplan

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/solpack/solpack/internal/cueutil"
)

// Format identifies a plan file syntax.
type Format string

const (
	FormatCUE  Format = "cue"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DefaultSource is the Source of the embedded default plan.
const DefaultSource = "<default>"

var (
	//go:embed plan_schema.cue
	planSchema []byte

	//go:embed default_plan.cue
	defaultPlan []byte
)

// Default compiles the embedded default plan.
func Default() (*Plan, error) {
	return Parse(defaultPlan, FormatCUE, DefaultSource)
}

// Load reads and compiles the plan file at path. The syntax is chosen from
// the file extension (.cue, .yaml/.yml, .toml).
func Load(path string) (*Plan, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}
	return Parse(data, format, path)
}

// FormatFromPath maps a file extension to a Format.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return FormatCUE, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s (expected .cue, .yaml, .yml or .toml)", ErrUnsupportedFormat, path)
	}
}

// Parse decodes data in the given format and compiles it.
func Parse(data []byte, format Format, source string) (*Plan, error) {
	spec, err := DecodeSpec(data, format, source)
	if err != nil {
		return nil, err
	}
	return Compile(*spec, source)
}

// DecodeSpec decodes data into a Spec without compiling it.
func DecodeSpec(data []byte, format Format, source string) (*Spec, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, source); err != nil {
		return nil, err
	}

	switch format {
	case FormatCUE:
		result, err := cueutil.ParseAndDecode[Spec](planSchema, data, "#Plan", cueutil.WithFilename(source))
		if err != nil {
			return nil, &InvalidPlanError{Source: source, Problems: []error{err}}
		}
		return result.Value, nil

	case FormatYAML:
		var spec Spec
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&spec); err != nil {
			return nil, &InvalidPlanError{Source: source, Problems: []error{err}}
		}
		return &spec, nil

	case FormatTOML:
		var spec Spec
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&spec); err != nil {
			return nil, &InvalidPlanError{Source: source, Problems: []error{err}}
		}
		return &spec, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
