// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is read from the file given with --config, else from
// config.cue in the platform config directory (~/.config/solpack on Linux,
// ~/Library/Application Support/solpack on macOS, %APPDATA%\solpack on
// Windows), else from solpack.cue in the working directory. Files are
// validated against the embedded #Config schema (config_schema.cue). The
// directory keys may also come from SOLPACK_INPUT_DIR, SOLPACK_OUTPUT_DIR and
// SOLPACK_WORKSPACE_DIR.
package config
