// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for solpack.
//
// This package implements the Cobra command hierarchy: the root command,
// repackage, plan inspection, archive audit and configuration display.
package cmd
