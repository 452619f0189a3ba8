// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions; the issue catalog holds Markdown guidance per failure class,
// rendered with glamour when a repackage run fails.
package issue
