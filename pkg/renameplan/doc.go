// SPDX-License-Identifier: MPL-2.0

// Package renameplan defines the table of identifier substitutions that turns
// a managed solution export into an unmanaged one under another publisher.
//
// A Plan is compiled once from a declarative Spec (CUE, YAML or TOML, or the
// embedded default) and is immutable afterwards. Every rewriter and the path
// remapper consume it read-only through RulesFor, ForTarget and Lookup.
//
// Rules come in two flavours:
//
//   - substitutions carry a non-empty Old value and only apply to a node whose
//     current value equals Old exactly (case-sensitive, no substrings);
//   - overwrites carry an empty Old value and set the targeted node whatever
//     its current value (the managed flag, solution and publisher identity).
//
// No two substitutions in the same Scope may share an Old value.
package renameplan
