// SPDX-License-Identifier: MPL-2.0

// Package manifest rewrites the XML documents of a solution archive.
//
// Every edit is structural: a Query locates elements by tag and attribute
// predicates, and the rewriter sets element text or one attribute. The
// serialized document is never searched or replaced as a string, so a value
// that merely contains an old identifier (in a comment, another locale or an
// unrelated attribute) is left alone.
//
// Three rewriters exist, one per document type: SolutionRewriter
// (solution.xml), CustomizationsRewriter (customizations.xml) and
// ControlRewriter (Controls/<name>/ControlManifest.xml). Each is driven by a
// renameplan.Plan and reports the edits it made.
package manifest
