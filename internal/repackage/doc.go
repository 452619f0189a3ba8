// SPDX-License-Identifier: MPL-2.0

// Package repackage turns a managed solution archive into an unmanaged one
// under a new identity.
//
// Run sequences the stages strictly: discover the input, prepare the
// workspace, extract, rewrite solution.xml, rewrite customizations.xml, move
// the web resource, rename the control folder (rewriting its manifest),
// pack the output and clean up. Any stage error aborts the run; no output
// archive is left behind on failure.
package repackage
