// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"github.com/beevik/etree"

	"github.com/solpack/solpack/pkg/renameplan"
)

var (
	registryNames     = Descendants("Name")
	registryFileNames = Descendants("FileName")
)

// CustomizationsRewriter edits the Name and FileName registrations in
// customizations.xml. Only exact, case-sensitive matches are rewritten.
type CustomizationsRewriter struct{}

// Name implements Rewriter.
func (CustomizationsRewriter) Name() string { return "customizations" }

// Rewrite implements Rewriter.
func (CustomizationsRewriter) Rewrite(root *etree.Element, plan *renameplan.Plan) []Edit {
	ed := &editor{plan: plan}
	ed.text(root, registryNames, renameplan.TargetRegistryName)
	ed.text(root, registryFileNames, renameplan.TargetRegistryFileName)
	return ed.edits
}
