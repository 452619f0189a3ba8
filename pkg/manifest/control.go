// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"github.com/beevik/etree"

	"github.com/solpack/solpack/pkg/renameplan"
)

var controlNode = Descendants("control")

// ControlRewriter sets the namespace of the first control declared in a
// ControlManifest.xml to the new publisher prefix.
type ControlRewriter struct{}

// Name implements Rewriter.
func (ControlRewriter) Name() string { return "control manifest" }

// Rewrite implements Rewriter.
func (ControlRewriter) Rewrite(root *etree.Element, plan *renameplan.Plan) []Edit {
	ed := &editor{plan: plan}
	// A root that is itself the control element is accepted too.
	control := controlNode.First(root)
	if control == nil && root != nil && root.Tag == "control" {
		control = root
	}
	if control == nil {
		return nil
	}
	ed.attrOf([]*etree.Element{control}, controlNode, "namespace", renameplan.TargetControlNamespace)
	return ed.edits
}
