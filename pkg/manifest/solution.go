// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"slices"

	"github.com/beevik/etree"

	"github.com/solpack/solpack/pkg/renameplan"
)

const languageCodeAttr = "languagecode"

var (
	solutionManifest = Child("SolutionManifest")
	publisher        = solutionManifest.Child("Publisher")
	rootComponents   = solutionManifest.Child("RootComponents").Child("RootComponent")
)

// SolutionRewriter edits solution.xml: the solution identity, the managed
// flag, the publisher block and the root component schema names.
type SolutionRewriter struct{}

// Name implements Rewriter.
func (SolutionRewriter) Name() string { return "solution manifest" }

// Rewrite implements Rewriter.
func (SolutionRewriter) Rewrite(root *etree.Element, plan *renameplan.Plan) []Edit {
	ed := &editor{plan: plan}
	locale := plan.Locale()

	ed.text(root, solutionManifest.Child("UniqueName"), renameplan.TargetSolutionUniqueName)
	names := solutionManifest.Descendants("LocalizedName").WhereAttr(languageCodeAttr, locale)
	nameElems := names.All(root)
	// A publisher display-name rule owns the publisher's labels.
	if pub := publisher.First(root); pub != nil && len(plan.ForTarget(renameplan.TargetPublisherDisplayName)) > 0 {
		nameElems = slices.DeleteFunc(nameElems, func(e *etree.Element) bool { return isWithin(e, pub) })
	}
	ed.attrOf(nameElems, names, "description", renameplan.TargetSolutionDisplayName)
	ed.text(root, solutionManifest.Child("Managed"), renameplan.TargetSolutionManaged)

	// Absent in some exports.
	if publisher.First(root) != nil {
		ed.text(root, publisher.Child("UniqueName"), renameplan.TargetPublisherUniqueName)
		ed.attr(root, publisher.Descendants("LocalizedName").WhereAttr(languageCodeAttr, locale),
			"description", renameplan.TargetPublisherDisplayName)
		ed.attr(root, publisher.Descendants("Description").WhereAttr(languageCodeAttr, locale),
			"description", renameplan.TargetPublisherDescription)
		ed.text(root, publisher.Child("CustomizationPrefix"), renameplan.TargetPublisherPrefix)
		ed.text(root, publisher.Child("CustomizationOptionValuePrefix"), renameplan.TargetPublisherOptionValuePrefix)
	}

	ed.attr(root, rootComponents, "schemaName", renameplan.TargetComponentSchemaName)
	return ed.edits
}

func isWithin(e, ancestor *etree.Element) bool {
	for p := e.Parent(); p != nil; p = p.Parent() {
		if p == ancestor {
			return true
		}
	}
	return false
}
