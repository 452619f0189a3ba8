// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/solpack/solpack/pkg/fspath"
	"github.com/solpack/solpack/pkg/renameplan"
	"github.com/solpack/solpack/pkg/types"
)

// Working-tree locations of the rewritten documents.
const (
	SolutionFile       = "solution.xml"
	CustomizationsFile = "customizations.xml"
)

type (
	// Rewriter applies the plan's rules for one document type.
	Rewriter interface {
		// Name identifies the document type in logs.
		Name() string
		// Rewrite edits the tree under root in place and reports every
		// changed value. Rules without a matching node are skipped.
		Rewrite(root *etree.Element, plan *renameplan.Plan) []Edit
	}

	// Edit records one changed value.
	Edit struct {
		Target renameplan.Target
		// Node is the query that located the element.
		Node string
		// Attr names the rewritten attribute; empty for element text.
		Attr string
		Old  string
		New  string
	}

	// FileResult describes one RewriteFile call.
	FileResult struct {
		Path types.FilesystemPath
		// Skipped is set when the document does not exist.
		Skipped bool
		Edits   []Edit
	}
)

// String renders the edit for progress output.
func (e Edit) String() string {
	node := e.Node
	if e.Attr != "" {
		node += "/@" + e.Attr
	}
	return fmt.Sprintf("%s %s: %q -> %q", e.Target, node, e.Old, e.New)
}

// RewriteFile loads path, applies rw and saves the result. A missing file is
// skipped without error; a file that exists but does not parse fails with
// *ParseError.
func RewriteFile(path types.FilesystemPath, rw Rewriter, plan *renameplan.Plan) (FileResult, error) {
	result := FileResult{Path: path}
	if !fspath.IsFile(path) {
		result.Skipped = true
		return result, nil
	}

	doc, err := Load(path)
	if err != nil {
		return result, err
	}
	result.Edits = rw.Rewrite(doc.Root(), plan)
	if err := doc.Save(); err != nil {
		return result, err
	}
	return result, nil
}

// editor applies rule lookups to located elements and collects the edits.
type editor struct {
	plan  *renameplan.Plan
	edits []Edit
}

func (ed *editor) text(root *etree.Element, q Query, target renameplan.Target) {
	ed.textOf(q.All(root), q, target)
}

func (ed *editor) textOf(elems []*etree.Element, q Query, target renameplan.Target) {
	for _, e := range elems {
		current := e.Text()
		rule, ok := ed.plan.Lookup(target, current)
		if !ok || current == rule.New {
			continue
		}
		e.SetText(rule.New)
		ed.edits = append(ed.edits, Edit{Target: target, Node: q.String(), Old: current, New: rule.New})
	}
}

func (ed *editor) attr(root *etree.Element, q Query, key string, target renameplan.Target) {
	ed.attrOf(q.All(root), q, key, target)
}

func (ed *editor) attrOf(elems []*etree.Element, q Query, key string, target renameplan.Target) {
	for _, e := range elems {
		a := e.SelectAttr(key)
		if a == nil {
			continue
		}
		current := a.Value
		rule, ok := ed.plan.Lookup(target, current)
		if !ok || current == rule.New {
			continue
		}
		a.Value = rule.New
		ed.edits = append(ed.edits, Edit{Target: target, Node: q.String(), Attr: key, Old: current, New: rule.New})
	}
}
