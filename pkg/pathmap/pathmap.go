// SPDX-License-Identifier: MPL-2.0

package pathmap

import (
	"fmt"
	"path"

	"github.com/solpack/solpack/pkg/fspath"
	"github.com/solpack/solpack/pkg/manifest"
	"github.com/solpack/solpack/pkg/renameplan"
	"github.com/solpack/solpack/pkg/types"
)

type (
	// Remapper applies path rules below one working tree root.
	Remapper struct {
		root types.FilesystemPath
		plan *renameplan.Plan
	}

	// Move reports the outcome of one path rule.
	Move struct {
		Target renameplan.Target
		// From and To are slash paths relative to the tree root.
		From string
		To   string
		// Moved is false when the source was absent.
		Moved bool
		// RemovedDir is the old source folder deleted after the move.
		RemovedDir string
		// Manifest is the control manifest rewrite that followed a control
		// folder rename.
		Manifest *manifest.FileResult
	}
)

// New returns a Remapper for the tree at root.
func New(root types.FilesystemPath, plan *renameplan.Plan) *Remapper {
	return &Remapper{root: root, plan: plan}
}

// String renders the move for progress output.
func (m Move) String() string {
	if !m.Moved {
		return fmt.Sprintf("%s: %s absent, skipped", m.Target, m.From)
	}
	return fmt.Sprintf("%s: %s -> %s", m.Target, m.From, m.To)
}

// WebResources moves each web resource file named by a path.web_resource
// rule to its new location, then deletes the old subfolder with everything
// left in it.
func (r *Remapper) WebResources() ([]Move, error) {
	var moves []Move
	for _, rule := range r.plan.ForTarget(renameplan.TargetWebResourcePath) {
		m := Move{Target: rule.Target, From: rule.Old, To: rule.New}
		src := r.abs(rule.Old)
		if !fspath.IsFile(src) {
			moves = append(moves, m)
			continue
		}
		if err := fspath.Move(src, r.abs(rule.New)); err != nil {
			return moves, err
		}
		m.Moved = true

		if oldDir := path.Dir(rule.Old); oldDir != path.Dir(rule.New) && oldDir != renameplan.WebResourcesDir {
			if err := fspath.RemoveAll(r.abs(oldDir)); err != nil {
				return moves, err
			}
			m.RemovedDir = oldDir
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// ControlFolders renames each folder named by a path.control_folder rule and
// rewrites the ControlManifest.xml inside the renamed folder. The manifest
// is rewritten whenever the new folder exists, so a rerun over an already
// renamed tree still converges.
func (r *Remapper) ControlFolders() ([]Move, error) {
	var moves []Move
	for _, rule := range r.plan.ForTarget(renameplan.TargetControlFolder) {
		m := Move{Target: rule.Target, From: rule.Old, To: rule.New}
		src, dst := r.abs(rule.Old), r.abs(rule.New)
		if fspath.IsDir(src) {
			if err := fspath.Move(src, dst); err != nil {
				return moves, err
			}
			m.Moved = true
		}
		if fspath.IsDir(dst) {
			res, err := manifest.RewriteFile(
				fspath.JoinStr(dst, renameplan.ControlManifestName),
				manifest.ControlRewriter{},
				r.plan,
			)
			if err != nil {
				return moves, err
			}
			m.Manifest = &res
		}
		moves = append(moves, m)
	}
	return moves, nil
}

func (r *Remapper) abs(slashPath string) types.FilesystemPath {
	return fspath.JoinStr(r.root, slashPath)
}
