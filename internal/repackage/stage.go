// SPDX-License-Identifier: MPL-2.0

package repackage

const (
	// StageDiscover locates the managed archive in the input directory.
	StageDiscover Stage = iota
	// StagePrepare deletes leftovers of a previous run and recreates the workspace.
	StagePrepare
	// StageExtract unpacks the input archive into the workspace.
	StageExtract
	// StageRewriteSolution edits solution.xml.
	StageRewriteSolution
	// StageRewriteCustomizations edits customizations.xml.
	StageRewriteCustomizations
	// StageRemapWebResources moves web resource files.
	StageRemapWebResources
	// StageRemapControls renames control folders and rewrites their manifests.
	StageRemapControls
	// StageRepackage packs the workspace into the output archive.
	StageRepackage
	// StageCleanup deletes the workspace.
	StageCleanup
	// StageDone is terminal: the output archive exists.
	StageDone
)

// Stage is one step of a run. Stages only ever advance.
type Stage int

// String returns a human-readable name of the stage.
func (s Stage) String() string {
	switch s {
	case StageDiscover:
		return "discover input"
	case StagePrepare:
		return "prepare workspace"
	case StageExtract:
		return "extract"
	case StageRewriteSolution:
		return "rewrite solution manifest"
	case StageRewriteCustomizations:
		return "rewrite customizations"
	case StageRemapWebResources:
		return "remap web resources"
	case StageRemapControls:
		return "remap controls"
	case StageRepackage:
		return "repackage"
	case StageCleanup:
		return "cleanup"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}
