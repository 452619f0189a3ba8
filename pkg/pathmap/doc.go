// SPDX-License-Identifier: MPL-2.0

// Package pathmap moves the files and folders of a working tree whose names
// encode an old identifier. Moves are driven by the path-segment rules of a
// renameplan.Plan and are no-ops when the source is already gone.
package pathmap
