// SPDX-License-Identifier: MPL-2.0

package repackage

import (
	"fmt"
	"strings"

	"github.com/solpack/solpack/pkg/archive"
	"github.com/solpack/solpack/pkg/renameplan"
	"github.com/solpack/solpack/pkg/types"
)

// Residual is an old identifier still present in an archive entry.
type Residual struct {
	Entry string
	// InPath is set when the identifier occurs in the entry name; otherwise
	// it occurs in the entry content.
	InPath bool
	Value  string
}

// String renders the residual for listings.
func (r Residual) String() string {
	where := "content"
	if r.InPath {
		where = "path"
	}
	return fmt.Sprintf("%s (%s): %q", r.Entry, where, r.Value)
}

// Audit scans every entry name and content of the archive for the old value
// of any substitution rule in plan. Overwrite rules carry no old value and
// are not checked.
func Audit(archivePath types.FilesystemPath, plan *renameplan.Plan) ([]Residual, error) {
	var found []Residual
	err := archive.Walk(archivePath, func(e archive.Entry) error {
		for _, v := range plan.Residuals(e.Name) {
			found = append(found, Residual{Entry: e.Name, InPath: true, Value: v})
		}
		for _, v := range plan.Residuals(string(e.Data)) {
			found = append(found, Residual{Entry: e.Name, Value: v})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// FormatResiduals renders one residual per line.
func FormatResiduals(rs []Residual) string {
	lines := make([]string, len(rs))
	for i, r := range rs {
		lines[i] = r.String()
	}
	return strings.Join(lines, "\n")
}
