// SPDX-License-Identifier: MPL-2.0

package repackage

import (
	"errors"
	"io/fs"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/solpack/solpack/pkg/fspath"
	"github.com/solpack/solpack/pkg/types"
)

const (
	// ManagedSuffix ends the file name of every accepted input archive.
	ManagedSuffix = "_managed.zip"
	// UnmanagedSuffix ends the file name of every output archive.
	UnmanagedSuffix = "_unmanaged.zip"
	// UnknownVersion replaces a version token that cannot be extracted.
	UnknownVersion = "unknown"
)

// Discover returns the managed archive to process. An explicit path wins
// over scanning; it must name an existing file. Otherwise inputDir must hold
// exactly one regular file ending in ManagedSuffix.
func Discover(inputDir, explicit types.FilesystemPath) (types.FilesystemPath, error) {
	if explicit != "" {
		if !fspath.IsFile(explicit) {
			return "", &InputNotFoundError{Dir: fspath.Dir(explicit), Pattern: explicit.Base()}
		}
		return explicit, nil
	}

	candidates, err := managedArchives(inputDir)
	if err != nil {
		return "", err
	}
	switch len(candidates) {
	case 0:
		return "", &InputNotFoundError{Dir: inputDir, Pattern: "*" + ManagedSuffix}
	case 1:
		return fspath.JoinStr(inputDir, candidates[0]), nil
	default:
		return "", &AmbiguousInputError{Dir: inputDir, Candidates: candidates}
	}
}

// managedArchives lists matching file names in lexical order. A missing
// directory has no candidates.
func managedArchives(dir types.FilesystemPath) ([]string, error) {
	entries, err := os.ReadDir(string(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &fspath.FilesystemError{Op: "read directory", Path: dir, Err: err}
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), ManagedSuffix) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// VersionToken extracts the text between "<product>_" and ManagedSuffix in
// name, or UnknownVersion when name does not have that shape.
func VersionToken(name, product string) string {
	re := regexp.MustCompile(regexp.QuoteMeta(product) + `_(.*?)` + regexp.QuoteMeta(ManagedSuffix))
	m := re.FindStringSubmatch(name)
	if m == nil || m[1] == "" {
		return UnknownVersion
	}
	return m[1]
}

// OutputName returns the unmanaged archive name for product and version.
func OutputName(product, version string) string {
	return product + "_" + version + UnmanagedSuffix
}
