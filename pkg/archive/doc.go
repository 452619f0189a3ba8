// SPDX-License-Identifier: MPL-2.0

// Package archive reads and writes the ZIP containers that carry a packaged
// solution.
//
// Entry names are always forward-slash paths relative to the container root.
// Pack walks the source tree in lexicographic order so that packing the same
// tree twice yields the same entry list.
package archive
