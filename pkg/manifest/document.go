// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/beevik/etree"

	"github.com/solpack/solpack/pkg/types"
)

const (
	// declarationInst is the XML declaration written on every save.
	declarationInst = `version="1.0" encoding="utf-8"`
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Document is one parsed manifest bound to the file it was loaded from.
type Document struct {
	path types.FilesystemPath
	doc  *etree.Document
}

// Load parses the XML file at path. A leading UTF-8 byte order mark is
// accepted. Read and syntax failures are reported as *ParseError.
func Load(path types.FilesystemPath) (*Document, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return parse(path, data)
}

func parse(path types.FilesystemPath, data []byte) (*Document, error) {
	doc := etree.NewDocument()
	// Whitespace characters in attribute values are written as character
	// references so parsers do not normalize them to spaces.
	doc.WriteSettings.CanonicalAttrVal = true
	if err := doc.ReadFromBytes(bytes.TrimPrefix(data, utf8BOM)); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if doc.Root() == nil {
		return nil, &ParseError{Path: path, Err: errors.New("no root element")}
	}
	return &Document{path: path, doc: doc}, nil
}

// Path returns the file the document was loaded from.
func (d *Document) Path() types.FilesystemPath { return d.path }

// Root returns the document element.
func (d *Document) Root() *etree.Element { return d.doc.Root() }

// Save serializes the document back to its path with an explicit utf-8
// declaration header.
func (d *Document) Save() error {
	d.ensureDeclaration()
	if err := d.doc.WriteToFile(string(d.path)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDocumentWrite, d.path, err)
	}
	return nil
}

// Bytes returns the serialized document, declaration included.
func (d *Document) Bytes() ([]byte, error) {
	d.ensureDeclaration()
	return d.doc.WriteToBytes()
}

func (d *Document) ensureDeclaration() {
	for _, tok := range d.doc.Child {
		if pi, ok := tok.(*etree.ProcInst); ok && pi.Target == "xml" {
			pi.Inst = declarationInst
			return
		}
	}
	d.doc.InsertChildAt(0, etree.NewProcInst("xml", declarationInst))
}
