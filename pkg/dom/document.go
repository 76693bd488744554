// Package dom is the element-tree collaborator for the feature framework.
// It wraps beevik/etree documents with canonical element handles, attribute
// and subtree-query access, tree mutation, and per-element event dispatch.
//
// The package is deliberately small: it implements exactly the surface the
// lifecycle orchestrator consumes (attribute read, subtree query,
// replace-child, event listeners) and nothing more.
package dom

import (
	"github.com/beevik/etree"

	"github.com/arthur-debert/weft/pkg/errors"
)

// Document owns a parsed markup tree along with the side tables that hang
// off it: the canonical wrapper per underlying element and the per-element
// listener registrations. Keeping these on the document makes ownership and
// lifetime explicit instead of stashing state on tree nodes.
type Document struct {
	doc       *etree.Document
	wrappers  map[*etree.Element]*Element
	listeners map[*Element]map[string][]*Listener
}

// Parse reads a markup string into a Document
func Parse(markup string) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(markup); err != nil {
		return nil, errors.Wrap(err, errors.ErrDocumentParse, "failed to parse document")
	}
	if doc.Root() == nil {
		return nil, errors.New(errors.ErrDocumentParse, "document has no root element")
	}
	return newDocument(doc), nil
}

func newDocument(doc *etree.Document) *Document {
	return &Document{
		doc:       doc,
		wrappers:  make(map[*etree.Element]*Element),
		listeners: make(map[*Element]map[string][]*Listener),
	}
}

// Root returns the document's root element
func (d *Document) Root() *Element {
	return d.wrap(d.doc.Root())
}

// NewElement creates a detached element owned by this document. It joins
// the tree when inserted, e.g. through Element.ReplaceWith.
func (d *Document) NewElement(tag string) *Element {
	return d.wrap(etree.NewElement(tag))
}

// WriteToString serializes the document back to markup
func (d *Document) WriteToString() (string, error) {
	return d.doc.WriteToString()
}

// wrap returns the canonical handle for an underlying element. Handles are
// pointer-comparable: the same tree node always yields the same *Element.
func (d *Document) wrap(el *etree.Element) *Element {
	if el == nil {
		return nil
	}
	if wrapper, ok := d.wrappers[el]; ok {
		return wrapper
	}
	wrapper := &Element{el: el, doc: d}
	d.wrappers[el] = wrapper
	return wrapper
}
