package dom

import (
	"github.com/beevik/etree"

	"github.com/arthur-debert/weft/pkg/errors"
)

// Element is a canonical handle to one node in a Document's tree. Two
// handles for the same node are pointer-equal, so elements can key
// identity-based side tables.
type Element struct {
	el  *etree.Element
	doc *Document
}

// Tag returns the element's tag name
func (e *Element) Tag() string {
	return e.el.Tag
}

// Document returns the owning document
func (e *Element) Document() *Document {
	return e.doc
}

// Attr returns the value of the named attribute, or "" when absent
func (e *Element) Attr(name string) string {
	return e.el.SelectAttrValue(name, "")
}

// HasAttr reports whether the named attribute is present
func (e *Element) HasAttr(name string) bool {
	return e.el.SelectAttr(name) != nil
}

// SetAttr sets an attribute on the element
func (e *Element) SetAttr(name, value string) {
	e.el.CreateAttr(name, value)
}

// Parent returns the parent element, or nil for the root or a detached node
func (e *Element) Parent() *Element {
	return e.doc.wrap(e.el.Parent())
}

// Children returns the element's direct child elements in document order
func (e *Element) Children() []*Element {
	children := e.el.ChildElements()
	out := make([]*Element, 0, len(children))
	for _, child := range children {
		out = append(out, e.doc.wrap(child))
	}
	return out
}

// Find returns the first element under this subtree matching an etree path
// expression, or nil when nothing matches.
func (e *Element) Find(path string) *Element {
	return e.doc.wrap(e.el.FindElement(path))
}

// FindAll returns every element under this subtree matching an etree path
// expression, in document order.
func (e *Element) FindAll(path string) []*Element {
	found := e.el.FindElements(path)
	out := make([]*Element, 0, len(found))
	for _, el := range found {
		out = append(out, e.doc.wrap(el))
	}
	return out
}

// FindByAttr returns every element in this subtree carrying the named
// attribute, in document order (pre-order walk). The receiver itself is
// included when it carries the attribute.
func (e *Element) FindByAttr(name string) []*Element {
	var out []*Element
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		if el.SelectAttr(name) != nil {
			out = append(out, e.doc.wrap(el))
		}
		for _, child := range el.ChildElements() {
			walk(child)
		}
	}
	walk(e.el)
	return out
}

// Contains reports whether other lies inside this element's subtree. An
// element does not contain itself.
func (e *Element) Contains(other *Element) bool {
	if other == nil || other == e {
		return false
	}
	for p := other.el.Parent(); p != nil; p = p.Parent() {
		if p == e.el {
			return true
		}
	}
	return false
}

// ReplaceWith swaps this element for another at the same position in the
// tree. Listener registrations stay with their original elements. Fails
// with DETACHED_NODE when the receiver has no parent.
func (e *Element) ReplaceWith(replacement *Element) error {
	if replacement == nil {
		return errors.New(errors.ErrInvalidInput, "replacement element is nil")
	}
	parent := e.el.Parent()
	if parent == nil {
		return errors.Newf(errors.ErrDetachedNode, "element <%s> has no parent to replace under", e.el.Tag)
	}

	index := e.el.Index()
	parent.RemoveChild(e.el)
	parent.InsertChildAt(index, replacement.el)
	return nil
}
