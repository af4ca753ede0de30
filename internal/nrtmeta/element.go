package nrtmeta

import (
	"errors"
	"strings"

	"github.com/antchfx/xmlquery"
)

// ErrNoRootElement reports a document without any element.
var ErrNoRootElement = errors.New("document has no root element")

// Element is a read-only view of one element. A nil *Element stands for an
// absent node.
type Element struct {
	node *xmlquery.Node
}

// Name returns the local element name.
func (e *Element) Name() string {
	if e == nil {
		return ""
	}
	return e.node.Data
}

// NamespaceURI returns the namespace the element was declared in.
func (e *Element) NamespaceURI() string {
	if e == nil {
		return ""
	}
	return e.node.NamespaceURI
}

// Find returns the first element matching p, or nil.
func (e *Element) Find(p Path) *Element {
	if e == nil || p.expr == nil {
		return nil
	}
	node := xmlquery.QuerySelector(e.node, p.expr)
	if node == nil || node.Type != xmlquery.ElementNode {
		return nil
	}
	return &Element{node: node}
}

// FindAll returns every element matching p in document order.
func (e *Element) FindAll(p Path) []*Element {
	if e == nil || p.expr == nil {
		return nil
	}
	nodes := xmlquery.QuerySelectorAll(e.node, p.expr)
	out := make([]*Element, 0, len(nodes))
	for _, node := range nodes {
		if node.Type != xmlquery.ElementNode {
			continue
		}
		out = append(out, &Element{node: node})
	}
	return out
}

// LookupAttr returns the unqualified attribute name and whether it is present.
func (e *Element) LookupAttr(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, attr := range e.node.Attr {
		if attr.Name.Space == "" && attr.Name.Local == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Attr returns the attribute value, or "" when it is missing.
func (e *Element) Attr(name string) string {
	value, _ := e.LookupAttr(name)
	return value
}

// Item locates the child ns:Item[@name=itemName] and returns its value
// attribute. def is returned when the item or its value attribute is missing.
func (e *Element) Item(itemName, def string) string {
	if e == nil {
		return def
	}
	literal, ok := quoteLiteral(itemName)
	if !ok {
		return def
	}
	p, err := CompilePath("ns:Item[@name=" + literal + "]")
	if err != nil {
		return def
	}
	value, ok := e.Find(p).LookupAttr("value")
	if !ok {
		return def
	}
	return value
}

// quoteLiteral renders s as an XPath 1.0 string literal. XPath has no escape
// sequences, so a value holding both quote kinds cannot be expressed.
func quoteLiteral(s string) (string, bool) {
	switch {
	case !strings.Contains(s, `"`):
		return `"` + s + `"`, true
	case !strings.Contains(s, "'"):
		return "'" + s + "'", true
	default:
		return "", false
	}
}
