package nrtmeta

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

const (
	// Namespace is the non-real-time metadata schema every mapped element lives in.
	Namespace = "urn:schemas-professionalDisc:nonRealTimeMeta:ver.2.00"
	// LibNamespace is the shared type library of the professional disc schema.
	LibNamespace = "urn:schemas-professionalDisc:lib:ver.2.00"
	// XSINamespace is the XML Schema instance namespace.
	XSINamespace = "http://www.w3.org/2001/XMLSchema-instance"
)

// Namespaces binds the prefixes usable in Path expressions.
var Namespaces = map[string]string{
	"ns":  Namespace,
	"lib": LibNamespace,
	"xsi": XSINamespace,
}

// Path is a compiled XPath expression relative to an element. Prefixed names
// match by namespace URI, so ns:Duration finds the element whether the file
// binds the schema as its default namespace or under any prefix.
type Path struct {
	raw  string
	expr *xpath.Expr
}

// CompilePath compiles expr against Namespaces.
func CompilePath(expr string) (Path, error) {
	compiled, err := xpath.CompileWithNS(expr, Namespaces)
	if err != nil {
		return Path{}, fmt.Errorf("compile path %q: %w", expr, err)
	}
	return Path{raw: expr, expr: compiled}, nil
}

// MustPath is CompilePath for package-level expressions; it panics on error.
func MustPath(expr string) Path {
	p, err := CompilePath(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source expression.
func (p Path) String() string { return p.raw }

// Document is a parsed clip metadata file.
type Document struct {
	root *Element
}

// Parse reads a whole clip metadata document from r.
func Parse(r io.Reader) (*Document, error) {
	tree, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse clip metadata: %w", err)
	}
	for node := tree.FirstChild; node != nil; node = node.NextSibling {
		if node.Type == xmlquery.ElementNode {
			return &Document{root: &Element{node: node}}, nil
		}
	}
	return nil, fmt.Errorf("parse clip metadata: %w", ErrNoRootElement)
}

// ParseString is Parse over an in-memory document.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// ParseFile opens, parses, and closes the document at path.
func ParseFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open clip metadata: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// Root returns the document element.
func (d *Document) Root() *Element {
	if d == nil {
		return nil
	}
	return d.root
}

// Find resolves p relative to the document element.
func (d *Document) Find(p Path) *Element {
	return d.Root().Find(p)
}
