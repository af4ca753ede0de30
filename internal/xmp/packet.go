// Package xmp holds XMP properties in memory and renders them as sidecar
// packets.
//
// A Packet is a property bag keyed by (namespace URI, local name). Setting a
// key twice keeps the first position and the last value. Properties are
// rendered inside a single rdf:Description, grouped by namespace in the order
// each namespace was first used, the way the Adobe toolkit lays them out.
//
// Two renderings exist. Serialize produces the complete packet including the
// xpacket processing instructions and trailing padding. Sidecar produces only
// the x:xmpmeta block, which is what the clip sidecars contain; it equals
// Clean(Serialize()) byte for byte.
package xmp

import (
	"errors"
	"fmt"
	"unicode"
)

const (
	// ExifNamespace holds the GPS properties.
	ExifNamespace = "http://ns.adobe.com/exif/1.0/"
	// XMPNamespace is the basic XMP schema.
	XMPNamespace = "http://ns.adobe.com/xap/1.0/"
	// RDFNamespace is the RDF syntax namespace.
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	// MetaNamespace is the x:xmpmeta wrapper namespace.
	MetaNamespace = "adobe:ns:meta/"
	// DublinCoreNamespace is the Dublin Core element set.
	DublinCoreNamespace = "http://purl.org/dc/elements/1.1/"
	// XMPMMNamespace is XMP Media Management.
	XMPMMNamespace = "http://ns.adobe.com/xap/1.0/mm/"
)

// ErrMetadata marks failures raised by the property bag itself, as opposed to
// failures reading or writing files.
var ErrMetadata = errors.New("xmp metadata error")

var defaultPrefixes = map[string]string{
	ExifNamespace:       "exif",
	XMPNamespace:        "xmp",
	DublinCoreNamespace: "dc",
	XMPMMNamespace:      "xmpMM",
}

// Property is one namespace-qualified value.
type Property struct {
	Namespace string
	Name      string
	Value     string
}

type schema struct {
	ns     string
	prefix string
	names  []string
	values map[string]string
}

// Packet is an ordered XMP property bag. The zero value is not usable; call
// NewPacket.
type Packet struct {
	prefixes map[string]string
	schemas  []*schema
	index    map[string]*schema
}

// NewPacket returns an empty packet that knows the default namespace prefixes.
func NewPacket() *Packet {
	prefixes := make(map[string]string, len(defaultPrefixes))
	for ns, prefix := range defaultPrefixes {
		prefixes[ns] = prefix
	}
	return &Packet{
		prefixes: prefixes,
		index:    make(map[string]*schema),
	}
}

// RegisterNamespace binds prefix to ns for this packet.
func (p *Packet) RegisterNamespace(ns, prefix string) error {
	if ns == "" {
		return fmt.Errorf("%w: empty namespace URI", ErrMetadata)
	}
	if !isName(prefix) {
		return fmt.Errorf("%w: invalid prefix %q", ErrMetadata, prefix)
	}
	if prefix == "x" || prefix == "rdf" {
		return fmt.Errorf("%w: prefix %q is reserved", ErrMetadata, prefix)
	}
	for other, used := range p.prefixes {
		if used == prefix && other != ns {
			return fmt.Errorf("%w: prefix %q already bound to %s", ErrMetadata, prefix, other)
		}
	}
	if _, used := p.index[ns]; used && p.prefixes[ns] != prefix {
		return fmt.Errorf("%w: namespace %s already in use as %q", ErrMetadata, ns, p.prefixes[ns])
	}
	p.prefixes[ns] = prefix
	return nil
}

// Set stores value under (ns, name), replacing any earlier value.
func (p *Packet) Set(ns, name, value string) error {
	prefix, ok := p.prefixes[ns]
	if !ok {
		return fmt.Errorf("%w: namespace %s has no registered prefix", ErrMetadata, ns)
	}
	if !isName(name) {
		return fmt.Errorf("%w: invalid property name %q", ErrMetadata, name)
	}
	s, ok := p.index[ns]
	if !ok {
		s = &schema{ns: ns, prefix: prefix, values: make(map[string]string)}
		p.index[ns] = s
		p.schemas = append(p.schemas, s)
	}
	if _, exists := s.values[name]; !exists {
		s.names = append(s.names, name)
	}
	s.values[name] = value
	return nil
}

// SetIfPresent is Set for optional source values: an empty value writes
// nothing.
func (p *Packet) SetIfPresent(ns, name, value string) error {
	if value == "" {
		return nil
	}
	return p.Set(ns, name, value)
}

// Get returns the value stored under (ns, name).
func (p *Packet) Get(ns, name string) (string, bool) {
	s, ok := p.index[ns]
	if !ok {
		return "", false
	}
	value, ok := s.values[name]
	return value, ok
}

// Len reports the number of distinct properties.
func (p *Packet) Len() int {
	n := 0
	for _, s := range p.schemas {
		n += len(s.names)
	}
	return n
}

// Properties returns every property in rendering order.
func (p *Packet) Properties() []Property {
	out := make([]Property, 0, p.Len())
	for _, s := range p.schemas {
		for _, name := range s.names {
			out = append(out, Property{Namespace: s.ns, Name: name, Value: s.values[name]})
		}
	}
	return out
}

// isName reports whether s is a valid XML NCName.
func isName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}
