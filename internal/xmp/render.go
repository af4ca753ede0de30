package xmp

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Toolkit is written to the x:xmptk attribute.
const Toolkit = "clipmeta"

const (
	packetHeader  = "<?xpacket begin=\"\ufeff\" id=\"W5M0MpCehiHzreSzNTczkc9d\"?>\n"
	packetTrailer = "<?xpacket end=\"w\"?>"

	paddingLines = 20
	paddingWidth = 99
)

// Shape selects how a packet is turned into sidecar text.
type Shape string

const (
	// ShapeBare renders the x:xmpmeta block directly.
	ShapeBare Shape = "bare"
	// ShapeStrip serializes the full packet and then removes the wrapper
	// lines with Clean.
	ShapeStrip Shape = "strip"
)

// ParseShape validates a configured shape name.
func ParseShape(value string) (Shape, error) {
	switch Shape(strings.ToLower(strings.TrimSpace(value))) {
	case "", ShapeBare:
		return ShapeBare, nil
	case ShapeStrip:
		return ShapeStrip, nil
	default:
		return "", fmt.Errorf("unsupported sidecar shape %q (want %q or %q)", value, ShapeBare, ShapeStrip)
	}
}

// Render produces sidecar text in the requested shape.
func (p *Packet) Render(shape Shape) ([]byte, error) {
	switch shape {
	case ShapeBare, "":
		return p.Sidecar()
	case ShapeStrip:
		full, err := p.Serialize()
		if err != nil {
			return nil, err
		}
		return Clean(full), nil
	default:
		return nil, fmt.Errorf("%w: unsupported shape %q", ErrMetadata, shape)
	}
}

// Sidecar renders the x:xmpmeta block with a trailing newline.
func (p *Packet) Sidecar() ([]byte, error) {
	body, err := p.body()
	if err != nil {
		return nil, err
	}
	return []byte(body), nil
}

// Serialize renders the complete packet: the xpacket header, the x:xmpmeta
// block, whitespace padding, and the xpacket trailer.
func (p *Packet) Serialize() ([]byte, error) {
	body, err := p.body()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(packetHeader) + len(body) + paddingLines*(paddingWidth+1) + len(packetTrailer))
	buf.WriteString(packetHeader)
	buf.WriteString(body)
	pad := strings.Repeat(" ", paddingWidth) + "\n"
	for i := 0; i < paddingLines; i++ {
		buf.WriteString(pad)
	}
	buf.WriteString(packetTrailer)
	return buf.Bytes(), nil
}

// Clean drops blank lines and then the first and last remaining line. It
// assumes text is a full packet: one header line first and one trailer line
// last. Fewer than three non-blank lines leave nothing.
func Clean(text []byte) []byte {
	lines := bytes.SplitAfter(text, []byte("\n"))
	kept := make([][]byte, 0, len(lines))
	for _, line := range lines {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		kept = append(kept, line)
	}
	if len(kept) <= 2 {
		return []byte{}
	}
	return bytes.Join(kept[1:len(kept)-1], nil)
}

func (p *Packet) body() (string, error) {
	doc := etree.NewDocument()
	meta := doc.CreateElement("x:xmpmeta")
	meta.CreateAttr("xmlns:x", MetaNamespace)
	meta.CreateAttr("x:xmptk", Toolkit)
	rdf := meta.CreateElement("rdf:RDF")
	rdf.CreateAttr("xmlns:rdf", RDFNamespace)
	desc := rdf.CreateElement("rdf:Description")
	desc.CreateAttr("rdf:about", "")
	for _, s := range p.schemas {
		desc.CreateAttr("xmlns:"+s.prefix, s.ns)
	}

	type pendingValue struct {
		el    *etree.Element
		value string
	}
	values := make([]pendingValue, 0, p.Len())
	for _, s := range p.schemas {
		for _, name := range s.names {
			values = append(values, pendingValue{el: desc.CreateElement(s.prefix + ":" + name), value: s.values[name]})
		}
	}

	// Indent strips whitespace-only character data, so values go in afterwards.
	doc.Indent(1)
	for _, v := range values {
		v.el.SetText(v.value)
	}

	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("%w: serialize packet: %v", ErrMetadata, err)
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}
