package xmp

import (
	"strings"
	"testing"
)

func TestSidecarLayout(t *testing.T) {
	p := NewPacket()
	mustSet(t, p, ExifNamespace, "GPSLatitudeRef", "N")
	mustSet(t, p, XMPNamespace, "Duration", "1500")

	got, err := p.Sidecar()
	if err != nil {
		t.Fatalf("Sidecar: %v", err)
	}
	want := strings.Join([]string{
		`<x:xmpmeta xmlns:x="adobe:ns:meta/" x:xmptk="clipmeta">`,
		` <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">`,
		`  <rdf:Description rdf:about="" xmlns:exif="http://ns.adobe.com/exif/1.0/" xmlns:xmp="http://ns.adobe.com/xap/1.0/">`,
		`   <exif:GPSLatitudeRef>N</exif:GPSLatitudeRef>`,
		`   <xmp:Duration>1500</xmp:Duration>`,
		`  </rdf:Description>`,
		` </rdf:RDF>`,
		`</x:xmpmeta>`,
	}, "\n") + "\n"
	if string(got) != want {
		t.Fatalf("unexpected sidecar:\n%s\nwant:\n%s", got, want)
	}
}

func TestSerializeWrapsSidecar(t *testing.T) {
	p := NewPacket()
	mustSet(t, p, XMPNamespace, "Duration", "1500")

	full, err := p.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	text := string(full)
	if !strings.HasPrefix(text, "<?xpacket begin=\"\ufeff\" id=\"W5M0MpCehiHzreSzNTczkc9d\"?>\n<x:xmpmeta") {
		t.Fatalf("missing packet header: %q", text[:80])
	}
	if !strings.HasSuffix(text, "\n<?xpacket end=\"w\"?>") {
		t.Fatalf("missing packet trailer")
	}
	if !strings.Contains(text, "</x:xmpmeta>\n"+strings.Repeat(" ", paddingWidth)+"\n") {
		t.Fatal("expected padding after the xmpmeta block")
	}
}

func TestCleanMatchesSidecar(t *testing.T) {
	packets := map[string]*Packet{
		"empty": NewPacket(),
		"values": func() *Packet {
			p := NewPacket()
			mustSet(t, p, ExifNamespace, "GPSTimeStamp", "1900-01-01T12:34:56.000000")
			mustSet(t, p, XMPNamespace, "VideoAspectRatio", "16:9")
			mustSet(t, p, XMPNamespace, "DeviceModelName", "ILCE-6500 <A&B>")
			mustSet(t, p, XMPNamespace, "Padding", "  ")
			return p
		}(),
	}
	for name, p := range packets {
		t.Run(name, func(t *testing.T) {
			full, err := p.Serialize()
			if err != nil {
				t.Fatalf("Serialize: %v", err)
			}
			bare, err := p.Sidecar()
			if err != nil {
				t.Fatalf("Sidecar: %v", err)
			}
			if cleaned := Clean(full); string(cleaned) != string(bare) {
				t.Fatalf("Clean(Serialize()) differs from Sidecar():\n%s\n---\n%s", cleaned, bare)
			}
			stripped, err := p.Render(ShapeStrip)
			if err != nil {
				t.Fatalf("Render(strip): %v", err)
			}
			if string(stripped) != string(bare) {
				t.Fatal("Render(strip) differs from Sidecar()")
			}
		})
	}
}

func TestSidecarEscapesValues(t *testing.T) {
	p := NewPacket()
	mustSet(t, p, XMPNamespace, "DeviceModelName", "A<B&C")
	got, err := p.Sidecar()
	if err != nil {
		t.Fatalf("Sidecar: %v", err)
	}
	if !strings.Contains(string(got), "A&lt;B&amp;C") {
		t.Fatalf("value not escaped: %s", got)
	}
}

func TestSidecarKeepsWhitespaceValues(t *testing.T) {
	p := NewPacket()
	mustSet(t, p, XMPNamespace, "Padding", "  ")
	got, err := p.Sidecar()
	if err != nil {
		t.Fatalf("Sidecar: %v", err)
	}
	if !strings.Contains(string(got), "<xmp:Padding>  </xmp:Padding>") {
		t.Fatalf("whitespace value lost: %s", got)
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "drops first and last", in: "head\na\nb\ntail", want: "a\nb\n"},
		{name: "drops blank lines first", in: "\nhead\n\n  \na\n\t\ntail\n\n", want: "a\n"},
		{name: "two lines", in: "head\ntail\n", want: ""},
		{name: "one line", in: "only", want: ""},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(Clean([]byte(tt.in))); got != tt.want {
				t.Fatalf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseShape(t *testing.T) {
	for in, want := range map[string]Shape{"": ShapeBare, "bare": ShapeBare, " Strip ": ShapeStrip} {
		got, err := ParseShape(in)
		if err != nil || got != want {
			t.Fatalf("ParseShape(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseShape("xml"); err == nil {
		t.Fatal("expected error for unknown shape")
	}
}
