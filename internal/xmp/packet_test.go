package xmp

import (
	"errors"
	"strings"
	"testing"
)

func TestSetOverwritesInPlace(t *testing.T) {
	p := NewPacket()
	mustSet(t, p, XMPNamespace, "LTCFrameCount_10", "first")
	mustSet(t, p, XMPNamespace, "Duration", "1500")
	mustSet(t, p, XMPNamespace, "LTCFrameCount_10", "second")

	if p.Len() != 2 {
		t.Fatalf("Len = %d, want 2", p.Len())
	}
	got, ok := p.Get(XMPNamespace, "LTCFrameCount_10")
	if !ok || got != "second" {
		t.Fatalf("Get = %q, %v; want second", got, ok)
	}
	props := p.Properties()
	if props[0].Name != "LTCFrameCount_10" || props[1].Name != "Duration" {
		t.Fatalf("overwrite moved the property: %+v", props)
	}
}

func TestSetIfPresentSkipsEmpty(t *testing.T) {
	p := NewPacket()
	if err := p.SetIfPresent(ExifNamespace, "GPSLatitude", ""); err != nil {
		t.Fatalf("SetIfPresent: %v", err)
	}
	if p.Len() != 0 {
		t.Fatalf("empty value was written: %+v", p.Properties())
	}
	if err := p.SetIfPresent(ExifNamespace, "GPSLatitude", " "); err != nil {
		t.Fatalf("SetIfPresent: %v", err)
	}
	if got, _ := p.Get(ExifNamespace, "GPSLatitude"); got != " " {
		t.Fatalf("whitespace value = %q, want a single space", got)
	}
	// The empty check runs first, so an invalid name with no value is not an error.
	if err := p.SetIfPresent(XMPNamespace, "bad name", ""); err != nil {
		t.Fatalf("SetIfPresent with empty value returned %v", err)
	}
}

func TestSetRejectsInvalidNames(t *testing.T) {
	p := NewPacket()
	for _, name := range []string{"", "LTCFrameCount_1 0", "1abc", "a:b", "x/y"} {
		err := p.Set(XMPNamespace, name, "v")
		if !errors.Is(err, ErrMetadata) {
			t.Fatalf("Set(%q) error = %v, want ErrMetadata", name, err)
		}
	}
}

func TestSetRequiresRegisteredNamespace(t *testing.T) {
	p := NewPacket()
	const ns = "http://example.com/clip/1.0/"
	if err := p.Set(ns, "Take", "3"); !errors.Is(err, ErrMetadata) {
		t.Fatalf("expected ErrMetadata for unknown namespace, got %v", err)
	}
	if err := p.RegisterNamespace(ns, "clip"); err != nil {
		t.Fatalf("RegisterNamespace: %v", err)
	}
	mustSet(t, p, ns, "Take", "3")
	if got, _ := p.Get(ns, "Take"); got != "3" {
		t.Fatalf("Get = %q", got)
	}
}

func TestRegisterNamespaceConflicts(t *testing.T) {
	p := NewPacket()
	tests := []struct {
		name   string
		ns     string
		prefix string
	}{
		{name: "prefix taken", ns: "http://example.com/a/", prefix: "exif"},
		{name: "reserved", ns: "http://example.com/b/", prefix: "rdf"},
		{name: "bad prefix", ns: "http://example.com/c/", prefix: "9x"},
		{name: "empty namespace", ns: "", prefix: "e"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := p.RegisterNamespace(tt.ns, tt.prefix); !errors.Is(err, ErrMetadata) {
				t.Fatalf("RegisterNamespace error = %v, want ErrMetadata", err)
			}
		})
	}

	mustSet(t, p, XMPNamespace, "Duration", "1")
	if err := p.RegisterNamespace(XMPNamespace, "xap"); !errors.Is(err, ErrMetadata) {
		t.Fatalf("renaming an in-use namespace should fail, got %v", err)
	}
}

func TestPropertiesGroupByNamespace(t *testing.T) {
	p := NewPacket()
	mustSet(t, p, XMPNamespace, "UMIDRef", "u")
	mustSet(t, p, ExifNamespace, "GPSLatitude", "1")
	mustSet(t, p, XMPNamespace, "Duration", "2")

	var got []string
	for _, prop := range p.Properties() {
		got = append(got, prop.Name)
	}
	if strings.Join(got, ",") != "UMIDRef,Duration,GPSLatitude" {
		t.Fatalf("order = %v", got)
	}
}

func mustSet(t *testing.T, p *Packet, ns, name, value string) {
	t.Helper()
	if err := p.Set(ns, name, value); err != nil {
		t.Fatalf("Set(%s, %s): %v", ns, name, err)
	}
}
