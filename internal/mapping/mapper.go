// Package mapping turns a clip metadata document into XMP properties.
//
// The mapping is a fixed list of field groups. Each group locates its source
// element and copies the attributes it knows about into the packet. A missing
// group element skips the whole group; a missing or empty attribute skips only
// that property. All writes go through xmp.Packet.SetIfPresent so no property
// is ever written with an empty value.
package mapping

import (
	"fmt"

	"clipmeta/internal/nrtmeta"
	"clipmeta/internal/xmp"
)

// Group is one mapping rule set.
type Group struct {
	Name  string
	apply func(doc *nrtmeta.Document, out *xmp.Packet) error
}

// Groups lists the field groups in the order they run.
func Groups() []Group {
	return []Group{
		{Name: "gps", apply: mapGPS},
		{Name: "target_material", apply: mapTargetMaterial},
		{Name: "duration", apply: mapDuration},
		{Name: "timecode", apply: mapTimecode},
		{Name: "video_format", apply: mapVideoFormat},
		{Name: "audio_format", apply: mapAudioFormat},
		{Name: "device", apply: mapDevice},
		{Name: "creation_date", apply: mapCreationDate},
	}
}

// Map builds a fresh packet from doc.
func Map(doc *nrtmeta.Document) (*xmp.Packet, error) {
	out := xmp.NewPacket()
	if err := MapInto(doc, out); err != nil {
		return nil, err
	}
	return out, nil
}

// MapInto applies every group to out. The first failing group aborts the
// mapping; properties written by earlier groups stay in out.
func MapInto(doc *nrtmeta.Document, out *xmp.Packet) error {
	for _, group := range Groups() {
		if err := group.apply(doc, out); err != nil {
			return fmt.Errorf("map %s: %w", group.Name, err)
		}
	}
	return nil
}

// setter writes optional values into one namespace and remembers the first
// failure, so a group can list its fields without checking after each one.
type setter struct {
	out *xmp.Packet
	ns  string
	err error
}

func (s *setter) set(name, value string) {
	if s.err != nil {
		return
	}
	s.err = s.out.SetIfPresent(s.ns, name, value)
}
