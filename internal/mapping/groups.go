package mapping

import (
	"clipmeta/internal/normalize"
	"clipmeta/internal/nrtmeta"
	"clipmeta/internal/xmp"
)

var (
	gpsGroupPath       = nrtmeta.MustPath(`ns:AcquisitionRecord/ns:Group[@name="ExifGPS"]`)
	targetMaterialPath = nrtmeta.MustPath("ns:TargetMaterial")
	durationPath       = nrtmeta.MustPath("ns:Duration")
	ltcTablePath       = nrtmeta.MustPath("ns:LtcChangeTable")
	ltcChangePath      = nrtmeta.MustPath("ns:LtcChange")
	videoFormatPath    = nrtmeta.MustPath("ns:VideoFormat")
	videoRecPortPath   = nrtmeta.MustPath("ns:VideoRecPort")
	videoFramePath     = nrtmeta.MustPath("ns:VideoFrame")
	videoLayoutPath    = nrtmeta.MustPath("ns:VideoLayout")
	audioFormatPath    = nrtmeta.MustPath("ns:AudioFormat")
	devicePath         = nrtmeta.MustPath("ns:Device")
	creationDatePath   = nrtmeta.MustPath("ns:CreationDate")
)

func mapGPS(doc *nrtmeta.Document, out *xmp.Packet) error {
	gps := doc.Find(gpsGroupPath)
	if gps == nil {
		return nil
	}

	timestamp := gps.Item("TimeStamp", "")
	if timestamp != "" {
		var err error
		if timestamp, err = normalize.GPSTime(timestamp); err != nil {
			return err
		}
	}
	datestamp := gps.Item("DateStamp", "")
	if datestamp != "" {
		var err error
		if datestamp, err = normalize.GPSDate(datestamp); err != nil {
			return err
		}
	}

	s := setter{out: out, ns: xmp.ExifNamespace}
	s.set("GPSLatitudeRef", gps.Item("LatitudeRef", ""))
	s.set("GPSLatitude", gps.Item("Latitude", ""))
	s.set("GPSLongitudeRef", gps.Item("LongitudeRef", ""))
	s.set("GPSLongitude", gps.Item("Longitude", ""))
	s.set("GPSTimeStamp", timestamp)
	s.set("GPSDateStamp", datestamp)
	return s.err
}

func mapTargetMaterial(doc *nrtmeta.Document, out *xmp.Packet) error {
	return copyAttrs(doc.Find(targetMaterialPath), out, "umidRef", "UMIDRef")
}

func mapDuration(doc *nrtmeta.Document, out *xmp.Packet) error {
	return copyAttrs(doc.Find(durationPath), out, "value", "Duration")
}

// mapTimecode flattens the LTC change table. Keys are derived from each
// entry's frameCount, not its position, so two entries with the same
// frameCount share keys and the later entry wins.
func mapTimecode(doc *nrtmeta.Document, out *xmp.Packet) error {
	table := doc.Find(ltcTablePath)
	if table == nil {
		return nil
	}
	s := setter{out: out, ns: xmp.XMPNamespace}
	s.set("LTCFPS", table.Attr("tcFps"))
	for _, change := range table.FindAll(ltcChangePath) {
		frameCount := change.Attr("frameCount")
		value := change.Attr("value")
		status := change.Attr("status")
		if frameCount == "" || value == "" || status == "" {
			continue
		}
		s.set("LTCFrameCount_"+frameCount, value)
		s.set("LTCStatus_"+frameCount, status)
	}
	return s.err
}

func mapVideoFormat(doc *nrtmeta.Document, out *xmp.Packet) error {
	format := doc.Find(videoFormatPath)
	if format == nil {
		return nil
	}
	if err := copyAttrs(format.Find(videoRecPortPath), out, "port", "VideoRecPort"); err != nil {
		return err
	}
	if err := copyAttrs(format.Find(videoFramePath), out, "videoCodec", "VideoCodec"); err != nil {
		return err
	}
	return copyAttrs(format.Find(videoLayoutPath), out,
		"pixel", "VideoResolution",
		"numOfVerticalLine", "NumOfVerticalLines",
		"aspectRatio", "VideoAspectRatio",
	)
}

func mapAudioFormat(doc *nrtmeta.Document, out *xmp.Packet) error {
	return copyAttrs(doc.Find(audioFormatPath), out, "numOfChannel", "NumOfAudioChannels")
}

func mapDevice(doc *nrtmeta.Document, out *xmp.Packet) error {
	return copyAttrs(doc.Find(devicePath), out,
		"manufacturer", "DeviceManufacturer",
		"modelName", "DeviceModelName",
		"serialNo", "DeviceSerialNumber",
	)
}

func mapCreationDate(doc *nrtmeta.Document, out *xmp.Packet) error {
	return copyAttrs(doc.Find(creationDatePath), out, "value", "CreationDate")
}

// copyAttrs copies attribute/property name pairs from el into the XMP
// namespace. A nil el copies nothing.
func copyAttrs(el *nrtmeta.Element, out *xmp.Packet, pairs ...string) error {
	if el == nil {
		return nil
	}
	s := setter{out: out, ns: xmp.XMPNamespace}
	for i := 0; i+1 < len(pairs); i += 2 {
		s.set(pairs[i+1], el.Attr(pairs[i]))
	}
	return s.err
}
