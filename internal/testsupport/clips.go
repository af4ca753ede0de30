package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FullClipXML is a clip metadata document with every mapped group present.
const FullClipXML = `<?xml version="1.0" encoding="UTF-8"?>
<NonRealTimeMeta xmlns="urn:schemas-professionalDisc:nonRealTimeMeta:ver.2.00" xmlns:lib="urn:schemas-professionalDisc:lib:ver.2.00" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:schemaLocation="urn:schemas-professionalDisc:nonRealTimeMeta:ver.2.00" lastUpdate="2023-07-04T12:35:10+02:00">
	<TargetMaterial umidRef="060A2B340101010501010D43130000006A2C1C41574605D5080046020289B8E4"/>
	<Duration value="1500"/>
	<LtcChangeTable tcFps="25" halfStep="false">
		<LtcChange frameCount="0" value="12345600" status="increment"/>
		<LtcChange frameCount="1499" value="23495412" status="end"/>
	</LtcChangeTable>
	<CreationDate value="2023-07-04T12:34:56+02:00"/>
	<VideoFormat>
		<VideoRecPort port="DIRECT"/>
		<VideoFrame videoCodec="AVC_3840_2160_HP@L51" captureFps="25p" formatFps="25p"/>
		<VideoLayout pixel="3840" numOfVerticalLine="2160" aspectRatio="16:9"/>
	</VideoFormat>
	<AudioFormat numOfChannel="2">
		<AudioRecPort port="DIRECT" audioCodec="LPCM16" trackDst="CH1"/>
		<AudioRecPort port="DIRECT" audioCodec="LPCM16" trackDst="CH2"/>
	</AudioFormat>
	<Device manufacturer="Sony" modelName="ILCE-6500" serialNo="3340593"/>
	<RecordingMode type="normal" cacheRec="false"/>
	<AcquisitionRecord>
		<Group name="CameraUnitMetadataSet">
			<Item name="CaptureGammaEquation" value="rec709"/>
		</Group>
		<Group name="ExifGPS">
			<Item name="LatitudeRef" value="N"/>
			<Item name="Latitude" value="52:30:26.496"/>
			<Item name="LongitudeRef" value="E"/>
			<Item name="Longitude" value="13:24:41.352"/>
			<Item name="TimeStamp" value="12:34:56.000000"/>
			<Item name="DateStamp" value="2023:07:04"/>
		</Group>
	</AcquisitionRecord>
</NonRealTimeMeta>
`

// ClipXML wraps body in a NonRealTimeMeta document element.
func ClipXML(body string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<NonRealTimeMeta xmlns="urn:schemas-professionalDisc:nonRealTimeMeta:ver.2.00" xmlns:lib="urn:schemas-professionalDisc:lib:ver.2.00" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` + "\n")
	b.WriteString(body)
	b.WriteString("\n</NonRealTimeMeta>\n")
	return b.String()
}

// GPSGroup renders an AcquisitionRecord holding the ExifGPS items in order.
// Pairs are name, value; an odd trailing name is written without a value
// attribute.
func GPSGroup(pairs ...string) string {
	var b strings.Builder
	b.WriteString("<AcquisitionRecord>\n<Group name=\"ExifGPS\">\n")
	for i := 0; i < len(pairs); i += 2 {
		if i+1 >= len(pairs) {
			b.WriteString(`<Item name="` + pairs[i] + `"/>` + "\n")
			break
		}
		b.WriteString(`<Item name="` + pairs[i] + `" value="` + pairs[i+1] + `"/>` + "\n")
	}
	b.WriteString("</Group>\n</AcquisitionRecord>")
	return b.String()
}

// WriteClip writes content to dir/name and returns the full path.
func WriteClip(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
