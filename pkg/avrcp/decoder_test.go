package avrcp

import (
	"encoding/binary"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/ampbridge/pkg/bm83"
)

func avcRsp(pdu, pktType byte, avp ...byte) []byte {
	b := []byte{0x00, 0x0C, 0x48, 0x00, 0x00, 0x19, 0x58, pdu, pktType, 0, 0}
	binary.BigEndian.PutUint16(b[9:11], uint16(len(avp)))
	return append(b, avp...)
}

func u32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

type attr struct {
	id  uint32
	val string
}

func encodeAttrs(attrs ...attr) []byte {
	var b []byte
	for _, a := range attrs {
		b = append(b, u32(a.id)...)
		b = append(b, 0x00, 0x6A, byte(len(a.val)>>8), byte(len(a.val)))
		b = append(b, a.val...)
	}
	return b
}

func gea(isEnd bool, attrNum, totalLen int, part []byte) []byte {
	end := byte(0)
	if isEnd {
		end = 1
	}
	b := []byte{bm83.PDUGetElementAttributes, 0x00, 0x0C, end, byte(attrNum), byte(totalLen >> 8), byte(totalLen)}
	return append(b, part...)
}

func TestDecodeSimpleEvents(t *testing.T) {
	var d Decoder
	require.Equal(t, []Event{BTMStatus{State: 0x06}}, d.Decode(bm83.EvtBTMStatus, []byte{0x06}))
	require.Equal(t, []Event{EqReport{Mode: 6}}, d.Decode(bm83.EvtEQModeInd, []byte{6, 0}))
	require.Empty(t, d.Decode(bm83.EvtBTMStatus, nil))
	require.Empty(t, d.Decode(0x77, []byte{1, 2, 3}))
}

func TestDecodePlayStatus(t *testing.T) {
	var d Decoder
	avp := append(append(u32(200000), u32(5000)...), byte(StatusPlaying))
	events := d.Decode(bm83.EvtAVCVendorRsp, avcRsp(bm83.PDUGetPlayStatus, 0, avp...))
	require.Equal(t, []Event{PlayStatusReport{
		Duration: 200 * time.Second,
		Position: 5 * time.Second,
		Status:   StatusPlaying,
	}}, events)

	// not a single packet
	require.Empty(t, d.Decode(bm83.EvtAVCVendorRsp, avcRsp(bm83.PDUGetPlayStatus, 1, avp...)))
	// truncated
	b := avcRsp(bm83.PDUGetPlayStatus, 0, avp...)
	require.Empty(t, d.Decode(bm83.EvtAVCVendorRsp, b[:len(b)-2]))
	require.Empty(t, d.Decode(bm83.EvtAVCVendorRsp, b[:5]))
}

func TestDecodeNotifications(t *testing.T) {
	var d Decoder
	testCases := []struct {
		name   string
		avp    []byte
		expect []Event
	}{
		{"play status", []byte{bm83.NotifyPlayStatusChanged, byte(StatusPaused)}, []Event{PlayStatusChanged{Status: StatusPaused}}},
		{"track", []byte{bm83.NotifyTrackChanged, 0, 0, 0, 0, 0, 0, 0, 0}, []Event{TrackChanged{}}},
		{"position", append([]byte{bm83.NotifyPositionChanged}, u32(61500)...), []Event{PositionChanged{Position: 61500 * time.Millisecond}}},
		{"short position", []byte{bm83.NotifyPositionChanged, 0}, nil},
		{"unknown", []byte{0x0D, 1}, nil},
		{"empty", nil, nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			events := d.Decode(bm83.EvtAVCVendorRsp, avcRsp(bm83.PDURegisterNotification, 0, tc.avp...))
			require.Equal(t, len(tc.expect), len(events))
			if len(tc.expect) > 0 {
				require.Equal(t, tc.expect, events)
			}
		})
	}
}

func TestDecodeElementAttributesSingleFrame(t *testing.T) {
	var d Decoder
	body := encodeAttrs(
		attr{AttrTitle, " Song "},
		attr{AttrArtist, "Band"},
		attr{AttrAlbum, "Record"},
		attr{AttrPlayingTime, "183000"},
		attr{AttrTrackNumber, "3"},
	)
	events := d.Decode(bm83.EvtAVRCPVendorDepRsp, gea(true, 5, len(body), body))
	require.Len(t, events, 1)
	md := events[0].(MetadataReady).Metadata
	require.Equal(t, "Song", md.Title)
	require.Equal(t, "Band", md.Artist)
	require.Equal(t, "Record", md.Album)
	require.Equal(t, "3", md.TrackNumber)
	require.True(t, md.HasDuration)
	require.Equal(t, 183*time.Second, md.Duration)
	require.False(t, md.Has(AttrGenre))
	require.Equal(t, []uint32{1, 2, 3, 4, 7}, md.IDs())
	require.False(t, d.Assembling())
}

func TestDecodeElementAttributesContinuation(t *testing.T) {
	var d Decoder
	body := encodeAttrs(attr{AttrTitle, "A Long Title"}, attr{AttrArtist, "Someone"})
	split := 13
	require.Empty(t, d.Decode(bm83.EvtAVRCPVendorDepRsp, gea(false, 2, len(body), body[:split])))
	require.True(t, d.Assembling())
	events := d.Decode(bm83.EvtAVRCPVendorDepRsp, gea(true, 2, len(body), body[split:]))
	require.Len(t, events, 1)
	md := events[0].(MetadataReady).Metadata
	require.Equal(t, "A Long Title", md.Title)
	require.Equal(t, "Someone", md.Artist)
	require.False(t, md.HasDuration)
}

func TestDecodeElementAttributesTruncated(t *testing.T) {
	var d Decoder
	body := encodeAttrs(attr{AttrTitle, "Title"}, attr{AttrArtist, "Artist"})
	events := d.Decode(bm83.EvtAVRCPVendorDepRsp, gea(true, 2, len(body), body[:len(body)-3]))
	require.Len(t, events, 1)
	md := events[0].(MetadataReady).Metadata
	require.Equal(t, "Title", md.Title)
	require.Equal(t, "Art", md.Artist)
}

func TestDecodeElementAttributesOverflow(t *testing.T) {
	d := Decoder{MaxFragments: 16}
	require.Empty(t, d.Decode(bm83.EvtAVRCPVendorDepRsp, gea(false, 1, 40, make([]byte, 20))))
	require.False(t, d.Assembling())

	body := encodeAttrs(attr{AttrTitle, "ok"})
	events := d.Decode(bm83.EvtAVRCPVendorDepRsp, gea(true, 1, len(body), body))
	require.Len(t, events, 1)
	require.Equal(t, "ok", events[0].(MetadataReady).Metadata.Title)
}

func TestDecodeElementAttributesIgnoresOtherPDU(t *testing.T) {
	var d Decoder
	require.Empty(t, d.Decode(bm83.EvtAVRCPVendorDepRsp, []byte{0x10, 0x00, 0, 1, 0, 0, 0}))
	require.Empty(t, d.Decode(bm83.EvtAVRCPVendorDepRsp, []byte{bm83.PDUGetElementAttributes}))
}

func TestCleanText(t *testing.T) {
	require.Equal(t, "abc", cleanText([]byte("  abc\n")))
	require.Equal(t, "a�b", cleanText([]byte{'a', 0xC3, 'b'}))
	require.Len(t, cleanText([]byte(strings.Repeat("a", 300))), MaxAttrLen)
}

func TestPlayStatusString(t *testing.T) {
	require.Equal(t, "playing", StatusPlaying.String())
	require.Equal(t, "status(0x09)", PlayStatus(9).String())
}
