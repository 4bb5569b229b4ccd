package avrcp

import (
	"encoding/binary"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/ampbridge/pkg/bm83"
)

// DefaultMaxFragments caps the bytes collected for one
// GetElementAttributes answer.
const DefaultMaxFragments = 4096

// Decoder turns module events into semantic events. It keeps
// the partial GetElementAttributes answer between frames.
type Decoder struct {
	MaxFragments int

	frag       []byte
	expectLen  int
	assembling bool
}

// Decode classifies one event frame. Unknown or malformed
// events produce no events.
func (d *Decoder) Decode(op byte, params []byte) []Event {
	switch op {
	case bm83.EvtBTMStatus:
		if len(params) > 0 {
			return []Event{BTMStatus{State: params[0]}}
		}
	case bm83.EvtEQModeInd:
		if len(params) > 0 {
			return []Event{EqReport{Mode: params[0]}}
		}
	case bm83.EvtAVCVendorRsp:
		return d.decodeAVCVendorRsp(params)
	case bm83.EvtAVRCPVendorDepRsp:
		if ev := d.decodeElementAttributes(params); ev != nil {
			return []Event{ev}
		}
	default:
		glog.V(3).Infof("ignored event op=0x%02X", op)
	}
	return nil
}

// Assembling reports whether a multi-frame answer is in progress.
func (d *Decoder) Assembling() bool {
	return d.assembling
}

// Reset drops a partial answer.
func (d *Decoder) Reset() {
	d.frag, d.expectLen, d.assembling = d.frag[:0], 0, false
}

// params: db(1) | header(6) | pdu(1) | packet type(1) | len(2) | avp
func (d *Decoder) decodeAVCVendorRsp(params []byte) []Event {
	if len(params) < 11 {
		return nil
	}
	p := params[1:]
	pdu, pktType := p[6], p[7]
	plen := int(binary.BigEndian.Uint16(p[8:10]))
	if len(p) < 10+plen {
		glog.V(1).Infof("truncated AVC response pdu=0x%02X", pdu)
		return nil
	}
	if pktType != 0x00 {
		return nil
	}
	avp := p[10 : 10+plen]
	switch pdu {
	case bm83.PDUGetPlayStatus:
		if len(avp) >= 9 {
			return []Event{PlayStatusReport{
				Duration: msec(avp[0:4]),
				Position: msec(avp[4:8]),
				Status:   PlayStatus(avp[8]),
			}}
		}
		if len(avp) >= 8 {
			return []Event{PlayStatusReport{
				Duration: msec(avp[0:4]),
				Position: msec(avp[4:8]),
				Status:   StatusUnreported,
			}}
		}
	case bm83.PDURegisterNotification:
		if len(avp) < 1 {
			return nil
		}
		switch avp[0] {
		case bm83.NotifyPlayStatusChanged:
			if len(avp) >= 2 {
				return []Event{PlayStatusChanged{Status: PlayStatus(avp[1])}}
			}
		case bm83.NotifyTrackChanged:
			return []Event{TrackChanged{}}
		case bm83.NotifyPositionChanged:
			if len(avp) >= 5 {
				return []Event{PositionChanged{Position: msec(avp[1:5])}}
			}
		default:
			glog.V(2).Infof("ignored notification 0x%02X", avp[0])
		}
	}
	return nil
}

// params: pdu(1) | reserved(1) | resp(1) | is_end(1) | attr_num(1) | total_len(2) | part
func (d *Decoder) decodeElementAttributes(params []byte) Event {
	if len(params) < 2 || params[0] != bm83.PDUGetElementAttributes {
		return nil
	}
	payload := params[2:]
	if len(payload) < 5 {
		return nil
	}
	isEnd, attrNum := payload[1], int(payload[2])
	totalLen := int(binary.BigEndian.Uint16(payload[3:5]))
	if !d.assembling {
		d.frag, d.expectLen, d.assembling = d.frag[:0], totalLen, true
	}
	d.frag = append(d.frag, payload[5:]...)
	if max := d.maxFragments(); len(d.frag) > max {
		glog.Warningf("element attributes exceed %d bytes, dropped", max)
		d.Reset()
		return nil
	}
	if isEnd != 0x01 {
		return nil
	}
	full := d.frag
	if d.expectLen < len(full) {
		full = full[:d.expectLen]
	}
	attrs := parseAttributes(full, attrNum)
	d.Reset()
	return MetadataReady{Metadata: newMetadata(attrs)}
}

// Each attribute: id(4) | charset(2) | len(2) | value.
func parseAttributes(b []byte, count int) map[uint32]string {
	attrs := make(map[uint32]string, count)
	for i := 0; i < count; i++ {
		if len(b) < 8 {
			break
		}
		id := binary.BigEndian.Uint32(b[0:4])
		vlen := int(binary.BigEndian.Uint16(b[6:8]))
		b = b[8:]
		if vlen > len(b) {
			vlen = len(b)
		}
		attrs[id] = cleanText(b[:vlen])
		b = b[vlen:]
	}
	return attrs
}

func msec(b []byte) time.Duration {
	return time.Duration(binary.BigEndian.Uint32(b)) * time.Millisecond
}

func (d *Decoder) maxFragments() int {
	if d.MaxFragments > 0 {
		return d.MaxFragments
	}
	return DefaultMaxFragments
}
