package bm83

import (
	"encoding/binary"
	"time"

	"github.com/golang/glog"
)

// Delays of the power-on sequence, relative to the press.
const (
	linkInitDelay = 500 * time.Millisecond
	eqResetDelay  = 650 * time.Millisecond
)

// PowerOn sends the power-on press now and schedules the release
// after PowerOnGap, followed by link initialization and an EQ reset
// to Off so the module does not come up in a stale preset. It is
// ignored while another power sequence is in progress and reports
// whether the sequence started.
func (l *Link) PowerOn() bool {
	if l.PowerBusy() {
		glog.Info("power on ignored, power sequence in progress")
		return false
	}
	gap := l.PowerOnGap
	if gap <= 0 {
		gap = DefaultPowerOnGap
	}
	l.mmi(MMIPowerOnPress)
	l.SendAfter(gap, OpMMIAction, []byte{0x00, MMIPowerOnRelease})
	l.SendAfter(gap+linkInitDelay, OpReadLocalBDAddr, nil)
	l.SendAfter(gap+linkInitDelay, OpEventFilter, []byte{0x00, 0x00, 0x00, 0x00})
	l.SendAfter(gap+linkInitDelay, OpBTMUtility, []byte{0x03, 0x01})
	l.SendAfter(gap+eqResetDelay, OpEQModeSetting, []byte{0x00, 0x00})
	l.poweredOn = true
	l.powerBusyUntil = l.now().Add(gap + eqResetDelay)
	glog.Info("power on")
	return true
}

// PowerOff sends the power-off press now and schedules the
// release after PowerOffGap. Like PowerOn it is ignored during
// another power sequence.
func (l *Link) PowerOff() bool {
	if l.PowerBusy() {
		glog.Info("power off ignored, power sequence in progress")
		return false
	}
	gap := l.PowerOffGap
	if gap <= 0 {
		gap = DefaultPowerOffGap
	}
	l.mmi(MMIPowerOffPress)
	l.SendAfter(gap, OpMMIAction, []byte{0x00, MMIPowerOffRelease})
	l.poweredOn = false
	l.powerBusyUntil = l.now().Add(gap)
	glog.Info("power off")
	return true
}

// PowerToggle flips the commanded power state.
func (l *Link) PowerToggle() bool {
	if l.poweredOn {
		return l.PowerOff()
	}
	return l.PowerOn()
}

// InitLink sends the commands that make the module report events.
func (l *Link) InitLink() {
	l.Send(OpReadLocalBDAddr, nil)
	l.Send(OpEventFilter, []byte{0x00, 0x00, 0x00, 0x00})
	l.Send(OpBTMUtility, []byte{0x03, 0x01})
	glog.Info("link initialized")
}

// Resume adopts a module that is already powered.
func (l *Link) Resume() {
	l.InitLink()
	l.poweredOn = true
}

// Pair enters pairing mode.
func (l *Link) Pair() error { return l.mmi(MMIEnterPairing) }

// VolumeUp raises the speaker gain.
func (l *Link) VolumeUp() error { return l.mmi(MMIVolumeUp) }

// VolumeDown lowers the speaker gain.
func (l *Link) VolumeDown() error { return l.mmi(MMIVolumeDown) }

// PlayPause toggles playback.
func (l *Link) PlayPause() error { return l.music(MusicPlayPause) }

// NextTrack skips forward.
func (l *Link) NextTrack() error { return l.music(MusicNext) }

// PreviousTrack skips backward.
func (l *Link) PreviousTrack() error { return l.music(MusicPrevious) }

// SetEQ selects an equalizer preset (0..10).
func (l *Link) SetEQ(mode byte) error {
	return l.Send(OpEQModeSetting, []byte{mode, 0x00})
}

// AckEvent acknowledges a received event. Command ACKs are
// never acknowledged.
func (l *Link) AckEvent(op byte) error {
	if op == EvtCommandAck {
		return nil
	}
	return l.Send(OpEventAck, []byte{op})
}

// GetPlayStatus queries total length, position and play state.
func (l *Link) GetPlayStatus() error {
	return l.Send(OpAVCVendorCmd, avcPayload(0, PDUGetPlayStatus, nil))
}

// RegisterNotification asks the phone to notify on an AVRCP event.
func (l *Link) RegisterNotification(event byte, interval time.Duration) error {
	params := make([]byte, 5)
	params[0] = event
	binary.BigEndian.PutUint32(params[1:], uint32(interval/time.Second))
	return l.Send(OpAVCVendorCmd, avcPayload(0, PDURegisterNotification, params))
}

// GetElementAttributes requests the track metadata.
func (l *Link) GetElementAttributes() error {
	p := make([]byte, 3, 3+4*len(ElementAttributes))
	p[0], p[1], p[2] = 0, PDUGetElementAttributes, byte(len(ElementAttributes))
	for _, id := range ElementAttributes {
		p = append(p, byte(id>>24), byte(id>>16), byte(id>>8), byte(id))
	}
	return l.Send(OpAVRCPVendorDepCmd, p)
}

func (l *Link) mmi(action byte) error {
	return l.Send(OpMMIAction, []byte{0x00, action})
}

func (l *Link) music(action byte) error {
	return l.Send(OpMusicControl, []byte{0x00, action})
}

func avcPayload(db, pdu byte, params []byte) []byte {
	b := make([]byte, 5, 5+len(params))
	b[0], b[1], b[2] = db, pdu, 0x00
	binary.BigEndian.PutUint16(b[3:], uint16(len(params)))
	return append(b, params...)
}
