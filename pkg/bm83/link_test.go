package bm83

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/ampbridge/pkg/framework"
)

// testPort returns one queued chunk per Read and records writes.
type testPort struct {
	chunks   [][]byte
	written  bytes.Buffer
	writeErr error
}

func (p *testPort) Read(b []byte) (int, error) {
	if len(p.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(b, p.chunks[0])
	if n < len(p.chunks[0]) {
		p.chunks[0] = p.chunks[0][n:]
	} else {
		p.chunks = p.chunks[1:]
	}
	return n, nil
}

func (p *testPort) Write(b []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	return p.written.Write(b)
}

func (p *testPort) frames(t *testing.T) []Frame {
	var parser Parser
	return parser.Feed(p.written.Bytes())
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

func newTestLink() (*Link, *testPort, *testClock) {
	port := &testPort{}
	clock := &testClock{now: time.Unix(1000, 0)}
	l := NewLink(port)
	l.Clock = clock
	return l, port, clock
}

var _ fx.Clock = &testClock{}

func TestLinkPollBounded(t *testing.T) {
	l, port, _ := newTestLink()
	var stream []byte
	for i := byte(0); i < 5; i++ {
		stream = append(stream, mustEncode(t, EvtBTMStatus, i)...)
	}
	port.chunks = [][]byte{stream}

	frames := l.Poll(2)
	require.Len(t, frames, 2)
	require.Equal(t, []byte{0}, frames[0].Params)
	frames = l.Poll(2)
	require.Len(t, frames, 2)
	require.Equal(t, []byte{2}, frames[0].Params)
	frames = l.Poll(2)
	require.Len(t, frames, 1)
	require.Equal(t, []byte{4}, frames[0].Params)
	require.Empty(t, l.Poll(2))
}

func TestLinkPollAcrossChunks(t *testing.T) {
	l, port, _ := newTestLink()
	b := mustEncode(t, EvtEQModeInd, 0x06)
	port.chunks = [][]byte{b[:2], b[2:5], b[5:]}
	require.Empty(t, l.Poll(4))
	require.Empty(t, l.Poll(4))
	frames := l.Poll(4)
	require.Equal(t, []Frame{{Op: EvtEQModeInd, Params: []byte{0x06}}}, frames)
}

func TestLinkSendWriteError(t *testing.T) {
	l, port, _ := newTestLink()
	port.writeErr = errors.New("unplugged")
	err := l.Send(OpMusicControl, []byte{0x00, MusicPlayPause})
	require.Error(t, err)
	werr, ok := err.(*WriteError)
	require.True(t, ok)
	require.Equal(t, OpMusicControl, werr.Op)
	require.Equal(t, uint64(1), l.WriteErrors())
}

func TestLinkNoPort(t *testing.T) {
	l := NewLink(nil)
	require.Equal(t, ErrNoPort, l.Send(OpMMIAction, nil))
	require.Empty(t, l.Poll(4))
}

func TestLinkSemanticCommands(t *testing.T) {
	testCases := []struct {
		name   string
		send   func(*Link) error
		expect Frame
	}{
		{"play pause", (*Link).PlayPause, Frame{Op: OpMusicControl, Params: []byte{0x00, MusicPlayPause}}},
		{"next", (*Link).NextTrack, Frame{Op: OpMusicControl, Params: []byte{0x00, MusicNext}}},
		{"previous", (*Link).PreviousTrack, Frame{Op: OpMusicControl, Params: []byte{0x00, MusicPrevious}}},
		{"volume up", (*Link).VolumeUp, Frame{Op: OpMMIAction, Params: []byte{0x00, MMIVolumeUp}}},
		{"volume down", (*Link).VolumeDown, Frame{Op: OpMMIAction, Params: []byte{0x00, MMIVolumeDown}}},
		{"pair", (*Link).Pair, Frame{Op: OpMMIAction, Params: []byte{0x00, MMIEnterPairing}}},
		{"eq", func(l *Link) error { return l.SetEQ(6) }, Frame{Op: OpEQModeSetting, Params: []byte{0x06, 0x00}}},
		{"ack", func(l *Link) error { return l.AckEvent(EvtBTMStatus) }, Frame{Op: OpEventAck, Params: []byte{EvtBTMStatus}}},
		{"play status", (*Link).GetPlayStatus, Frame{Op: OpAVCVendorCmd, Params: []byte{0x00, PDUGetPlayStatus, 0x00, 0x00, 0x00}}},
		{"notify", func(l *Link) error { return l.RegisterNotification(NotifyPositionChanged, time.Second) },
			Frame{Op: OpAVCVendorCmd, Params: []byte{0x00, PDURegisterNotification, 0x00, 0x00, 0x05, NotifyPositionChanged, 0, 0, 0, 1}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l, port, _ := newTestLink()
			require.NoError(t, tc.send(l))
			require.Equal(t, []Frame{tc.expect}, port.frames(t))
		})
	}
}

func TestLinkAckSkipsCommandAck(t *testing.T) {
	l, port, _ := newTestLink()
	require.NoError(t, l.AckEvent(EvtCommandAck))
	require.Equal(t, 0, port.written.Len())
}

func TestLinkGetElementAttributes(t *testing.T) {
	l, port, _ := newTestLink()
	require.NoError(t, l.GetElementAttributes())
	frames := port.frames(t)
	require.Len(t, frames, 1)
	require.Equal(t, OpAVRCPVendorDepCmd, frames[0].Op)
	p := frames[0].Params
	require.Equal(t, []byte{0x00, PDUGetElementAttributes, 7}, p[:3])
	require.Len(t, p, 3+4*7)
	require.Equal(t, []byte{0, 0, 0, 1}, p[3:7])
	require.Equal(t, []byte{0, 0, 0, 7}, p[len(p)-4:])
}

func TestLinkPowerOnKeepsGap(t *testing.T) {
	l, port, clock := newTestLink()
	l.PowerOn()
	require.True(t, l.PoweredOn())
	require.Equal(t, []Frame{{Op: OpMMIAction, Params: []byte{0x00, MMIPowerOnPress}}}, port.frames(t))

	require.Equal(t, 0, l.Flush(clock.advance(DefaultPowerOnGap-time.Millisecond)))
	require.Equal(t, 1, l.Flush(clock.advance(time.Millisecond)))
	frames := port.frames(t)
	require.Len(t, frames, 2)
	require.Equal(t, []byte{0x00, MMIPowerOnRelease}, frames[1].Params)

	require.Equal(t, 3, l.Flush(clock.advance(linkInitDelay)))
	require.Equal(t, 1, l.Flush(clock.advance(eqResetDelay-linkInitDelay)))
	frames = port.frames(t)
	require.Len(t, frames, 6)
	require.Equal(t, Frame{Op: OpEQModeSetting, Params: []byte{0x00, 0x00}}, frames[5])
	require.Equal(t, 0, l.Scheduled())
}

func TestLinkPowerToggle(t *testing.T) {
	l, port, clock := newTestLink()
	l.PowerToggle()
	require.True(t, l.PoweredOn())
	l.Flush(clock.advance(time.Second))
	port.written.Reset()

	l.PowerToggle()
	require.False(t, l.PoweredOn())
	require.Equal(t, 0, l.Flush(clock.advance(DefaultPowerOffGap/2)))
	require.Equal(t, 1, l.Flush(clock.advance(DefaultPowerOffGap/2)))
	require.Equal(t, []Frame{
		{Op: OpMMIAction, Params: []byte{0x00, MMIPowerOffPress}},
		{Op: OpMMIAction, Params: []byte{0x00, MMIPowerOffRelease}},
	}, port.frames(t))
}

func TestLinkSendAfterOrdering(t *testing.T) {
	l, port, clock := newTestLink()
	l.SendAfter(20*time.Millisecond, 0x31, nil)
	l.SendAfter(10*time.Millisecond, 0x21, nil)
	l.SendAfter(20*time.Millisecond, 0x32, nil)
	l.SendAfter(10*time.Millisecond, 0x22, nil)
	require.Equal(t, 4, l.Flush(clock.advance(time.Second)))
	var ops []byte
	for _, f := range port.frames(t) {
		ops = append(ops, f.Op)
	}
	require.Equal(t, []byte{0x21, 0x22, 0x31, 0x32}, ops)
}

func TestLinkResume(t *testing.T) {
	l, port, _ := newTestLink()
	l.Resume()
	require.True(t, l.PoweredOn())
	require.Equal(t, []Frame{
		{Op: OpReadLocalBDAddr},
		{Op: OpEventFilter, Params: []byte{0, 0, 0, 0}},
		{Op: OpBTMUtility, Params: []byte{0x03, 0x01}},
	}, port.frames(t))
}

func TestLinkPowerSequenceNotInterleaved(t *testing.T) {
	l, port, clock := newTestLink()
	require.True(t, l.PowerOn())
	require.True(t, l.PowerBusy())
	clock.advance(150 * time.Millisecond)
	require.False(t, l.PowerOff())
	require.False(t, l.PowerToggle())
	require.True(t, l.PoweredOn())

	l.Flush(clock.advance(time.Second))
	require.False(t, l.PowerBusy())
	for _, f := range port.frames(t) {
		if f.Op == OpMMIAction {
			require.NotEqual(t, MMIPowerOffPress, f.Params[1])
		}
	}

	require.True(t, l.PowerOff())
	require.False(t, l.PowerOn())
	clock.advance(DefaultPowerOffGap)
	require.False(t, l.PowerBusy())
	require.True(t, l.PowerOn())
}
