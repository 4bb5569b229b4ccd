package bm83

import (
	"io"
	"os"
	"sort"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/ampbridge/pkg/framework"
)

// Link defaults.
const (
	DefaultReadChunk   = 768
	DefaultPowerOnGap  = 200 * time.Millisecond
	DefaultPowerOffGap = 1500 * time.Millisecond
)

// Link owns the module UART. Poll never blocks longer than one
// Read of the underlying port, which is expected to time out
// quickly when no data is pending.
type Link struct {
	Port        io.ReadWriter
	Clock       fx.Clock
	ReadChunk   int
	PowerOnGap  time.Duration
	PowerOffGap time.Duration

	parser    Parser
	readBuf   []byte
	pending   []Frame
	outbox    []scheduled
	poweredOn bool
	// powerBusyUntil is when the last power sequence completes.
	powerBusyUntil time.Time

	writeErrors uint64
	readErrors  uint64
}

type scheduled struct {
	due   time.Time
	frame Frame
}

// NewLink creates a Link on a port.
func NewLink(port io.ReadWriter) *Link {
	return &Link{
		Port:        port,
		Clock:       fx.SystemClock,
		ReadChunk:   DefaultReadChunk,
		PowerOnGap:  DefaultPowerOnGap,
		PowerOffGap: DefaultPowerOffGap,
	}
}

// Parser exposes the frame parser for tuning and stats.
func (l *Link) Parser() *Parser {
	return &l.parser
}

// PoweredOn reports the last power state this link commanded.
func (l *Link) PoweredOn() bool {
	return l.poweredOn
}

// WriteErrors returns the number of failed writes.
func (l *Link) WriteErrors() uint64 {
	return l.writeErrors
}

// Poll reads what the port has and returns at most max frames.
// Frames beyond max are kept for the next call.
func (l *Link) Poll(max int) []Frame {
	if len(l.pending) < max {
		l.readOnce()
	}
	n := len(l.pending)
	if n > max {
		n = max
	}
	if n == 0 {
		return nil
	}
	out := make([]Frame, n)
	copy(out, l.pending)
	l.pending = l.pending[:copy(l.pending, l.pending[n:])]
	return out
}

func (l *Link) readOnce() {
	if l.Port == nil {
		return
	}
	size := l.ReadChunk
	if size <= 0 {
		size = DefaultReadChunk
	}
	if cap(l.readBuf) < size {
		l.readBuf = make([]byte, size)
	}
	n, err := l.Port.Read(l.readBuf[:size])
	if n > 0 {
		frames := l.parser.Feed(l.readBuf[:n])
		for _, f := range frames {
			if glog.V(2) {
				glog.Infof("BM83 RX %s", f)
			}
		}
		l.pending = append(l.pending, frames...)
	}
	if err != nil && err != io.EOF && !os.IsTimeout(err) {
		l.readErrors++
		glog.V(1).Infof("BM83 read error: %v", err)
	}
}

// Send writes one command immediately.
func (l *Link) Send(op byte, params []byte) error {
	if l.Port == nil {
		return ErrNoPort
	}
	f := Frame{Op: op, Params: params}
	if glog.V(2) {
		glog.Infof("BM83 TX %s", f)
	}
	if _, err := f.WriteTo(l.Port); err != nil {
		l.writeErrors++
		werr := &WriteError{Op: op, Err: err}
		glog.Warning(werr)
		return werr
	}
	return nil
}

// SendAfter schedules a command to be written by Flush once
// delay has passed. Commands with the same due time keep their
// scheduling order.
func (l *Link) SendAfter(delay time.Duration, op byte, params []byte) {
	s := scheduled{due: l.now().Add(delay), frame: Frame{Op: op, Params: params}}
	i := sort.Search(len(l.outbox), func(i int) bool {
		return l.outbox[i].due.After(s.due)
	})
	l.outbox = append(l.outbox, scheduled{})
	copy(l.outbox[i+1:], l.outbox[i:])
	l.outbox[i] = s
}

// PowerBusy reports whether a power sequence is still being sent.
func (l *Link) PowerBusy() bool {
	return l.now().Before(l.powerBusyUntil)
}

// Scheduled returns the number of commands waiting in the outbox.
func (l *Link) Scheduled() int {
	return len(l.outbox)
}

// Flush writes scheduled commands that are due and returns how
// many were written.
func (l *Link) Flush(now time.Time) int {
	n := 0
	for n < len(l.outbox) && !l.outbox[n].due.After(now) {
		f := l.outbox[n].frame
		l.Send(f.Op, f.Params)
		n++
	}
	if n > 0 {
		l.outbox = l.outbox[:copy(l.outbox, l.outbox[n:])]
	}
	return n
}

func (l *Link) now() time.Time {
	if l.Clock == nil {
		return time.Now()
	}
	return l.Clock.Now()
}
