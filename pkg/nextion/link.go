package nextion

import (
	"io"
	"os"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/ampbridge/pkg/framework"
)

// Link defaults.
const (
	DefaultReadChunk         = 256
	DefaultDebounce          = 100 * time.Millisecond
	DefaultTxInterval        = 35 * time.Millisecond
	DefaultMaxQueue          = 50
	DefaultKeepaliveInterval = 500 * time.Millisecond
	DefaultStaleAfter        = 3 * time.Second
)

// NoPage is reported before the display told its page.
const NoPage = -1

// Link owns the display UART: it reads tokens and paces the
// outgoing instruction queue.
type Link struct {
	Port              io.ReadWriter
	Clock             fx.Clock
	ReadChunk         int
	Debounce          time.Duration
	TxInterval        time.Duration
	MaxQueue          int
	KeepaliveInterval time.Duration
	StaleAfter        time.Duration

	scanner Scanner
	readBuf []byte
	pending []Token
	queue   []Command

	page        int
	pageChanged bool
	lastToken   string
	lastTokenAt time.Time
	lastTxAt    time.Time
	lastAliveAt time.Time
	lastRxAt    time.Time
	responsive  bool

	dropped     uint64
	writeErrors uint64
}

// NewLink creates a Link on a port.
func NewLink(port io.ReadWriter) *Link {
	return &Link{
		Port:              port,
		Clock:             fx.SystemClock,
		ReadChunk:         DefaultReadChunk,
		Debounce:          DefaultDebounce,
		TxInterval:        DefaultTxInterval,
		MaxQueue:          DefaultMaxQueue,
		KeepaliveInterval: DefaultKeepaliveInterval,
		StaleAfter:        DefaultStaleAfter,
		page:              NoPage,
	}
}

// Scanner exposes the frame scanner for tuning and stats.
func (l *Link) Scanner() *Scanner {
	return &l.scanner
}

// Page returns the current page or NoPage.
func (l *Link) Page() int {
	return l.page
}

// Responsive reports whether the display answered recently.
func (l *Link) Responsive() bool {
	return l.responsive
}

// Queued returns the number of instructions waiting.
func (l *Link) Queued() int {
	return len(l.queue)
}

// Dropped returns the number of instructions lost to queue overflow.
func (l *Link) Dropped() uint64 {
	return l.dropped
}

// WriteErrors returns the number of failed writes.
func (l *Link) WriteErrors() uint64 {
	return l.writeErrors
}

// BootSync forgets everything about the display and asks it to
// report its page.
func (l *Link) BootSync() {
	l.scanner.Reset()
	l.pending = l.pending[:0]
	l.queue = l.queue[:0]
	l.page, l.pageChanged = NoPage, false
	l.lastToken = ""
	l.lastTxAt = time.Time{}
	l.lastAliveAt = l.now()
	l.Enqueue(AllReplies)
	l.Enqueue(SendMe)
}

// Poll reads what the port has and returns at most max tokens and
// whether the page changed since the last Poll. Repeats of the
// same token within Debounce are suppressed.
func (l *Link) Poll(max int) ([]Token, bool) {
	if len(l.pending) < max {
		l.readOnce()
	}
	changed := l.pageChanged
	l.pageChanged = false
	n := len(l.pending)
	if n > max {
		n = max
	}
	if n == 0 {
		return nil, changed
	}
	out := make([]Token, n)
	copy(out, l.pending)
	l.pending = l.pending[:copy(l.pending, l.pending[n:])]
	return out, changed
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
		now := l.now()
		for _, raw := range l.scanner.Feed(l.readBuf[:n]) {
			l.handleFrame(raw, now)
		}
	}
	if err != nil && err != io.EOF && !os.IsTimeout(err) {
		glog.V(1).Infof("NX read error: %v", err)
	}
}

func (l *Link) handleFrame(raw []byte, now time.Time) {
	l.lastRxAt = now
	if !l.responsive {
		l.responsive = true
		glog.Info("display responsive")
	}
	msg, err := ParseFrame(raw)
	if err != nil {
		if glog.V(3) {
			glog.Infof("NX RX ignored % X: %v", raw, err)
		}
		return
	}
	switch m := msg.(type) {
	case PageEvent:
		if l.page != int(m.Page) {
			l.page = int(m.Page)
			l.pageChanged = true
			glog.V(1).Infof("NX page=%d", m.Page)
		}
	case Token:
		key := m.String()
		if key == l.lastToken && now.Sub(l.lastTokenAt) < l.Debounce {
			glog.V(2).Infof("NX token %s debounced", key)
			return
		}
		l.lastToken, l.lastTokenAt = key, now
		glog.V(1).Infof("NX token %s", key)
		l.pending = append(l.pending, m)
	}
}

// Enqueue appends an instruction. When the queue is full the
// oldest instruction is dropped.
func (l *Link) Enqueue(cmd Command) {
	max := l.MaxQueue
	if max <= 0 {
		max = DefaultMaxQueue
	}
	for len(l.queue) >= max {
		glog.V(1).Infof("NX queue full, dropped %s", l.queue[0])
		l.queue = l.queue[:copy(l.queue, l.queue[1:])]
		l.dropped++
	}
	l.queue = append(l.queue, cmd)
}

// Drain writes up to max queued instructions, keeping at least
// TxInterval between writes, and returns how many were written.
// It also issues the keepalive and tracks staleness.
func (l *Link) Drain(now time.Time, max int) int {
	l.keepalive(now)
	n := 0
	for n < max && len(l.queue) > 0 {
		if !l.lastTxAt.IsZero() && now.Sub(l.lastTxAt) < l.TxInterval {
			break
		}
		cmd := l.queue[0]
		l.queue = l.queue[:copy(l.queue, l.queue[1:])]
		l.write(cmd)
		l.lastTxAt = now
		n++
	}
	return n
}

// DrainAll writes every queued instruction without pacing and
// returns how many were written. It is meant for shutdown.
func (l *Link) DrainAll() int {
	n := len(l.queue)
	for _, cmd := range l.queue {
		l.write(cmd)
	}
	l.queue = l.queue[:0]
	return n
}

func (l *Link) keepalive(now time.Time) {
	if l.KeepaliveInterval > 0 && len(l.queue) == 0 && now.Sub(l.lastAliveAt) >= l.KeepaliveInterval {
		l.lastAliveAt = now
		l.Enqueue(SendMe)
	}
	if l.responsive && l.StaleAfter > 0 && now.Sub(l.lastRxAt) >= l.StaleAfter {
		l.responsive = false
		glog.Warningf("display not answering for %v", now.Sub(l.lastRxAt))
	}
}

func (l *Link) write(cmd Command) {
	if l.Port == nil {
		l.writeErrors++
		return
	}
	if glog.V(2) {
		glog.Infof("NX TX %s", cmd)
	}
	if _, err := l.Port.Write(cmd.Bytes()); err != nil {
		l.writeErrors++
		glog.Warningf("NX write %q: %v", cmd.String(), err)
	}
}

func (l *Link) now() time.Time {
	if l.Clock == nil {
		return time.Now()
	}
	return l.Clock.Now()
}
