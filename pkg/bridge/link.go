package bridge

import (
	"time"
)

// Timing of the phone link.
const (
	DefaultDisconnectHold   = 2 * time.Second
	DefaultPlayStatusPeriod = time.Second
	DefaultAttrsThrottle    = 1500 * time.Millisecond

	attrsOnConnect     = 800 * time.Millisecond
	attrsOnTrackChange = 250 * time.Millisecond
)

// connectedStates are BTM status values meaning a phone is linked.
var connectedStates = [...]byte{0x06, 0x0B, 0x82, 0x64, 0x65, 0x66}

// IsConnectedState reports whether a BTM status means connected.
func IsConnectedState(state byte) bool {
	for _, s := range connectedStates {
		if s == state {
			return true
		}
	}
	return false
}

type linkChange int

const (
	linkUnchanged linkChange = iota
	linkConnected
	linkDisconnected
)

// phoneLink tracks the connection from BTM status events. Short
// gaps are bridged: a disconnect is only reported once no connected
// status was seen for hold.
type phoneLink struct {
	hold      time.Duration
	connected bool
	lastSeen  time.Time
}

func (p *phoneLink) note(state byte, now time.Time) linkChange {
	if IsConnectedState(state) {
		p.lastSeen = now
		if !p.connected {
			p.connected = true
			return linkConnected
		}
		return linkUnchanged
	}
	if p.connected && now.Sub(p.lastSeen) > p.hold {
		p.connected = false
		return linkDisconnected
	}
	return linkUnchanged
}

func (p *phoneLink) drop() {
	p.connected = false
}

// requester paces AVRCP queries.
type requester struct {
	playStatusPeriod time.Duration
	attrsThrottle    time.Duration

	nextPlayStatus time.Time
	nextAttrs      time.Time
	lastAttrs      time.Time
}

// scheduleAttrs asks for metadata after delay, no earlier than the
// throttle allows. An earlier pending request is kept.
func (r *requester) scheduleAttrs(now time.Time, delay time.Duration) {
	at := now.Add(delay)
	if !r.lastAttrs.IsZero() {
		if earliest := r.lastAttrs.Add(r.attrsThrottle); at.Before(earliest) {
			at = earliest
		}
	}
	if r.nextAttrs.IsZero() || at.Before(r.nextAttrs) {
		r.nextAttrs = at
	}
}

func (r *requester) pollNow() {
	r.nextPlayStatus = time.Time{}
}

// due returns which queries must be sent now.
func (r *requester) due(now time.Time) (playStatus, attrs bool) {
	if !now.Before(r.nextPlayStatus) {
		playStatus = true
		r.nextPlayStatus = now.Add(r.playStatusPeriod)
	}
	if !r.nextAttrs.IsZero() && !now.Before(r.nextAttrs) {
		attrs = true
		r.lastAttrs, r.nextAttrs = now, time.Time{}
	}
	return
}

// Thresholds of track change inference.
const (
	trackRewind     = 2500 * time.Millisecond
	trackStartLimit = 3 * time.Second
)

// trackDetector infers track changes from consecutive play status
// answers, for phones that don't send TrackChanged reliably.
type trackDetector struct {
	valid     bool
	lastPos   time.Duration
	lastTotal time.Duration
}

func (d *trackDetector) observe(pos, total time.Duration) bool {
	changed := false
	if d.valid {
		if d.lastTotal > 0 && total > 0 && total != d.lastTotal {
			changed = true
		}
		if pos+trackRewind < d.lastPos && pos < trackStartLimit {
			changed = true
		}
	}
	d.valid, d.lastPos, d.lastTotal = true, pos, total
	return changed
}
