package playback

import (
	"fmt"
	"time"
)

// Clock estimates the live playback position between updates from
// the phone. The running-since timestamp is set only while Playing.
type Clock struct {
	state    State
	position time.Duration
	duration time.Duration
	since    time.Time
}

// State returns the play state.
func (c *Clock) State() State {
	return c.state
}

// Duration returns the track length, zero if unknown.
func (c *Clock) Duration() time.Duration {
	return c.duration
}

// Running reports whether the clock is advancing.
func (c *Clock) Running() bool {
	return !c.since.IsZero()
}

// StartPlaying starts advancing from now unless already running.
func (c *Clock) StartPlaying(now time.Time) {
	if c.state == Playing {
		return
	}
	c.state, c.since = Playing, now
}

// Pause folds the elapsed time into the position and stops advancing.
func (c *Clock) Pause(now time.Time) {
	if c.state == Playing {
		c.position = c.clamp(c.position + now.Sub(c.since))
	}
	c.state, c.since = Paused, time.Time{}
}

// Stop stops the clock and rewinds to zero.
func (c *Clock) Stop() {
	c.state, c.since, c.position = Stopped, time.Time{}, 0
}

// Apply moves the clock into state s.
func (c *Clock) Apply(s State, now time.Time) {
	switch s {
	case Playing:
		c.StartPlaying(now)
	case Paused:
		c.Pause(now)
	default:
		c.Stop()
	}
}

// SetDuration sets the track length; zero means unknown.
func (c *Clock) SetDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.duration = d
}

// Reset sets the position reported by the phone. A running clock
// keeps running from now.
func (c *Clock) Reset(pos time.Duration, now time.Time) {
	if pos < 0 {
		pos = 0
	}
	c.position = pos
	if c.state == Playing {
		c.since = now
	}
}

// Live returns the estimated position, clamped to [0, Duration]
// when the duration is known.
func (c *Clock) Live(now time.Time) time.Duration {
	pos := c.position
	if c.state == Playing {
		pos += now.Sub(c.since)
	}
	return c.clamp(pos)
}

func (c *Clock) clamp(pos time.Duration) time.Duration {
	if pos < 0 {
		return 0
	}
	if c.duration > 0 && pos > c.duration {
		return c.duration
	}
	return pos
}

// FormatPosition renders m:ss, or h:mm:ss from one hour on.
func FormatPosition(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h, m, s := total/3600, total%3600/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
