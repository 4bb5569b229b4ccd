// Package avrcp decodes the AVRCP responses and notifications the
// BM83 forwards as events into semantic updates.
package avrcp

import (
	"fmt"
	"time"
)

// PlayStatus is the AVRCP play status byte.
type PlayStatus byte

// AVRCP play status values.
const (
	StatusStopped    PlayStatus = 0x00
	StatusPlaying    PlayStatus = 0x01
	StatusPaused     PlayStatus = 0x02
	StatusFwdSeek    PlayStatus = 0x03
	StatusRevSeek    PlayStatus = 0x04
	StatusError      PlayStatus = 0xFF
	StatusUnreported PlayStatus = 0xFE
)

// String implements fmt.Stringer.
func (s PlayStatus) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusFwdSeek:
		return "fwd-seek"
	case StatusRevSeek:
		return "rev-seek"
	case StatusError:
		return "error"
	case StatusUnreported:
		return "unreported"
	}
	return fmt.Sprintf("status(0x%02x)", byte(s))
}

// Event is a decoded update.
type Event interface {
	isEvent()
}

// BTMStatus reports the module link state byte.
type BTMStatus struct {
	State byte
}

// EqReport is the equalizer mode the module reports.
type EqReport struct {
	Mode byte
}

// PlayStatusReport answers GetPlayStatus.
type PlayStatusReport struct {
	Duration time.Duration
	Position time.Duration
	Status   PlayStatus
}

// PlayStatusChanged is the play status notification.
type PlayStatusChanged struct {
	Status PlayStatus
}

// TrackChanged is the track changed notification.
type TrackChanged struct{}

// PositionChanged is the playback position notification.
type PositionChanged struct {
	Position time.Duration
}

// MetadataReady carries a complete GetElementAttributes answer.
type MetadataReady struct {
	Metadata Metadata
}

func (BTMStatus) isEvent()         {}
func (EqReport) isEvent()          {}
func (PlayStatusReport) isEvent()  {}
func (PlayStatusChanged) isEvent() {}
func (TrackChanged) isEvent()      {}
func (PositionChanged) isEvent()   {}
func (MetadataReady) isEvent()     {}
