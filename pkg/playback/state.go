// Package playback tracks what the phone is playing: the live
// position estimate and the equalizer/play state shown on the display.
package playback

import (
	"fmt"

	"github.com/robotalks/ampbridge/pkg/avrcp"
)

// State is the play state.
type State int

// Play states.
const (
	Stopped State = iota
	Playing
	Paused
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Label is the text shown on the display.
func (s State) Label() string {
	switch s {
	case Playing:
		return "PLAYING"
	case Paused:
		return "PAUSED"
	}
	return "STOPPED"
}

// StateFromStatus maps an AVRCP play status. Seeking counts as
// playing. Error and unreported statuses are not mapped.
func StateFromStatus(s avrcp.PlayStatus) (State, bool) {
	switch s {
	case avrcp.StatusStopped:
		return Stopped, true
	case avrcp.StatusPlaying, avrcp.StatusFwdSeek, avrcp.StatusRevSeek:
		return Playing, true
	case avrcp.StatusPaused:
		return Paused, true
	}
	return Stopped, false
}
