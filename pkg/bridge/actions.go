package bridge

import (
	"fmt"

	"github.com/robotalks/ampbridge/pkg/playback"
)

// Action is what a display token asks for.
type Action int

// Actions.
const (
	ActionNone Action = iota
	ActionPowerToggle
	ActionPowerOff
	ActionPair
	ActionPlayPause
	ActionPrevious
	ActionNext
	ActionVolumeUp
	ActionVolumeDown
	ActionEQNext
	ActionEQSelect
)

var actionNames = [...]string{
	ActionNone:        "none",
	ActionPowerToggle: "power-toggle",
	ActionPowerOff:    "power-off",
	ActionPair:        "pair",
	ActionPlayPause:   "play-pause",
	ActionPrevious:    "previous",
	ActionNext:        "next",
	ActionVolumeUp:    "volume-up",
	ActionVolumeDown:  "volume-down",
	ActionEQNext:      "eq-next",
	ActionEQSelect:    "eq-select",
}

// String implements fmt.Stringer.
func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Binding is the action bound to a token.
type Binding struct {
	Action Action
	// EQ is the preset of ActionEQSelect.
	EQ playback.EqMode
}

// Bindings maps the tokens of the HMI project to actions.
var Bindings = map[string]Binding{
	"BT_POWER":    {Action: ActionPowerToggle},
	"BT_POWEROFF": {Action: ActionPowerOff},
	"BT_PAIR":     {Action: ActionPair},
	"BT_PLAY":     {Action: ActionPlayPause},
	"BT_PREV":     {Action: ActionPrevious},
	"BT_NEXT":     {Action: ActionNext},
	"BT_VOLUP":    {Action: ActionVolumeUp},
	"BT_VOLDN":    {Action: ActionVolumeDown},

	"EQ_NEXT":      {Action: ActionEQNext},
	"EQ_OFF":       {Action: ActionEQSelect, EQ: playback.EqOff},
	"EQ_SOFT":      {Action: ActionEQSelect, EQ: playback.EqSoft},
	"EQ_BASS":      {Action: ActionEQSelect, EQ: playback.EqBass},
	"EQ_TREBLE":    {Action: ActionEQSelect, EQ: playback.EqTreble},
	"EQ_CLASSICAL": {Action: ActionEQSelect, EQ: playback.EqClassical},
	"EQ_ROCK":      {Action: ActionEQSelect, EQ: playback.EqRock},
	"EQ_JAZZ":      {Action: ActionEQSelect, EQ: playback.EqJazz},
	"EQ_POP":       {Action: ActionEQSelect, EQ: playback.EqPop},
	"EQ_DANCE":     {Action: ActionEQSelect, EQ: playback.EqDance},
	"EQ_RNB":       {Action: ActionEQSelect, EQ: playback.EqRnB},
	"EQ_USER":      {Action: ActionEQSelect, EQ: playback.EqUser},
}

// Lookup finds the binding of a token name.
func Lookup(name string) (Binding, bool) {
	b, ok := Bindings[name]
	return b, ok
}
