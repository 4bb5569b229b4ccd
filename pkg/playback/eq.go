package playback

import "fmt"

// EqMode is an equalizer preset of the module.
type EqMode byte

// Equalizer presets.
const (
	EqOff EqMode = iota
	EqSoft
	EqBass
	EqTreble
	EqClassical
	EqRock
	EqJazz
	EqPop
	EqDance
	EqRnB
	EqUser
)

// eqUserAlt is how some firmware reports the user preset.
const eqUserAlt = 11

var eqLabels = [...]string{
	EqOff:       "OFF",
	EqSoft:      "SOFT",
	EqBass:      "BASS",
	EqTreble:    "TREBLE",
	EqClassical: "CLASSICAL",
	EqRock:      "ROCK",
	EqJazz:      "JAZZ",
	EqPop:       "POP",
	EqDance:     "DANCE",
	EqRnB:       "RNB",
	EqUser:      "USER",
}

// Valid reports whether m is a known preset.
func (m EqMode) Valid() bool {
	return m <= EqUser
}

// String returns the display label.
func (m EqMode) String() string {
	if m.Valid() {
		return eqLabels[m]
	}
	return fmt.Sprintf("EQ(%d)", byte(m))
}

// Next returns the preset after m when cycling. The user preset
// is never cycled into; cycling from it starts after Off.
func (m EqMode) Next() EqMode {
	if m >= EqRnB {
		if m == EqRnB {
			return EqOff
		}
		return EqSoft
	}
	return m + 1
}

// EqFromDevice maps a reported mode byte.
func EqFromDevice(b byte) (EqMode, bool) {
	if b == eqUserAlt {
		return EqUser, true
	}
	m := EqMode(b)
	return m, m.Valid()
}

// ParseEqMode maps a label like "ROCK" to its preset.
func ParseEqMode(label string) (EqMode, bool) {
	for m, l := range eqLabels {
		if l == label {
			return EqMode(m), true
		}
	}
	return EqOff, false
}
