package playback

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/ampbridge/pkg/nextion"
)

// CommandSender forwards requests to the module.
type CommandSender interface {
	SetEQ(mode byte) error
	PlayPause() error
}

// Publisher accepts display updates.
type Publisher interface {
	Enqueue(nextion.Command)
}

// Default display objects.
var (
	DefaultEQObjects   = []string{"tEQ0", "tEQ1"}
	DefaultStateObject = "tState"
)

// Synchronizer mirrors equalizer and play state between module and
// display. Local requests update the mirror optimistically; reports
// from the module always overwrite it.
type Synchronizer struct {
	Sender      CommandSender
	Publisher   Publisher
	EQObjects   []string
	StateObject string

	eq    EqMode
	state State
}

// NewSynchronizer creates a Synchronizer assuming EQ off and stopped.
func NewSynchronizer(sender CommandSender, pub Publisher) *Synchronizer {
	return &Synchronizer{
		Sender:      sender,
		Publisher:   pub,
		EQObjects:   DefaultEQObjects,
		StateObject: DefaultStateObject,
	}
}

// EQ returns the mirrored equalizer preset.
func (s *Synchronizer) EQ() EqMode {
	return s.eq
}

// PlayState returns the mirrored play state.
func (s *Synchronizer) PlayState() State {
	return s.state
}

// RequestEQ selects a preset on the module.
func (s *Synchronizer) RequestEQ(mode EqMode) error {
	if !mode.Valid() {
		return fmt.Errorf("invalid eq mode %d", byte(mode))
	}
	if err := s.Sender.SetEQ(byte(mode)); err != nil {
		return err
	}
	glog.V(1).Infof("eq request %s", mode)
	s.setEQ(mode)
	return nil
}

// NextEQ cycles to the preset after the mirrored one.
func (s *Synchronizer) NextEQ() (EqMode, error) {
	next := s.eq.Next()
	return next, s.RequestEQ(next)
}

// RequestPlayPause toggles playback on the module.
func (s *Synchronizer) RequestPlayPause() error {
	if err := s.Sender.PlayPause(); err != nil {
		return err
	}
	if s.state == Playing {
		s.setState(Paused)
	} else {
		s.setState(Playing)
	}
	return nil
}

// ApplyEQ takes the preset reported by the module.
func (s *Synchronizer) ApplyEQ(b byte) {
	mode, ok := EqFromDevice(b)
	if !ok {
		glog.V(1).Infof("unknown eq mode 0x%02X", b)
		return
	}
	if mode != s.eq {
		glog.Infof("eq %s -> %s (module)", s.eq, mode)
	}
	s.setEQ(mode)
}

// ApplyPlayState takes the play state reported by the phone.
func (s *Synchronizer) ApplyPlayState(state State) {
	s.setState(state)
}

// ForceEQOff records that the module was reset to EQ off, which
// the module power-on sequence does by itself.
func (s *Synchronizer) ForceEQOff() {
	s.setEQ(EqOff)
}

// Refresh publishes the whole mirror.
func (s *Synchronizer) Refresh() {
	s.publishEQ()
	s.publishState()
}

func (s *Synchronizer) setEQ(mode EqMode) {
	if mode == s.eq {
		return
	}
	s.eq = mode
	s.publishEQ()
}

func (s *Synchronizer) setState(state State) {
	if state == s.state {
		return
	}
	s.state = state
	s.publishState()
}

func (s *Synchronizer) publishEQ() {
	if s.Publisher == nil {
		return
	}
	for _, obj := range s.EQObjects {
		s.Publisher.Enqueue(nextion.Text(obj, s.eq.String()))
	}
}

func (s *Synchronizer) publishState() {
	if s.Publisher == nil || s.StateObject == "" {
		return
	}
	s.Publisher.Enqueue(nextion.Text(s.StateObject, s.state.Label()))
}
