// Package bridge drives the audio module and the display from one
// cooperative loop.
package bridge

import (
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/ampbridge/pkg/avrcp"
	"github.com/robotalks/ampbridge/pkg/bm83"
	fx "github.com/robotalks/ampbridge/pkg/framework"
	"github.com/robotalks/ampbridge/pkg/hid"
	"github.com/robotalks/ampbridge/pkg/nextion"
	"github.com/robotalks/ampbridge/pkg/playback"
)

// Per-iteration limits.
const (
	DefaultMaxFrames = 8
	DefaultMaxTokens = 6
	DefaultMaxDrain  = 4
)

// DefaultMuteWindow is the longest gap of a volume down double tap.
const DefaultMuteWindow = 350 * time.Millisecond

// Bridge owns all components. Every method runs on the loop goroutine.
type Bridge struct {
	Module   *bm83.Link
	Display  *nextion.Link
	Reporter hid.Reporter
	Sync     *playback.Synchronizer

	MaxFrames     int
	MaxTokens     int
	MaxDrain      int
	DisplayOffset time.Duration
	MuteWindow    time.Duration

	decoder   avrcp.Decoder
	clock     playback.Clock
	view      *pageView
	phone     phoneLink
	requests  requester
	tracks    trackDetector
	lastVolDn time.Time
}

// New creates a Bridge. A nil reporter means hid.Nop.
func New(module *bm83.Link, display *nextion.Link, reporter hid.Reporter) *Bridge {
	if reporter == nil {
		reporter = hid.Nop{}
	}
	b := &Bridge{
		Module:     module,
		Display:    display,
		Reporter:   reporter,
		MaxFrames:  DefaultMaxFrames,
		MaxTokens:  DefaultMaxTokens,
		MaxDrain:   DefaultMaxDrain,
		MuteWindow: DefaultMuteWindow,
		view:       newPageView(display),
		phone:      phoneLink{hold: DefaultDisconnectHold},
		requests: requester{
			playStatusPeriod: DefaultPlayStatusPeriod,
			attrsThrottle:    DefaultAttrsThrottle,
		},
	}
	b.Sync = playback.NewSynchronizer(module, b.view)
	b.Sync.EQObjects = []string{ObjEQMain, ObjEQPlayer}
	b.Sync.StateObject = ObjState
	return b
}

// Start synchronizes the display and powers the module on, or only
// initializes the link of a module already running.
func (b *Bridge) Start(powerOn bool) {
	b.Display.BootSync()
	if powerOn {
		if b.Module.PowerOn() {
			b.Sync.ForceEQOff()
		}
	} else {
		b.Module.Resume()
	}
}

// Connected reports whether a phone is linked.
func (b *Bridge) Connected() bool {
	return b.phone.connected
}

// Clock exposes the position clock.
func (b *Bridge) Clock() *playback.Clock {
	return &b.clock
}

// Field returns the text last published for a display object.
func (b *Bridge) Field(obj string) string {
	return b.view.get(obj)
}

// AddToLoop implements fx.LoopAdder.
func (b *Bridge) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvSense, fx.ControlFunc(b.sense))
	l.AddController(fx.PrLvControl, fx.ControlFunc(b.control))
	l.AddController(fx.PrLvAcuate, fx.ControlFunc(b.actuate))
	l.AddController(fx.PrLvPostProc, fx.ControlFunc(b.post))
}

// sense applies module events.
func (b *Bridge) sense(ctx fx.ControlContext) error {
	now := ctx.Time()
	for _, f := range b.Module.Poll(b.MaxFrames) {
		ctx.MarkActive()
		b.Module.AckEvent(f.Op)
		for _, ev := range b.decoder.Decode(f.Op, f.Params) {
			b.apply(ev, now)
		}
	}
	return nil
}

// control handles display input.
func (b *Bridge) control(ctx fx.ControlContext) error {
	tokens, pageChanged := b.Display.Poll(b.MaxTokens)
	if pageChanged && b.Display.Page() != nextion.NoPage {
		ctx.MarkActive()
		b.view.flush()
		b.Sync.Refresh()
	}
	var errs fx.AggregatedError
	for _, tok := range tokens {
		ctx.MarkActive()
		binding, ok := Lookup(tok.Name)
		if !ok {
			glog.V(1).Infof("unknown token %s", tok)
			continue
		}
		errs.Add(b.perform(binding, ctx.Time()))
	}
	return errs.Aggregate()
}

// actuate sends due queries and refreshes the position.
func (b *Bridge) actuate(ctx fx.ControlContext) error {
	now := ctx.Time()
	var errs fx.AggregatedError
	if b.phone.connected {
		playStatus, attrs := b.requests.due(now)
		if playStatus {
			errs.Add(b.Module.GetPlayStatus())
		}
		if attrs {
			glog.V(1).Info("request metadata")
			errs.Add(b.Module.GetElementAttributes())
		}
	}
	b.view.set(ObjTimeCurrent, b.displayPosition(now), 0)
	return errs.Aggregate()
}

// post flushes all outputs.
func (b *Bridge) post(ctx fx.ControlContext) error {
	now := ctx.Time()
	if b.Module.Flush(now) > 0 {
		ctx.MarkActive()
	}
	b.Reporter.Tick(now)
	if b.Display.Drain(now, b.MaxDrain) > 0 {
		ctx.MarkActive()
	}
	return nil
}

// Stop runs after the loop stopped: due module commands are sent
// and the display shows a stopped player with its queue written out.
func (b *Bridge) Stop(now time.Time) {
	b.Module.Flush(now)
	b.clock.Stop()
	b.Sync.ApplyPlayState(playback.Stopped)
	b.view.set(ObjTimeCurrent, nextion.Placeholder, 0)
	n := b.Display.DrainAll()
	glog.Infof("stopped, %d display instructions flushed", n)
}

// displayPosition renders the live position. The display offset
// only applies while the clock runs.
func (b *Bridge) displayPosition(now time.Time) string {
	if !b.phone.connected && b.clock.State() == playback.Stopped {
		return nextion.Placeholder
	}
	pos := b.clock.Live(now)
	if b.clock.Running() {
		pos += b.DisplayOffset
	}
	if d := b.clock.Duration(); d > 0 && pos > d {
		pos = d
	}
	return playback.FormatPosition(pos)
}
