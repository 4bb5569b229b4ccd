package bridge

import (
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/ampbridge/pkg/avrcp"
	"github.com/robotalks/ampbridge/pkg/bm83"
	"github.com/robotalks/ampbridge/pkg/playback"
)

// Intervals passed when registering notifications.
const (
	notifyPlayStatusInterval = time.Second
	notifyPositionInterval   = time.Second
)

// apply updates the state from one module event.
func (b *Bridge) apply(ev avrcp.Event, now time.Time) {
	switch e := ev.(type) {
	case avrcp.BTMStatus:
		b.applyBTMStatus(e.State, now)
	case avrcp.EqReport:
		b.Sync.ApplyEQ(e.Mode)
	case avrcp.PlayStatusReport:
		b.applyPlayStatus(e, now)
	case avrcp.PlayStatusChanged:
		b.applyState(e.Status, now)
	case avrcp.TrackChanged:
		glog.V(1).Info("track changed")
		b.requests.scheduleAttrs(now, attrsOnTrackChange)
		b.clock.Reset(0, now)
		// notifications fire once, keep receiving them
		b.Module.RegisterNotification(bm83.NotifyTrackChanged, 0)
	case avrcp.PositionChanged:
		b.clock.Reset(e.Position, now)
	case avrcp.MetadataReady:
		b.applyMetadata(&e.Metadata)
	}
}

func (b *Bridge) applyBTMStatus(state byte, now time.Time) {
	glog.V(1).Infof("BTM status 0x%02X", state)
	switch b.phone.note(state, now) {
	case linkConnected:
		glog.Info("phone connected")
		b.Module.RegisterNotification(bm83.NotifyPlayStatusChanged, notifyPlayStatusInterval)
		b.Module.RegisterNotification(bm83.NotifyTrackChanged, 0)
		b.Module.RegisterNotification(bm83.NotifyPositionChanged, notifyPositionInterval)
		b.requests.pollNow()
		b.requests.scheduleAttrs(now, attrsOnConnect)
	case linkDisconnected:
		glog.Info("phone disconnected")
		b.disconnected()
	}
}

func (b *Bridge) disconnected() {
	b.phone.drop()
	b.clock.Stop()
	b.Sync.ApplyPlayState(playback.Stopped)
	b.decoder.Reset()
	b.tracks = trackDetector{}
}

func (b *Bridge) applyState(status avrcp.PlayStatus, now time.Time) {
	state, ok := playback.StateFromStatus(status)
	if !ok {
		glog.V(1).Infof("play status %s ignored", status)
		return
	}
	b.clock.Apply(state, now)
	b.Sync.ApplyPlayState(state)
}

func (b *Bridge) applyPlayStatus(e avrcp.PlayStatusReport, now time.Time) {
	if e.Duration > 0 {
		b.clock.SetDuration(e.Duration)
		b.view.set(ObjTime, playback.FormatPosition(e.Duration), 0)
	}
	if e.Status != avrcp.StatusUnreported {
		b.applyState(e.Status, now)
	}
	b.clock.Reset(e.Position, now)
	if b.tracks.observe(e.Position, e.Duration) {
		glog.V(1).Info("track change inferred")
		b.requests.scheduleAttrs(now, attrsOnTrackChange)
	}
}

func (b *Bridge) applyMetadata(md *avrcp.Metadata) {
	glog.Infof("metadata %v", md.IDs())
	texts := []struct {
		id  uint32
		obj string
		val string
		max int
	}{
		{avrcp.AttrTitle, ObjTitle, md.Title, 0},
		{avrcp.AttrArtist, ObjArtist, md.Artist, 0},
		{avrcp.AttrAlbum, ObjAlbum, md.Album, 0},
		{avrcp.AttrGenre, ObjGenre, md.Genre, 0},
		{avrcp.AttrTrackNumber, ObjTrackNumber, md.TrackNumber, maxNumberText},
		{avrcp.AttrTotalTracks, ObjTotalTracks, md.TotalTracks, maxNumberText},
	}
	for _, t := range texts {
		if md.Has(t.id) {
			b.view.set(t.obj, t.val, t.max)
		}
	}
	if md.HasDuration {
		b.clock.SetDuration(md.Duration)
		b.view.set(ObjTime, playback.FormatPosition(md.Duration), 0)
	}
}

// perform executes the action of a token.
func (b *Bridge) perform(binding Binding, now time.Time) error {
	glog.V(1).Infof("action %s", binding.Action)
	switch binding.Action {
	case ActionPowerToggle:
		if b.Module.PoweredOn() {
			b.powerOff()
		} else if b.Module.PowerOn() {
			b.Sync.ForceEQOff()
		}
	case ActionPowerOff:
		b.powerOff()
	case ActionPair:
		return b.Module.Pair()
	case ActionPlayPause:
		return b.Sync.RequestPlayPause()
	case ActionPrevious:
		return b.Module.PreviousTrack()
	case ActionNext:
		return b.Module.NextTrack()
	case ActionVolumeUp:
		b.Reporter.VolumeUp()
		return b.Module.VolumeUp()
	case ActionVolumeDown:
		return b.volumeDown(now)
	case ActionEQNext:
		_, err := b.Sync.NextEQ()
		return err
	case ActionEQSelect:
		return b.Sync.RequestEQ(binding.EQ)
	}
	return nil
}

func (b *Bridge) powerOff() {
	if b.Module.PowerOff() && b.phone.connected {
		b.disconnected()
	}
}

// volumeDown turns a second tap within MuteWindow into mute on
// the remote host.
func (b *Bridge) volumeDown(now time.Time) error {
	if !b.lastVolDn.IsZero() && now.Sub(b.lastVolDn) <= b.MuteWindow {
		b.lastVolDn = time.Time{}
		b.Reporter.Mute()
	} else {
		b.lastVolDn = now
		b.Reporter.VolumeDown()
	}
	return b.Module.VolumeDown()
}
