package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/ampbridge/pkg/avrcp"
)

func TestClockPlayPause(t *testing.T) {
	t0 := time.Unix(100, 0)
	var c Clock
	c.SetDuration(200 * time.Second)
	c.Reset(1500*time.Millisecond, t0)
	c.StartPlaying(t0)
	require.True(t, c.Running())

	at5 := t0.Add(5000 * time.Millisecond)
	require.Equal(t, 6500*time.Millisecond, c.Live(at5))
	c.Pause(at5)
	require.False(t, c.Running())
	require.Equal(t, Paused, c.State())
	require.Equal(t, 6500*time.Millisecond, c.Live(t0.Add(9000*time.Millisecond)))
}

func TestClockStartIsIdempotent(t *testing.T) {
	t0 := time.Unix(100, 0)
	var c Clock
	c.StartPlaying(t0)
	c.StartPlaying(t0.Add(3 * time.Second))
	require.Equal(t, 4*time.Second, c.Live(t0.Add(4*time.Second)))
}

func TestClockClamp(t *testing.T) {
	t0 := time.Unix(100, 0)
	var c Clock
	c.StartPlaying(t0)
	require.Equal(t, time.Hour, c.Live(t0.Add(time.Hour)))
	c.SetDuration(10 * time.Second)
	require.Equal(t, 10*time.Second, c.Live(t0.Add(time.Hour)))
	c.Pause(t0.Add(time.Hour))
	require.Equal(t, 10*time.Second, c.Live(t0.Add(2*time.Hour)))
	c.Reset(-time.Second, t0)
	require.Equal(t, time.Duration(0), c.Live(t0))
}

func TestClockResetKeepsRunning(t *testing.T) {
	t0 := time.Unix(100, 0)
	var c Clock
	c.StartPlaying(t0)
	c.Reset(30*time.Second, t0.Add(10*time.Second))
	require.Equal(t, Playing, c.State())
	require.Equal(t, 32*time.Second, c.Live(t0.Add(12*time.Second)))
}

func TestClockApplyAndStop(t *testing.T) {
	t0 := time.Unix(100, 0)
	var c Clock
	c.Apply(Playing, t0)
	c.Apply(Paused, t0.Add(2*time.Second))
	require.Equal(t, 2*time.Second, c.Live(t0.Add(time.Minute)))
	c.Apply(Stopped, t0)
	require.Equal(t, Stopped, c.State())
	require.False(t, c.Running())
	require.Equal(t, time.Duration(0), c.Live(t0.Add(time.Minute)))
}

func TestFormatPosition(t *testing.T) {
	require.Equal(t, "0:00", FormatPosition(-time.Second))
	require.Equal(t, "0:05", FormatPosition(5999*time.Millisecond))
	require.Equal(t, "3:03", FormatPosition(183*time.Second))
	require.Equal(t, "1:00:01", FormatPosition(time.Hour+time.Second))
}

func TestStateFromStatus(t *testing.T) {
	s, ok := StateFromStatus(avrcp.StatusFwdSeek)
	require.True(t, ok)
	require.Equal(t, Playing, s)
	s, ok = StateFromStatus(avrcp.StatusPaused)
	require.True(t, ok)
	require.Equal(t, Paused, s)
	_, ok = StateFromStatus(avrcp.StatusError)
	require.False(t, ok)
}
