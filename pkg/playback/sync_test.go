package playback

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/ampbridge/pkg/nextion"
)

type recorder struct {
	eqs        []byte
	playPauses int
	err        error
	cmds       []string
}

func (r *recorder) SetEQ(mode byte) error {
	if r.err != nil {
		return r.err
	}
	r.eqs = append(r.eqs, mode)
	return nil
}

func (r *recorder) PlayPause() error {
	if r.err != nil {
		return r.err
	}
	r.playPauses++
	return nil
}

func (r *recorder) Enqueue(cmd nextion.Command) {
	r.cmds = append(r.cmds, cmd.String())
}

func newTestSync() (*Synchronizer, *recorder) {
	r := &recorder{}
	return NewSynchronizer(r, r), r
}

func TestSyncDeviceWins(t *testing.T) {
	s, r := newTestSync()
	require.NoError(t, s.RequestEQ(EqRock))
	require.Equal(t, EqRock, s.EQ())
	require.Equal(t, []byte{byte(EqRock)}, r.eqs)
	require.Equal(t, []string{`tEQ0.txt="ROCK"`, `tEQ1.txt="ROCK"`}, r.cmds)

	r.cmds = nil
	s.ApplyEQ(byte(EqJazz))
	require.Equal(t, EqJazz, s.EQ())
	require.Equal(t, []string{`tEQ0.txt="JAZZ"`, `tEQ1.txt="JAZZ"`}, r.cmds)
}

func TestSyncConfirmationDoesNotRepublish(t *testing.T) {
	s, r := newTestSync()
	require.NoError(t, s.RequestEQ(EqPop))
	r.cmds = nil
	s.ApplyEQ(byte(EqPop))
	require.Empty(t, r.cmds)
}

func TestSyncNextEQ(t *testing.T) {
	s, r := newTestSync()
	mode, err := s.NextEQ()
	require.NoError(t, err)
	require.Equal(t, EqSoft, mode)

	s.ApplyEQ(byte(EqRnB))
	mode, err = s.NextEQ()
	require.NoError(t, err)
	require.Equal(t, EqOff, mode)

	s.ApplyEQ(11)
	require.Equal(t, EqUser, s.EQ())
	mode, err = s.NextEQ()
	require.NoError(t, err)
	require.Equal(t, EqSoft, mode)
	require.Equal(t, []byte{1, 0, 1}, r.eqs)
}

func TestSyncSendFailureKeepsMirror(t *testing.T) {
	s, r := newTestSync()
	r.err = errors.New("unplugged")
	require.Error(t, s.RequestEQ(EqBass))
	require.Error(t, s.RequestPlayPause())
	require.Equal(t, EqOff, s.EQ())
	require.Equal(t, Stopped, s.PlayState())
	require.Empty(t, r.cmds)
}

func TestSyncInvalidModes(t *testing.T) {
	s, r := newTestSync()
	require.Error(t, s.RequestEQ(EqMode(42)))
	s.ApplyEQ(42)
	require.Equal(t, EqOff, s.EQ())
	require.Empty(t, r.eqs)
}

func TestSyncPlayState(t *testing.T) {
	s, r := newTestSync()
	require.NoError(t, s.RequestPlayPause())
	require.Equal(t, Playing, s.PlayState())
	s.ApplyPlayState(Paused)
	require.Equal(t, Paused, s.PlayState())
	require.NoError(t, s.RequestPlayPause())
	require.Equal(t, Playing, s.PlayState())
	require.Equal(t, 2, r.playPauses)
	require.Equal(t, []string{
		`tState.txt="PLAYING"`,
		`tState.txt="PAUSED"`,
		`tState.txt="PLAYING"`,
	}, r.cmds)
}

func TestSyncForceEQOffAndRefresh(t *testing.T) {
	s, r := newTestSync()
	s.ApplyEQ(byte(EqBass))
	r.cmds = nil
	s.ForceEQOff()
	require.Equal(t, EqOff, s.EQ())
	require.Len(t, r.cmds, 2)
	require.Empty(t, r.eqs)

	r.cmds = nil
	s.Refresh()
	require.Equal(t, []string{`tEQ0.txt="OFF"`, `tEQ1.txt="OFF"`, `tState.txt="STOPPED"`}, r.cmds)
}

func TestEqModeLabels(t *testing.T) {
	require.Equal(t, "RNB", EqRnB.String())
	m, ok := ParseEqMode("CLASSICAL")
	require.True(t, ok)
	require.Equal(t, EqClassical, m)
	_, ok = ParseEqMode("LOUD")
	require.False(t, ok)
	require.Equal(t, "EQ(12)", EqMode(12).String())
}
