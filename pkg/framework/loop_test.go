package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoopRunsControllersInPriorityOrder(t *testing.T) {
	var order []string
	record := func(name string) Controller {
		return ControlFunc(func(cc ControlContext) error {
			order = append(order, name)
			return nil
		})
	}
	l := NewLoop()
	l.AddController(PrLvPostProc, record("drain"))
	l.AddController(PrLvSense, record("module"))
	l.AddController(PrLvAcuate, record("clock"))
	l.AddController(PrLvControl, record("display"))

	require.False(t, l.RunOnce(context.Background()))
	require.Equal(t, []string{"module", "display", "clock", "drain"}, order)
	require.Equal(t, uint64(1), l.Iterations())
}

func TestLoopIterationTimeFromClock(t *testing.T) {
	now := time.Unix(100, 0)
	l := NewLoop()
	l.Clock = ClockFunc(func() time.Time { return now })
	var seen []time.Time
	l.AddController(PrLvNormal, ControlFunc(func(cc ControlContext) error {
		seen = append(seen, cc.Time())
		return nil
	}))
	l.RunOnce(context.Background())
	now = now.Add(time.Second)
	l.RunOnce(context.Background())
	require.Equal(t, []time.Time{time.Unix(100, 0), time.Unix(101, 0)}, seen)
}

func TestLoopControllerErrorDoesNotStopIteration(t *testing.T) {
	var ran bool
	l := NewLoop()
	l.AddController(PrLvHigh, ControlFunc(func(cc ControlContext) error {
		return errors.New("boom")
	}))
	l.AddController(PrLvLow, ControlFunc(func(cc ControlContext) error {
		ran = true
		cc.MarkActive()
		return nil
	}))
	require.True(t, l.RunOnce(context.Background()))
	require.True(t, ran)
}

func TestLoopRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := NewLoop()
	l.AddController(PrLvNormal, ControlFunc(func(cc ControlContext) error {
		if cc.Iteration() >= 3 {
			cancel()
		}
		return nil
	}))
	err := l.Run(ctx)
	require.Equal(t, context.Canceled, err)
	require.True(t, l.Iterations() >= 3)
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil).Aggregate())
	errs.Add(errors.New("a"))
	require.EqualError(t, errs.Aggregate(), "a")
	errs.Add(errors.New("b"))
	require.EqualError(t, errs.Aggregate(), "2 errors:\n  a\n  b")
}
