package framework

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"
)

// ErrForcedExit is returned by Run when a second stop signal arrives
// before the loop stopped.
var ErrForcedExit = errors.New("forced exit")

// StopFunc runs once after the loop stopped, on the caller of Run.
type StopFunc func(now time.Time)

// Service runs a Loop until the context is cancelled or a stop
// signal arrives, then runs the stop hooks in order. The hooks see
// components the loop no longer touches.
type Service struct {
	Loop   *Loop
	OnStop []StopFunc
	// Signals stop the service; nil means SIGINT and SIGTERM.
	Signals []os.Signal
}

// NewService creates a Service for a loop.
func NewService(loop *Loop, onStop ...StopFunc) *Service {
	return &Service{Loop: loop, OnStop: onStop}
}

// Run implements Runnable.
func (s *Service) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := s.Signals
	if sigs == nil {
		sigs = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, sigs...)
	defer signal.Stop(sigCh)

	forced := make(chan struct{})
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case sig := <-sigCh:
			glog.Infof("%v: stop requested", sig)
			cancel()
		case <-done:
			return
		}
		select {
		case <-sigCh:
			glog.Error("stop requested again, force exit")
			close(forced)
		case <-done:
		}
	}()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Loop.Run(ctx) }()
	var err error
	select {
	case err = <-errCh:
	case <-forced:
		return ErrForcedExit
	}
	if err == context.Canceled {
		err = nil
	}

	clock := s.Loop.Clock
	if clock == nil {
		clock = SystemClock
	}
	now := clock.Now()
	for _, fn := range s.OnStop {
		fn(now)
	}
	glog.V(1).Infof("stopped after %d iterations", s.Loop.Iterations())
	return err
}
