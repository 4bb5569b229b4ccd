package framework

import (
	"context"
	"time"

	"github.com/golang/glog"
)

// DefaultIdle is the longest time the loop sleeps when an
// iteration found nothing to do.
const DefaultIdle = 5 * time.Millisecond

// Loop runs controllers cooperatively on a single goroutine.
// Each iteration runs every controller once, in priority order.
// The loop only suspends between iterations, and only when no
// controller marked the iteration active.
type Loop struct {
	Idle  time.Duration
	Clock Clock

	controllers [PriorityLevels][]Controller
	iterations  uint64
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

type loopIteration struct {
	ctx           context.Context
	time          time.Time
	seq           uint64
	priorityLevel int
	active        bool
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{Idle: DefaultIdle, Clock: SystemClock}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers to the loop.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	l.controllers[priorityLevel] = append(l.controllers[priorityLevel], ctls...)
	return l
}

// Iterations returns the number of completed iterations.
func (l *Loop) Iterations() uint64 {
	return l.iterations
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	idle := l.Idle
	if idle <= 0 || idle > 100*time.Millisecond {
		idle = DefaultIdle
	}
	timer := time.NewTimer(idle)
	defer timer.Stop()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if l.RunOnce(ctx) {
			continue
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(idle)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// RunOnce executes a single iteration and reports whether
// any controller marked it active.
func (l *Loop) RunOnce(ctx context.Context) bool {
	clock := l.Clock
	if clock == nil {
		clock = SystemClock
	}
	l.iterations++
	iter := &loopIteration{ctx: ctx, time: clock.Now(), seq: l.iterations}
	for i := 0; i < PriorityLevels; i++ {
		iter.priorityLevel = i
		for _, ctl := range l.controllers[i] {
			if err := ctl.Control(iter); err != nil {
				glog.Errorf("controller error: %v", err)
			}
		}
	}
	return iter.active
}

func (t *loopIteration) Context() context.Context {
	return t.ctx
}

func (t *loopIteration) Time() time.Time {
	return t.time
}

func (t *loopIteration) PriorityLevel() int {
	return t.priorityLevel
}

func (t *loopIteration) Iteration() uint64 {
	return t.seq
}

func (t *loopIteration) MarkActive() {
	t.active = true
}
