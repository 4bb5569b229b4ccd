package framework

import (
	"context"
	"time"
)

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// TimeSource provides the time for controlling logic.
type TimeSource interface {
	Time() time.Time
}

// Clock is a monotonic time provider injected into the loop.
type Clock interface {
	Now() time.Time
}

// ClockFunc is the func form of Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock uses time.Now, which carries a monotonic reading.
var SystemClock Clock = ClockFunc(time.Now)

// Controller defines the abstract controlling logic executed
// once per loop iteration.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc defines the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(ctx ControlContext) error {
	return f(ctx)
}

// ControlContext provides the context of current control
// iteration.
type ControlContext interface {
	TimeSource
	// Context retrieves context.Context.
	Context() context.Context
	// PriorityLevel gets the current priority level.
	PriorityLevel() int
	// Iteration is the sequence number of the current iteration.
	Iteration() uint64
	// MarkActive tells the loop something happened in
	// this iteration, so it must not idle afterwards.
	MarkActive()
}

// PriorityLevels is the total levels of priorities.
const PriorityLevels int = 16

// Predefine priority levels
const (
	PrLvTop    int = 0
	PrLvHigh   int = 4
	PrLvNormal int = 8
	PrLvLow    int = 12
	PrLvIdle   int = PriorityLevels - 1

	// PrLvSense is the alias of priority level for polling device input.
	PrLvSense = PrLvHigh
	// PrLvControl is the alias of priority level for user input.
	PrLvControl = PrLvNormal
	// PrLvAcuate is the alias of priority level for derived state updates.
	PrLvAcuate = PrLvLow
	// PrLvPostProc is the alias of priority level for flushing outputs.
	PrLvPostProc = PrLvIdle - 1
)
