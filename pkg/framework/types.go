package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// Controller defines the abstract logic of a periodic task.
// A Controller must return quickly and never block, as every
// other task in the loop waits for it.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc defines the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(ctx ControlContext) error {
	return f(ctx)
}

// TimeSource provides the time for controlling logic.
type TimeSource interface {
	Time() time.Time
}

// ControlContext provides the context of current task invocation.
type ControlContext interface {
	TimeSource
	// Context retrieves context.Context.
	Context() context.Context
	// Tick gets the shared base tick counter. The first
	// base tick is 1.
	Tick() uint64
	// TaskName gets the name of the task being fired.
	TaskName() string
}

// LoopAdder provides specific logic to add tasks to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

// Pacer is the time base driving the loop. Wait blocks until
// the next base tick.
type Pacer interface {
	Wait(context.Context) (time.Time, error)
}

// PacerFunc is the func form of Pacer.
type PacerFunc func(context.Context) (time.Time, error)

// Wait implements Pacer.
func (f PacerFunc) Wait(ctx context.Context) (time.Time, error) {
	return f(ctx)
}
