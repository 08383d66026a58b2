package framework

import (
	"context"
	"log"
	"time"

	"github.com/golang/glog"
)

// Loop is a cooperative multi-rate scheduler. It owns a fixed,
// ordered list of tasks and a single shared base tick counter.
// On every base tick, tasks are visited in the order they were
// added and a task fires when the counter is a multiple of its
// period. Tasks are never preempted.
//
// A Loop is not safe for concurrent use: all tasks run on the
// goroutine calling Run or Step.
type Loop struct {
	// Pacer is the time base. It defaults to NewPacer(DefaultRate).
	Pacer Pacer
	// Budget is the execution time allowed to one task invocation.
	// Overruns are logged and counted, never interrupted. Zero
	// disables the check.
	Budget time.Duration

	tasks   []*task
	runners []Runnable
	tick    uint64
	started bool
}

type task struct {
	name     string
	period   uint64
	ctl      Controller
	fired    uint64
	overruns uint64
}

// TaskStats reports the counters of a task.
type TaskStats struct {
	Name     string
	Period   uint64
	Fired    uint64
	Overruns uint64
}

type iteration struct {
	ctx  context.Context
	time time.Time
	tick uint64
	task *task
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{Pacer: NewPacer(DefaultRate)}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddTask appends a task firing every period base ticks.
// The task set is fixed once the loop started ticking.
func (l *Loop) AddTask(name string, period uint, ctl Controller) *Loop {
	if l.started {
		panic("framework: task " + name + " added after loop started")
	}
	if period == 0 {
		panic("framework: task " + name + " has zero period")
	}
	l.tasks = append(l.tasks, &task{name: name, period: uint64(period), ctl: ctl})
	if runner, ok := ctl.(Runnable); ok {
		l.runners = append(l.runners, runner)
	}
	return l
}

// AddRunnable adds Runnable implementions started along with Run.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Tick returns the current value of the shared base tick counter.
func (l *Loop) Tick() uint64 {
	return l.tick
}

// Stats returns per task counters in task order.
func (l *Loop) Stats() []TaskStats {
	stats := make([]TaskStats, len(l.tasks))
	for n, t := range l.tasks {
		stats[n] = TaskStats{Name: t.name, Period: t.period, Fired: t.fired, Overruns: t.overruns}
	}
	return stats
}

// Run implements Runnable. It waits on the Pacer and steps
// the loop on every base tick until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	pacer := l.Pacer
	if pacer == nil {
		pacer = NewPacer(DefaultRate)
	}
	if stopper, ok := pacer.(interface{ Stop() }); ok {
		defer stopper.Stop()
	}

	subCtx, cancel := context.WithCancel(ctx)
	runner := NewRunnerWith(subCtx)
	runner.Go(l.runners...)
	defer runner.Wait()
	defer cancel()

	l.started = true
	glog.V(2).Infof("loop started with %d tasks", len(l.tasks))
	for {
		now, err := pacer.Wait(ctx)
		if err != nil {
			return err
		}
		l.StepAt(ctx, now)
	}
}

// RunOrFail is intended to be used in main to simply run the loop.
func (l *Loop) RunOrFail() {
	if err := l.Run(context.Background()); err != nil {
		log.Fatalln(err)
	}
}

// Step advances the loop by one base tick.
func (l *Loop) Step(ctx context.Context) {
	l.StepAt(ctx, time.Now())
}

// StepAt advances the loop by one base tick with a given tick time.
func (l *Loop) StepAt(ctx context.Context, now time.Time) {
	l.started = true
	l.tick++
	iter := &iteration{ctx: ctx, time: now, tick: l.tick}
	for _, t := range l.tasks {
		if l.tick%t.period != 0 {
			continue
		}
		iter.task = t
		l.fire(iter)
	}
}

func (l *Loop) fire(iter *iteration) {
	t := iter.task
	start := time.Now()
	err := t.ctl.Control(iter)
	t.fired++
	if err != nil {
		glog.Errorf("task %s error: %v", t.name, err)
	}
	if l.Budget > 0 {
		if elapsed := time.Since(start); elapsed > l.Budget {
			t.overruns++
			glog.Warningf("task %s overran budget at tick %d: %v > %v", t.name, iter.tick, elapsed, l.Budget)
		}
	}
}

func (t *iteration) Context() context.Context {
	return t.ctx
}

func (t *iteration) Time() time.Time {
	return t.time
}

func (t *iteration) Tick() uint64 {
	return t.tick
}

func (t *iteration) TaskName() string {
	return t.task.name
}
