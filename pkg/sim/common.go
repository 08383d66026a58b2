package sim

import (
	"context"
	"strings"
	"sync"

	fx "github.com/robotalks/ghosthunt/pkg/framework"
	"github.com/robotalks/ghosthunt/pkg/game"
	"github.com/robotalks/ghosthunt/pkg/grid"
	"github.com/robotalks/ghosthunt/pkg/link"
	"github.com/robotalks/ghosthunt/pkg/status"
)

// ChangeListener is notified when the state of a board changed
// during a base tick.
type ChangeListener interface {
	BoardChanged(tick uint64, b *Board)
}

// ChangeListenerFunc is the func form of ChangeListener.
type ChangeListenerFunc func(tick uint64, b *Board)

// BoardChanged implements ChangeListener.
func (f ChangeListenerFunc) BoardChanged(tick uint64, b *Board) {
	f(tick, b)
}

// World holds board A playing the human and board B playing the
// ghost, linked by an in-memory pair.
type World struct {
	A, B *Board

	listeners []ChangeListener
	lock      sync.Mutex
}

// NewWorld creates a World.
func (c *Config) NewWorld() (*World, error) {
	ea, eb := link.Pair(c.BufferSize)
	if c.LossRate > 0 {
		ea.SetLoss(c.LossRate, c.Seed)
		eb.SetLoss(c.LossRate, c.Seed+1)
	}
	a, err := c.newBoard("a", game.Human, ea)
	if err != nil {
		return nil, err
	}
	b, err := c.newBoard("b", game.Ghost, eb)
	if err != nil {
		return nil, err
	}
	return &World{A: a, B: b}, nil
}

// Subscribe adds a ChangeListener.
func (w *World) Subscribe(ln ChangeListener) {
	w.lock.Lock()
	w.listeners = append(w.listeners, ln)
	w.lock.Unlock()
}

// Boards returns both boards.
func (w *World) Boards() []*Board {
	return []*Board{w.A, w.B}
}

// Board finds a board by name or role.
func (w *World) Board(name string) *Board {
	for _, b := range w.Boards() {
		if strings.EqualFold(name, b.Name) || strings.EqualFold(name, b.Role().String()) {
			return b
		}
	}
	return nil
}

// Tick returns the number of base ticks stepped.
func (w *World) Tick() uint64 {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.A.Loop.Tick()
}

// Status returns the status of a board. It is safe to call while the
// World is running.
func (w *World) Status(b *Board) *status.BoardStatus {
	w.lock.Lock()
	defer w.lock.Unlock()
	return b.status()
}

// Press pushes a direction on a board.
func (w *World) Press(b *Board, dir grid.Direction) {
	b.Input.Press(dir)
}

// SetLoss changes the loss rate of both directions.
func (w *World) SetLoss(rate float64, seed int64) {
	w.A.Link.SetLoss(rate, seed)
	w.B.Link.SetLoss(rate, seed+1)
}

// Step advances both boards by n base ticks, board A first
// within each tick.
func (w *World) Step(n int) {
	w.lock.Lock()
	defer w.lock.Unlock()
	ctx := context.TODO()
	for i := 0; i < n; i++ {
		for _, b := range w.Boards() {
			before := *b.Session.State
			b.Loop.Step(ctx)
			if after := b.Session.State; after.Local != before.Local || after.Peer != before.Peer {
				for _, ln := range w.listeners {
					ln.BoardChanged(b.Loop.Tick(), b)
				}
			}
		}
	}
}

// Run implements Runnable, stepping in real time at the base rate.
func (w *World) Run(ctx context.Context) error {
	pacer := fx.NewPacer(w.A.Session.BaseRate())
	defer pacer.Stop()
	for {
		if _, err := pacer.Wait(ctx); err != nil {
			return err
		}
		w.Step(1)
	}
}
