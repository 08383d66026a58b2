package sim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/ghosthunt/pkg/game"
	"github.com/robotalks/ghosthunt/pkg/grid"
)

// chase walks the ghost from its start to the human start.
var chase = []grid.Direction{
	grid.North, grid.North, grid.East, grid.East,
	grid.North, grid.North, grid.North, grid.North,
	grid.West, grid.West,
}

func walk(w *World, b *Board, dirs []grid.Direction) {
	period := int(b.Session.Period(game.DefaultRates(b.Role()).Movement))
	for _, dir := range dirs {
		w.Press(b, dir)
		w.Step(period)
	}
}

func TestWorldCatch(t *testing.T) {
	w, err := NewConfig().NewWorld()
	require.NoError(t, err)
	require.Equal(t, w.A, w.Board("human"))
	require.Equal(t, w.B, w.Board("B"))
	require.Nil(t, w.Board("c"))

	var changes int
	w.Subscribe(ChangeListenerFunc(func(tick uint64, b *Board) {
		changes++
	}))

	walk(w, w.B, chase)
	require.Equal(t, grid.Pos(2, 0), w.B.Session.State.Local.Pos)
	w.Step(500)
	for _, b := range w.Boards() {
		require.False(t, b.Session.State.Active(), b.Name)
		require.Equal(t, 1, b.Session.State.Rounds, b.Name)
	}
	require.True(t, changes > len(chase))

	st := w.Status(w.A)
	require.True(t, st.Ended)
	require.Equal(t, "human", st.Role)
	require.Equal(t, w.Tick(), st.Tick)
	require.True(t, st.Received > 0)
}

func TestWorldDetectionIsIndependent(t *testing.T) {
	w, err := NewConfig().NewWorld()
	require.NoError(t, err)
	w.SetLoss(1, 7)

	walk(w, w.B, chase)
	w.Step(500)
	require.False(t, w.B.Session.State.Active())
	require.True(t, w.A.Session.State.Active())
	require.Equal(t, game.Ghost.Start(), w.A.Session.State.Peer.Pos)
	require.Zero(t, w.Status(w.A).Received)
}

func TestWorldRestart(t *testing.T) {
	w, err := NewConfig().NewWorld()
	require.NoError(t, err)
	walk(w, w.B, chase)
	w.Step(500)
	require.False(t, w.B.Session.State.Active())

	w.B.Input.SetStart(true)
	w.Step(100)
	w.B.Input.SetStart(false)
	require.True(t, w.B.Session.State.Active())
	require.Equal(t, game.Ghost.Start(), w.B.Session.State.Local.Pos)
}

func TestWorldConfig(t *testing.T) {
	c := NewConfig()
	c.Drain = "sometimes"
	_, err := c.NewWorld()
	require.Error(t, err)
}

func TestWorldStatusWhileRunning(t *testing.T) {
	w, err := NewConfig().NewWorld()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	var last uint64
	for ctx.Err() == nil {
		w.Press(w.A, grid.South)
		st := w.Status(w.A)
		require.True(t, st.Tick >= last)
		last = st.Tick
		time.Sleep(time.Millisecond)
	}
	select {
	case err := <-done:
		require.Equal(t, context.DeadlineExceeded, err)
	case <-time.After(time.Second):
		t.Fatal("world not stopped")
	}
	require.True(t, w.Tick() > 0)
}
