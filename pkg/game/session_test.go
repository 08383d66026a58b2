package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/ghosthunt/pkg/framework"
	"github.com/robotalks/ghosthunt/pkg/grid"
	"github.com/robotalks/ghosthunt/pkg/hal"
	"github.com/robotalks/ghosthunt/pkg/link"
)

type board struct {
	session *Session
	loop    *fx.Loop
	input   hal.Switches
	display hal.Matrix
}

func newBoard(t *testing.T, role Role, g *grid.Grid, start grid.Position, l link.Transport) *board {
	b := &board{}
	s, err := NewSession(Config{
		Role:       role,
		Grid:       g,
		LocalStart: &start,
		Link:       l,
		Input:      &b.input,
		Display:    &b.display,
	})
	require.NoError(t, err)
	s.Start()
	b.session = s
	b.loop = s.NewLoop()
	return b
}

func TestNewSession(t *testing.T) {
	a, _ := link.Pair(1)
	var sw hal.Switches
	var m hal.Matrix
	wall := grid.Pos(2, 3)

	testCases := []struct {
		name string
		cfg  Config
		err  error
	}{
		{"unknown role", Config{Link: a, Input: &sw, Display: &m}, ErrRoleUnknown},
		{"no link", Config{Role: Human, Input: &sw, Display: &m}, ErrMissingPeripheral},
		{"no display", Config{Role: Ghost, Link: a, Input: &sw}, ErrMissingPeripheral},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSession(tc.cfg)
			require.Equal(t, tc.err, err)
		})
	}

	_, err := NewSession(Config{Role: Human, Link: a, Input: &sw, Display: &m, LocalStart: &wall})
	require.Error(t, err)

	s, err := NewSession(Config{Role: Ghost, Link: a, Input: &sw, Display: &m})
	require.NoError(t, err)
	require.Equal(t, Ghost.Start(), s.State.Local.Pos)
	require.Equal(t, Human.Start(), s.State.Peer.Pos)
	require.Equal(t, fx.DefaultRate, s.BaseRate())

	l := s.NewLoop()
	stats := l.Stats()
	require.Len(t, stats, 4)
	names := make([]string, len(stats))
	for n, st := range stats {
		names[n] = st.Name
	}
	require.Equal(t, []string{TaskMovement, TaskSync, TaskResult, TaskDisplay}, names)
	require.Equal(t, uint64(66), stats[0].Period)
	require.Equal(t, uint64(100), stats[1].Period)
	require.Equal(t, uint64(20), stats[2].Period)
	require.Equal(t, uint64(10), stats[3].Period)
}

func TestSessionsDetectIndependently(t *testing.T) {
	g := grid.New(grid.DefaultWidth, grid.DefaultHeight)
	a, b := link.Pair(link.DefaultBufferSize)
	human := newBoard(t, Human, g, grid.Pos(2, 2), a)
	ghost := newBoard(t, Ghost, g, grid.Pos(2, 4), b)

	human.input.Press(grid.South)
	ghost.input.Press(grid.North)
	step := func(n int) {
		for i := 0; i < n; i++ {
			human.loop.Step(context.TODO())
			ghost.loop.Step(context.TODO())
		}
	}

	step(100)
	require.Equal(t, grid.Pos(2, 3), human.session.State.Local.Pos)
	require.Equal(t, grid.Pos(2, 3), ghost.session.State.Local.Pos)
	require.False(t, ghost.session.State.Active())
	require.True(t, human.session.State.Active())

	step(100)
	require.False(t, human.session.State.Active())
	require.Equal(t, 1, human.session.State.Rounds)
	require.Equal(t, 1, ghost.session.State.Rounds)

	step(10)
	var skull, face hal.Matrix
	skull.Bitmap(Skull)
	skull.Update()
	face.Bitmap(HumanFace)
	face.Update()
	require.Equal(t, skull.Frame(), human.display.Frame())
	require.Equal(t, face.Frame(), ghost.display.Frame())

	human.input.SetStart(true)
	step(100)
	require.True(t, human.session.State.Active())
	require.Equal(t, grid.Pos(2, 2), human.session.State.Local.Pos)
	require.False(t, ghost.session.State.Active())
}

func TestRunStopsOnCancel(t *testing.T) {
	a, _ := link.Pair(link.DefaultBufferSize)
	var sw hal.Switches
	var m hal.Matrix
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := Run(ctx, Config{Role: Human, Link: a, Input: &sw, Display: &m})
	require.Equal(t, context.DeadlineExceeded, err)
	require.True(t, m.Updates() > 0)
}

func TestSelectRole(t *testing.T) {
	var sw hal.Switches
	var m hal.Matrix
	calls := 0
	pacer := fx.PacerFunc(func(ctx context.Context) (time.Time, error) {
		calls++
		switch calls {
		case 1:
			sw.Press(grid.Push)
		case 2:
			sw.Press(grid.North)
		case 3:
			sw.Press(grid.South)
		case 4:
			sw.Press(grid.Push)
		}
		return time.Now(), nil
	})
	role, err := SelectRole(context.TODO(), pacer, &sw, &m)
	require.NoError(t, err)
	require.Equal(t, Human, role)
	require.Equal(t, 4, calls)
	require.Equal(t, "H?", m.Frame().Text)
}

func TestSelectRoleCancel(t *testing.T) {
	var sw hal.Switches
	var m hal.Matrix
	ctx, cancel := context.WithCancel(context.Background())
	pacer := fx.PacerFunc(func(ctx context.Context) (time.Time, error) {
		cancel()
		<-ctx.Done()
		return time.Time{}, ctx.Err()
	})
	_, err := SelectRole(ctx, pacer, &sw, &m)
	require.Equal(t, context.Canceled, err)
}

func TestWaitStart(t *testing.T) {
	var sw hal.Switches
	var m hal.Matrix
	calls := 0
	pacer := fx.PacerFunc(func(ctx context.Context) (time.Time, error) {
		calls++
		if calls == 3 {
			sw.SetStart(true)
		}
		return time.Now(), nil
	})
	require.NoError(t, WaitStart(context.TODO(), pacer, Ghost, &sw, &m))
	require.Equal(t, 3, calls)
	require.Equal(t, "G", m.Frame().Text)
}
