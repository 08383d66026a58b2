package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/ghosthunt/pkg/codec"
	"github.com/robotalks/ghosthunt/pkg/grid"
	"github.com/robotalks/ghosthunt/pkg/hal"
	"github.com/robotalks/ghosthunt/pkg/link"
)

type testCtx struct {
	tick uint64
}

func (c *testCtx) Context() context.Context { return context.TODO() }
func (c *testCtx) Time() time.Time          { return time.Time{} }
func (c *testCtx) Tick() uint64             { c.tick++; return c.tick }
func (c *testCtx) TaskName() string         { return "test" }

type failingLink struct {
	sent int
}

func (l *failingLink) TryReceive() (byte, bool) { return 0, false }
func (l *failingLink) Send(byte) error {
	l.sent++
	return link.ErrNotReady
}

func TestMovement(t *testing.T) {
	testCases := []struct {
		name  string
		start grid.Position
		dirs  []grid.Direction
		end   grid.Position
	}{
		{"south", grid.Pos(2, 0), []grid.Direction{grid.South}, grid.Pos(2, 1)},
		{"north edge", grid.Pos(2, 0), []grid.Direction{grid.North}, grid.Pos(2, 0)},
		{"into wall", grid.Pos(2, 2), []grid.Direction{grid.South}, grid.Pos(2, 2)},
		{"west then east", grid.Pos(2, 0), []grid.Direction{grid.West, grid.East}, grid.Pos(2, 0)},
		{"push ignored", grid.Pos(2, 0), []grid.Direction{grid.Push}, grid.Pos(2, 0)},
		{"south then east blocked", grid.Pos(2, 0), []grid.Direction{grid.East, grid.South}, grid.Pos(2, 1)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var sw hal.Switches
			var m hal.Matrix
			s := NewState(Human, grid.Default(), tc.start, Ghost.Start())
			mv := &Movement{State: s, Input: &sw, Display: &m}
			for _, dir := range tc.dirs {
				sw.Press(dir)
			}
			require.NoError(t, mv.Control(&testCtx{}))
			require.Equal(t, tc.end, s.Local.Pos)
			require.True(t, s.Grid.Valid(s.Local.Pos))
		})
	}
}

func TestMovementStaysValid(t *testing.T) {
	var sw hal.Switches
	var m hal.Matrix
	s := NewState(Ghost, grid.Default(), Ghost.Start(), Human.Start())
	mv := &Movement{State: s, Input: &sw, Display: &m}
	cc := &testCtx{}
	dirs := []grid.Direction{grid.North, grid.West, grid.North, grid.North, grid.East, grid.South, grid.West, grid.North, grid.North}
	for i := 0; i < 100; i++ {
		sw.Press(dirs[i%len(dirs)])
		if i%3 == 0 {
			sw.Press(grid.East)
		}
		require.NoError(t, mv.Control(cc))
		require.True(t, s.Grid.Valid(s.Local.Pos), "invalid position %v", s.Local.Pos)
	}
}

func TestMovementEndedAndRestart(t *testing.T) {
	var sw hal.Switches
	var m hal.Matrix
	s := NewState(Human, grid.Default(), Human.Start(), Ghost.Start())
	mv := &Movement{State: s, Input: &sw, Display: &m}
	cc := &testCtx{}

	s.Local.Pos = grid.Pos(2, 1)
	s.Peer.Pos = grid.Pos(4, 4)
	s.Local.Round = Ended
	sw.Press(grid.South)
	require.NoError(t, mv.Control(cc))
	require.Equal(t, grid.Pos(2, 1), s.Local.Pos)
	require.False(t, s.Active())

	sw.SetStart(true)
	require.NoError(t, mv.Control(cc))
	require.True(t, s.Active())
	require.Equal(t, Human.Start(), s.Local.Pos)
	require.Equal(t, Ghost.Start(), s.Peer.Pos)
	m.Update()
	f := m.Frame()
	require.True(t, f.Lit(Human.Start()))
}

func TestSyncExchange(t *testing.T) {
	a, b := link.Pair(link.DefaultBufferSize)
	human := NewState(Human, grid.Default(), Human.Start(), Ghost.Start())
	ghost := NewState(Ghost, grid.Default(), grid.Pos(3, 5), Human.Start())
	hs := &Synchronizer{State: human, Link: a, Codec: codec.Decimal{}}
	gs := &Synchronizer{State: ghost, Link: b, Codec: codec.Decimal{}}

	require.NoError(t, hs.Control(&testCtx{}))
	require.Equal(t, 1, b.Pending())
	require.NoError(t, gs.Control(&testCtx{}))
	require.Equal(t, grid.Pos(2, 0), ghost.Peer.Pos)
	require.NoError(t, hs.Control(&testCtx{}))
	require.Equal(t, grid.Pos(3, 5), human.Peer.Pos)
	require.Equal(t, SyncStats{Received: 1, Sent: 2}, hs.Stats())
	require.Equal(t, SyncStats{Received: 1, Sent: 1}, gs.Stats())
}

func TestSyncPolicy(t *testing.T) {
	testCases := []struct {
		name     string
		policy   codec.Policy
		in       byte
		peer     grid.Position
		rejected uint64
	}{
		{"strict valid", codec.Strict, 35, grid.Pos(3, 5), 0},
		{"strict out of grid", codec.Strict, 96, Ghost.Start(), 1},
		{"strict overflow", codec.Strict, 120, Ghost.Start(), 1},
		{"lenient out of grid", codec.Lenient, 96, grid.Pos(9, 6), 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a, _ := link.Pair(link.DefaultBufferSize)
			s := NewState(Human, grid.Default(), Human.Start(), Ghost.Start())
			sync := &Synchronizer{State: s, Link: a, Codec: codec.Decimal{}, Policy: tc.policy}
			a.Inject(tc.in)
			require.NoError(t, sync.Control(&testCtx{}))
			require.Equal(t, tc.peer, s.Peer.Pos)
			require.Equal(t, tc.rejected, sync.Stats().Rejected)
		})
	}
}

func TestSyncDrain(t *testing.T) {
	testCases := []struct {
		name    string
		drain   DrainPolicy
		in      []byte
		peer    grid.Position
		pending int
	}{
		{"one", DrainOne, []byte{20, 21, 22}, grid.Pos(2, 0), 2},
		{"latest", DrainLatest, []byte{20, 21, 22}, grid.Pos(2, 2), 0},
		{"all", DrainAll, []byte{20, 21, 22}, grid.Pos(2, 2), 0},
		{"latest rejected", DrainLatest, []byte{20, 21, 120}, Ghost.Start(), 0},
		{"all skips rejected", DrainAll, []byte{20, 21, 120}, grid.Pos(2, 1), 0},
		{"nothing", DrainAll, nil, Ghost.Start(), 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a, _ := link.Pair(link.DefaultBufferSize)
			s := NewState(Human, grid.Default(), Human.Start(), Ghost.Start())
			sync := &Synchronizer{State: s, Link: a, Codec: codec.Decimal{}, Drain: tc.drain}
			a.Inject(tc.in...)
			require.NoError(t, sync.Control(&testCtx{}))
			require.Equal(t, tc.peer, s.Peer.Pos)
			require.Equal(t, tc.pending, a.Pending())
		})
	}
}

func TestSyncWhileEnded(t *testing.T) {
	a, b := link.Pair(link.DefaultBufferSize)
	s := NewState(Ghost, grid.Default(), grid.Pos(2, 4), Human.Start())
	s.Local.Round = Ended
	sync := &Synchronizer{State: s, Link: a, Codec: codec.Decimal{}}
	require.NoError(t, sync.Control(&testCtx{}))
	v, ok := b.TryReceive()
	require.True(t, ok)
	require.Equal(t, byte(24), v)
}

func TestSyncSendError(t *testing.T) {
	l := &failingLink{}
	s := NewState(Human, grid.Default(), Human.Start(), Ghost.Start())
	sync := &Synchronizer{State: s, Link: l, Codec: codec.Decimal{}}
	for i := 0; i < 3; i++ {
		require.NoError(t, sync.Control(&testCtx{}))
	}
	require.Equal(t, 3, l.sent)
	require.Equal(t, SyncStats{SendErrors: 3}, sync.Stats())
}

func TestParseDrainPolicy(t *testing.T) {
	for _, p := range []DrainPolicy{DrainOne, DrainLatest, DrainAll} {
		parsed, err := ParseDrainPolicy(p.String())
		require.NoError(t, err)
		require.Equal(t, p, parsed)
	}
	p, err := ParseDrainPolicy("")
	require.NoError(t, err)
	require.Equal(t, DrainOne, p)
	_, err = ParseDrainPolicy("some")
	require.Error(t, err)
}

func TestResultOnce(t *testing.T) {
	var m hal.Matrix
	s := NewState(Human, grid.Default(), Human.Start(), Ghost.Start())
	r := &Result{State: s, Display: &m}
	cc := &testCtx{}

	require.NoError(t, r.Control(cc))
	require.True(t, s.Active())

	s.Peer.Pos = s.Local.Pos
	m.Draw(s.Local.Pos, true)
	require.NoError(t, r.Control(cc))
	require.False(t, s.Active())
	require.Equal(t, 1, s.Rounds)
	m.Update()
	require.Equal(t, hal.Frame{}, m.Frame())

	require.NoError(t, r.Control(cc))
	require.Equal(t, 1, s.Rounds)
}

func TestScreen(t *testing.T) {
	t.Run("human sees ghost", func(t *testing.T) {
		var m hal.Matrix
		s := NewState(Human, grid.Default(), Human.Start(), Ghost.Start())
		d := &Screen{State: s, Display: &m}
		require.NoError(t, d.Control(&testCtx{}))
		f := m.Frame()
		require.True(t, f.Lit(Human.Start()))
		require.True(t, f.Lit(Ghost.Start()))

		s.Peer.Pos = grid.Pos(2, 5)
		require.NoError(t, d.Control(&testCtx{}))
		f = m.Frame()
		require.True(t, f.Lit(grid.Pos(2, 5)))
		require.False(t, f.Lit(Ghost.Start()))
	})

	t.Run("ghost is blind", func(t *testing.T) {
		var m hal.Matrix
		s := NewState(Ghost, grid.Default(), Ghost.Start(), Human.Start())
		d := &Screen{State: s, Display: &m}
		require.NoError(t, d.Control(&testCtx{}))
		f := m.Frame()
		require.True(t, f.Lit(Ghost.Start()))
		require.False(t, f.Lit(Human.Start()))
	})

	t.Run("ended", func(t *testing.T) {
		for role, bitmap := range map[Role][5]byte{Human: Skull, Ghost: HumanFace} {
			var m, expected hal.Matrix
			s := NewState(role, grid.Default(), role.Start(), role.Opponent().Start())
			s.Local.Round = Ended
			d := &Screen{State: s, Display: &m}
			require.NoError(t, d.Control(&testCtx{}))
			expected.Bitmap(bitmap)
			expected.Update()
			require.Equal(t, expected.Frame(), m.Frame(), role.String())
		}
	})
}

func TestRoles(t *testing.T) {
	r, err := ParseRole("Ghost")
	require.NoError(t, err)
	require.Equal(t, Ghost, r)
	r, err = ParseRole("h")
	require.NoError(t, err)
	require.Equal(t, Human, r)
	_, err = ParseRole("pacman")
	require.Error(t, err)

	require.Equal(t, Human, Ghost.Opponent())
	require.Equal(t, RoleUnknown, RoleUnknown.Opponent())
	g := grid.Default()
	require.True(t, g.Valid(Human.Start()))
	require.True(t, g.Valid(Ghost.Start()))
	require.Equal(t, uint(15), DefaultRates(Ghost).Movement)
	require.Equal(t, uint(10), DefaultRates(Human).Movement)
}

func TestStateReset(t *testing.T) {
	s := NewState(Human, grid.Default(), Human.Start(), Ghost.Start())
	s.Local = Player{Pos: grid.Pos(4, 4), Round: Ended}
	s.Peer.Pos = grid.Pos(4, 4)
	s.Reset()
	require.True(t, s.Active())
	require.Equal(t, Human.Start(), s.Local.Pos)
	require.Equal(t, Ghost.Start(), s.Peer.Pos)
	require.Equal(t, Active, s.Peer.Round)
}
