package hal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/ghosthunt/pkg/grid"
)

func TestMatrixUpdate(t *testing.T) {
	var m Matrix
	m.Draw(grid.Pos(2, 0), true)
	require.False(t, func() bool { f := m.Frame(); return f.Lit(grid.Pos(2, 0)) }())
	m.Update()
	f := m.Frame()
	require.True(t, f.Lit(grid.Pos(2, 0)))
	require.Equal(t, 1, m.Updates())

	m.Draw(grid.Pos(2, 0), false)
	m.Draw(grid.Pos(9, 9), true)
	m.Update()
	f = m.Frame()
	require.Equal(t, Frame{}, f)
}

func TestMatrixBitmap(t *testing.T) {
	var m Matrix
	m.Text("GHOST")
	m.Bitmap([5]byte{0x01, 0x00, 0x40, 0x00, 0x7f})
	m.Update()
	f := m.Frame()
	require.Empty(t, f.Text)
	require.True(t, f.Lit(grid.Pos(0, 0)))
	require.False(t, f.Lit(grid.Pos(0, 1)))
	require.True(t, f.Lit(grid.Pos(2, 6)))
	for y := uint8(0); y < 7; y++ {
		require.True(t, f.Lit(grid.Pos(4, y)))
	}
	require.Equal(t, "#...#\n....#\n....#\n....#\n....#\n....#\n..#.#\n", f.String())

	m.Clear()
	m.Update()
	f = m.Frame()
	require.Equal(t, Frame{}, f)
}

func TestSwitchesLatch(t *testing.T) {
	var s Switches
	s.Press(grid.North)
	require.False(t, s.Event(grid.North))
	s.Update()
	require.True(t, s.Event(grid.North))
	require.False(t, s.Event(grid.North))
	require.False(t, s.Event(grid.South))

	s.Press(grid.East)
	s.Update()
	s.Update()
	require.True(t, s.Event(grid.East))

	require.False(t, s.StartPressed())
	s.SetStart(true)
	require.True(t, s.StartPressed())
}

func TestInputs(t *testing.T) {
	var a, b Switches
	in := Inputs{&a, &b}
	a.Press(grid.North)
	b.Press(grid.North)
	b.SetStart(true)
	in.Update()
	require.True(t, in.Event(grid.North))
	require.False(t, in.Event(grid.North))
	require.True(t, in.StartPressed())
}
