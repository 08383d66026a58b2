package hal

import (
	"strings"
	"sync"

	"github.com/robotalks/ghosthunt/pkg/grid"
)

// Matrix dimensions.
const (
	Cols = int(grid.DefaultWidth)
	Rows = int(grid.DefaultHeight)
)

// Frame is a snapshot of the matrix.
type Frame struct {
	Cells [Cols][Rows]bool
	Text  string
}

// Lit tells if a cell is on.
func (f *Frame) Lit(pos grid.Position) bool {
	if int(pos.X) >= Cols || int(pos.Y) >= Rows {
		return false
	}
	return f.Cells[pos.X][pos.Y]
}

// String renders the frame row by row, '#' for a lit cell.
func (f *Frame) String() string {
	if f.Text != "" {
		return f.Text + "\n"
	}
	var sb strings.Builder
	for y := 0; y < Rows; y++ {
		for x := 0; x < Cols; x++ {
			if f.Cells[x][y] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Matrix is a headless Display. Drawing goes to a back frame
// which becomes visible on Update.
type Matrix struct {
	back    Frame
	front   Frame
	updates int
	lock    sync.Mutex
}

// Draw implements Display.
func (m *Matrix) Draw(pos grid.Position, on bool) {
	if int(pos.X) >= Cols || int(pos.Y) >= Rows {
		return
	}
	m.lock.Lock()
	m.back.Cells[pos.X][pos.Y] = on
	m.lock.Unlock()
}

// Bitmap implements Display.
func (m *Matrix) Bitmap(cols [5]byte) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.back.Text = ""
	for x, col := range cols {
		for y := 0; y < Rows; y++ {
			m.back.Cells[x][y] = col&(1<<uint(y)) != 0
		}
	}
}

// Text implements Display.
func (m *Matrix) Text(s string) {
	m.lock.Lock()
	m.back.Text = s
	m.lock.Unlock()
}

// Clear implements Display.
func (m *Matrix) Clear() {
	m.lock.Lock()
	m.back = Frame{}
	m.lock.Unlock()
}

// Update implements Display.
func (m *Matrix) Update() {
	m.lock.Lock()
	m.front = m.back
	m.updates++
	m.lock.Unlock()
}

// Frame returns the visible frame.
func (m *Matrix) Frame() Frame {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.front
}

// Updates returns the number of Update calls.
func (m *Matrix) Updates() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.updates
}
