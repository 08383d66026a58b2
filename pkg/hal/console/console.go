// Package console runs a board in a terminal using termbox.
//
// Arrow keys or WASD are the navigation switch, Enter pushes it and
// Space is the start button. Esc or Ctrl-C powers the board down.
package console

import (
	"context"
	"sync"

	"github.com/nsf/termbox-go"

	"github.com/robotalks/ghosthunt/pkg/grid"
	"github.com/robotalks/ghosthunt/pkg/hal"
)

// Console implements hal.Display and hal.Input on a terminal.
type Console struct {
	matrix   hal.Matrix
	switches hal.Switches
	status   string
	start    bool
	started  bool
	lock     sync.Mutex
	quitCh   chan struct{}
	quitOnce sync.Once
}

// Open initializes the terminal.
func Open() (*Console, error) {
	if err := termbox.Init(); err != nil {
		return nil, err
	}
	termbox.SetInputMode(termbox.InputEsc)
	return &Console{quitCh: make(chan struct{})}, nil
}

// Close restores the terminal.
func (c *Console) Close() error {
	termbox.Close()
	return nil
}

// QuitChan is closed when the user asks to power down.
func (c *Console) QuitChan() <-chan struct{} {
	return c.quitCh
}

// SetStatus sets the line shown under the matrix.
func (c *Console) SetStatus(s string) {
	c.lock.Lock()
	c.status = s
	c.lock.Unlock()
}

// Draw implements hal.Display.
func (c *Console) Draw(pos grid.Position, on bool) { c.matrix.Draw(pos, on) }

// Bitmap implements hal.Display.
func (c *Console) Bitmap(cols [5]byte) { c.matrix.Bitmap(cols) }

// Text implements hal.Display.
func (c *Console) Text(s string) { c.matrix.Text(s) }

// Clear implements hal.Display.
func (c *Console) Clear() { c.matrix.Clear() }

// Update implements hal.Display.
func (c *Console) Update() {
	c.matrix.Update()
	frame := c.matrix.Frame()
	c.lock.Lock()
	status := c.status
	c.lock.Unlock()

	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	if frame.Text != "" {
		printAt(0, 0, frame.Text, termbox.ColorYellow)
	} else {
		for y := 0; y < hal.Rows; y++ {
			for x := 0; x < hal.Cols; x++ {
				ch, fg := '·', termbox.ColorDefault
				if frame.Cells[x][y] {
					ch, fg = '●', termbox.ColorRed
				}
				termbox.SetCell(x*2, y, ch, fg, termbox.ColorDefault)
			}
		}
	}
	printAt(0, hal.Rows+1, status, termbox.ColorDefault)
	termbox.Flush()
}

func printAt(x, y int, s string, fg termbox.Attribute) {
	for _, ch := range s {
		termbox.SetCell(x, y, ch, fg, termbox.ColorDefault)
		x++
	}
}

// SampleInput latches the keys pressed since the last call. A start
// press is only seen until the next sample.
func (c *Console) SampleInput() {
	c.switches.Update()
	c.lock.Lock()
	c.started, c.start = c.start, false
	c.lock.Unlock()
}

// Input returns the hal.Input view of the console.
func (c *Console) Input() hal.Input {
	return inputView{c}
}

// StartPressed tells if the start key was pressed before the last
// sample. A terminal has no key release so a press reads as held for
// one sample.
func (c *Console) StartPressed() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.started
}

type inputView struct {
	c *Console
}

func (v inputView) Update()                       { v.c.SampleInput() }
func (v inputView) Event(dir grid.Direction) bool { return v.c.switches.Event(dir) }
func (v inputView) StartPressed() bool            { return v.c.StartPressed() }

// Run implements Runnable, polling terminal events.
func (c *Console) Run(ctx context.Context) error {
	evCh := make(chan termbox.Event, 1)
	go func() {
		for {
			ev := termbox.PollEvent()
			if ev.Type == termbox.EventInterrupt {
				close(evCh)
				return
			}
			evCh <- ev
		}
	}()
	for {
		select {
		case <-ctx.Done():
			termbox.Interrupt()
			return ctx.Err()
		case ev, ok := <-evCh:
			if !ok {
				return nil
			}
			if ev.Type == termbox.EventKey {
				c.handleKey(ev)
			}
		}
	}
}

func (c *Console) handleKey(ev termbox.Event) {
	switch ev.Key {
	case termbox.KeyArrowUp:
		c.switches.Press(grid.North)
	case termbox.KeyArrowDown:
		c.switches.Press(grid.South)
	case termbox.KeyArrowRight:
		c.switches.Press(grid.East)
	case termbox.KeyArrowLeft:
		c.switches.Press(grid.West)
	case termbox.KeyEnter:
		c.switches.Press(grid.Push)
	case termbox.KeySpace:
		c.lock.Lock()
		c.start = true
		c.lock.Unlock()
	case termbox.KeyEsc, termbox.KeyCtrlC:
		c.quitOnce.Do(func() { close(c.quitCh) })
	}
	switch ev.Ch {
	case 'w':
		c.switches.Press(grid.North)
	case 's':
		c.switches.Press(grid.South)
	case 'd':
		c.switches.Press(grid.East)
	case 'a':
		c.switches.Press(grid.West)
	}
}
