package game

import (
	fx "github.com/robotalks/ghosthunt/pkg/framework"
	"github.com/robotalks/ghosthunt/pkg/grid"
	"github.com/robotalks/ghosthunt/pkg/hal"
)

// Bitmaps shown once the round ended, one byte per column.
var (
	// Skull is shown on the human board.
	Skull = [5]byte{0x21, 0x2C, 0x08, 0x2A, 0x00}
	// HumanFace is shown on the ghost board.
	HumanFace = [5]byte{0x3E, 0x55, 0x45, 0x55, 0x3E}
)

// Screen draws the board state. The human board also draws the
// ghost, the ghost board never sees the human.
type Screen struct {
	State   *State
	Display hal.Display

	peerDrawn *grid.Position
}

// Control implements Controller.
func (d *Screen) Control(cc fx.ControlContext) error {
	s := d.State
	if !s.Active() {
		d.peerDrawn = nil
		if s.Role == Ghost {
			d.Display.Bitmap(HumanFace)
		} else {
			d.Display.Bitmap(Skull)
		}
		d.Display.Update()
		return nil
	}

	if s.Role == Human {
		peer := s.Peer.Pos
		if prev := d.peerDrawn; prev != nil && *prev != peer && *prev != s.Local.Pos {
			d.Display.Draw(*prev, false)
		}
		d.Display.Draw(peer, true)
		d.peerDrawn = &peer
	}
	d.Display.Draw(s.Local.Pos, true)
	d.Display.Update()
	return nil
}
