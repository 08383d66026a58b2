// Package hal defines the board peripherals used by the game
// and headless implementations of them.
package hal

import "github.com/robotalks/ghosthunt/pkg/grid"

// Display is the LED matrix. It is push-only.
type Display interface {
	// Draw sets or clears one cell.
	Draw(pos grid.Position, on bool)
	// Bitmap replaces the frame with column bitmaps, bit n of a
	// column being row n.
	Bitmap(cols [5]byte)
	// Text shows a message instead of the cells.
	Text(s string)
	// Clear turns all cells off and removes any text.
	Clear()
	// Update pushes pending changes to the hardware.
	Update()
}

// Input is the navigation switch plus the start button.
type Input interface {
	// Update samples the switches.
	Update()
	// Event tells if dir was pushed since the last check.
	Event(dir grid.Direction) bool
	// StartPressed reads the raw start button level.
	StartPressed() bool
}
