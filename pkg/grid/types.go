// Package grid defines the occupancy grid players move on.
package grid

import "fmt"

// Position is a cell on the grid.
type Position struct {
	X, Y uint8
}

// Pos is a shortcut to create a Position.
func Pos(x, y uint8) Position {
	return Position{X: x, Y: y}
}

// String implements fmt.Stringer.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is a navigation switch direction.
type Direction int

// Directions, in the order the movement task checks them.
const (
	North Direction = iota
	South
	East
	West
	Push
)

// Moves lists the directions which move a player.
var Moves = []Direction{North, South, East, West}

var directionNames = [...]string{"north", "south", "east", "west", "push"}

// String implements fmt.Stringer.
func (d Direction) String() string {
	if d >= 0 && int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// ParseDirection parses a direction name, first letter is enough.
func ParseDirection(s string) (Direction, error) {
	for n, name := range directionNames {
		if s == name || (len(s) == 1 && s[0] == name[0]) {
			return Direction(n), nil
		}
	}
	return Push, fmt.Errorf("unknown direction %q", s)
}

// Grid is the fixed game area with walls.
type Grid struct {
	Width  uint8
	Height uint8

	walls map[Position]bool
}

// Default dimensions match a 5x7 LED matrix.
const (
	DefaultWidth  uint8 = 5
	DefaultHeight uint8 = 7
)

// DefaultWalls are the maze edges of the game.
var DefaultWalls = []Position{
	{0, 0}, {0, 5},
	{1, 2}, {1, 3}, {1, 5},
	{2, 3},
	{3, 1}, {3, 3}, {3, 5},
}

// New creates a Grid.
func New(width, height uint8, walls ...Position) *Grid {
	g := &Grid{Width: width, Height: height, walls: make(map[Position]bool)}
	for _, w := range walls {
		g.walls[w] = true
	}
	return g
}

// Default creates the game's grid.
func Default() *Grid {
	return New(DefaultWidth, DefaultHeight, DefaultWalls...)
}

// Contains tells if pos is within bounds.
func (g *Grid) Contains(pos Position) bool {
	return pos.X < g.Width && pos.Y < g.Height
}

// Blocked tells if pos is a wall.
func (g *Grid) Blocked(pos Position) bool {
	return g.walls[pos]
}

// Valid tells if a player may stand on pos.
func (g *Grid) Valid(pos Position) bool {
	return g.Contains(pos) && !g.Blocked(pos)
}

// Walls returns all wall cells, row by row.
func (g *Grid) Walls() []Position {
	var walls []Position
	for y := uint8(0); y < g.Height; y++ {
		for x := uint8(0); x < g.Width; x++ {
			if p := Pos(x, y); g.walls[p] {
				walls = append(walls, p)
			}
		}
	}
	return walls
}

// Move computes the cell reached from pos towards dir.
// The move is rejected, returning pos and false, when it
// leaves the grid or lands on a wall.
func (g *Grid) Move(pos Position, dir Direction) (Position, bool) {
	next := pos
	switch dir {
	case North:
		if pos.Y == 0 {
			return pos, false
		}
		next.Y--
	case South:
		next.Y++
	case East:
		next.X++
	case West:
		if pos.X == 0 {
			return pos, false
		}
		next.X--
	default:
		return pos, false
	}
	if !g.Valid(next) {
		return pos, false
	}
	return next, true
}
