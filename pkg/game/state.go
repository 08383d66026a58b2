// Package game implements the ghost hunt board: its state and the
// periodic tasks moving the local player, synchronizing the peer,
// detecting the end of a round and drawing the matrix.
package game

import (
	"fmt"
	"strings"

	"github.com/robotalks/ghosthunt/pkg/grid"
)

// Role is the part a board plays.
type Role int

// Roles
const (
	RoleUnknown Role = iota
	// Human is the evader, it sees where the ghost is.
	Human
	// Ghost is the pursuer, it can't see the human but moves faster.
	Ghost
)

// String implements fmt.Stringer.
func (r Role) String() string {
	switch r {
	case Human:
		return "human"
	case Ghost:
		return "ghost"
	}
	return "unknown"
}

// ParseRole parses a role name.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "human", "h", "evader":
		return Human, nil
	case "ghost", "g", "pursuer":
		return Ghost, nil
	case "":
		return RoleUnknown, nil
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", s)
}

// Start returns the cell the role starts a round on.
func (r Role) Start() grid.Position {
	if r == Ghost {
		return grid.Pos(2, 6)
	}
	return grid.Pos(2, 0)
}

// Opponent returns the role of the peer board.
func (r Role) Opponent() Role {
	switch r {
	case Human:
		return Ghost
	case Ghost:
		return Human
	}
	return RoleUnknown
}

// RoundState tells whether a round is in progress.
type RoundState int

// Round states
const (
	Active RoundState = iota
	Ended
)

// String implements fmt.Stringer.
func (s RoundState) String() string {
	if s == Ended {
		return "ended"
	}
	return "active"
}

// Player is the state of one board as seen locally.
type Player struct {
	Pos   grid.Position
	Round RoundState
}

// State is owned by a board and passed to its tasks. Each field
// has a single writer: Local.Pos the movement task, Local.Round the
// result task (and movement on restart), Peer the synchronizer.
type State struct {
	Role  Role
	Grid  *grid.Grid
	Local Player
	// Peer is the last known state of the other board. Only the
	// position travels on the link, Peer.Round is never learned.
	Peer Player

	// Rounds counts the rounds ended on this board.
	Rounds int

	localStart grid.Position
	peerStart  grid.Position
}

// NewState creates the state of a board at the start of a round.
func NewState(role Role, g *grid.Grid, local, peer grid.Position) *State {
	s := &State{
		Role:       role,
		Grid:       g,
		localStart: local,
		peerStart:  peer,
	}
	s.Reset()
	return s
}

// Reset puts both players back on their start cells and
// activates the round.
func (s *State) Reset() {
	s.Local = Player{Pos: s.localStart, Round: Active}
	s.Peer = Player{Pos: s.peerStart, Round: Active}
}

// Active tells if the local round is in progress.
func (s *State) Active() bool {
	return s.Local.Round == Active
}
