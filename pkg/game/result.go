package game

import (
	"github.com/golang/glog"

	fx "github.com/robotalks/ghosthunt/pkg/framework"
	"github.com/robotalks/ghosthunt/pkg/hal"
)

// Result ends the round when the local player stands on the last
// known peer position. Each board decides on its own view only,
// there is no handshake with the peer.
type Result struct {
	State   *State
	Display hal.Display
}

// Control implements Controller.
func (r *Result) Control(cc fx.ControlContext) error {
	s := r.State
	if s.Active() && s.Local.Pos == s.Peer.Pos {
		r.Display.Clear()
		s.Local.Round = Ended
		s.Rounds++
		glog.Infof("%s board: caught at %v, round %d ended at tick %d", s.Role, s.Local.Pos, s.Rounds, cc.Tick())
	}
	return nil
}
