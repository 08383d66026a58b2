package game

import (
	"github.com/golang/glog"

	fx "github.com/robotalks/ghosthunt/pkg/framework"
	"github.com/robotalks/ghosthunt/pkg/grid"
	"github.com/robotalks/ghosthunt/pkg/hal"
)

// Movement moves the local player from navigation switch events.
// Invalid moves are silently ignored. Once the round ended, the
// start button begins a new round.
type Movement struct {
	State   *State
	Input   hal.Input
	Display hal.Display
}

// Control implements Controller.
func (m *Movement) Control(cc fx.ControlContext) error {
	m.Input.Update()
	s := m.State
	if !s.Active() {
		if m.Input.StartPressed() {
			s.Reset()
			m.Display.Clear()
			m.Display.Draw(s.Local.Pos, true)
			glog.Infof("new round at tick %d", cc.Tick())
		}
		return nil
	}

	pos := s.Local.Pos
	for _, dir := range grid.Moves {
		if m.Input.Event(dir) {
			pos, _ = s.Grid.Move(pos, dir)
		}
	}
	if pos != s.Local.Pos {
		m.Display.Draw(s.Local.Pos, false)
		s.Local.Pos = pos
		m.Display.Draw(pos, true)
		glog.V(3).Infof("moved to %v", pos)
	}
	return nil
}
