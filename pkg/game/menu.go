package game

import (
	"context"

	"github.com/golang/glog"

	fx "github.com/robotalks/ghosthunt/pkg/framework"
	"github.com/robotalks/ghosthunt/pkg/grid"
	"github.com/robotalks/ghosthunt/pkg/hal"
)

// SelectRole lets the player pick a role before the loop starts:
// north proposes the ghost, south the human and push confirms.
// Push without a proposal is ignored.
func SelectRole(ctx context.Context, pacer fx.Pacer, in hal.Input, d hal.Display) (Role, error) {
	role := RoleUnknown
	d.Clear()
	d.Text("?")
	d.Update()
	for {
		if _, err := pacer.Wait(ctx); err != nil {
			return RoleUnknown, err
		}
		in.Update()
		proposed := role
		if in.Event(grid.North) {
			proposed = Ghost
		}
		if in.Event(grid.South) {
			proposed = Human
		}
		if proposed != role {
			role = proposed
			d.Clear()
			d.Text(roleLetter(role) + "?")
			d.Update()
		}
		if in.Event(grid.Push) && role != RoleUnknown {
			glog.Infof("role selected: %s", role)
			return role, nil
		}
	}
}

// WaitStart shows the role and waits for the start button.
func WaitStart(ctx context.Context, pacer fx.Pacer, role Role, in hal.Input, d hal.Display) error {
	d.Clear()
	d.Text(roleLetter(role))
	d.Update()
	for {
		if _, err := pacer.Wait(ctx); err != nil {
			return err
		}
		in.Update()
		if in.StartPressed() {
			return nil
		}
	}
}

func roleLetter(r Role) string {
	switch r {
	case Human:
		return "H"
	case Ghost:
		return "G"
	}
	return ""
}
