package board

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/ghosthunt/pkg/cli/sh"
	"github.com/robotalks/ghosthunt/pkg/grid"
	"github.com/robotalks/ghosthunt/pkg/sim"
)

var (
	// MoveCmd pushes the navigation switch of a board.
	MoveCmd = ishell.Cmd{
		Name:    "move",
		Aliases: []string{"m"},
		Help:    "BOARD DIRECTION...",
		Func: sh.WithBoard(func(c *ishell.Context, b *sim.Board, args []string) {
			if len(args) < 1 {
				c.Err(fmt.Errorf("DIRECTION required"))
				return
			}
			for _, arg := range args {
				dir, err := grid.ParseDirection(arg)
				if err != nil {
					c.Err(err)
					return
				}
				sh.ShellFrom(c).World.Press(b, dir)
			}
		}),
	}

	// StartCmd sets the start button of a board.
	StartCmd = ishell.Cmd{
		Name:    "start",
		Help:    "BOARD [on|off]",
		Aliases: []string{"btn"},
		Func: sh.WithBoard(func(c *ishell.Context, b *sim.Board, args []string) {
			pressed := true
			if len(args) > 0 {
				pressed = args[0] != "off"
			}
			b.Input.SetStart(pressed)
		}),
	}

	// StepCmd steps the world.
	StepCmd = ishell.Cmd{
		Name:    "step",
		Aliases: []string{"s"},
		Help:    "[TICKS]",
		Func: func(c *ishell.Context) {
			n := 1
			if len(c.Args) > 0 {
				val, err := strconv.Atoi(c.Args[0])
				if err != nil || val < 0 {
					c.Err(fmt.Errorf("Invalid TICKS: %q", c.Args[0]))
					return
				}
				n = val
			}
			w := sh.ShellFrom(c).World
			w.Step(n)
			c.Printf("tick %d\n", w.Tick())
		},
	}

	// ShowCmd prints the matrix of boards.
	ShowCmd = ishell.Cmd{
		Name:    "show",
		Aliases: []string{"sh"},
		Help:    "[BOARD]",
		Func: func(c *ishell.Context) {
			w := sh.ShellFrom(c).World
			boards := w.Boards()
			if len(c.Args) > 0 {
				b := w.Board(c.Args[0])
				if b == nil {
					c.Err(fmt.Errorf("unknown board %q", c.Args[0]))
					return
				}
				boards = []*sim.Board{b}
			}
			for _, b := range boards {
				f := b.Display.Frame()
				c.Printf("%s (%s):\n%s", b.Name, b.Role(), f.String())
			}
		},
	}

	// LossCmd sets the link loss rate.
	LossCmd = ishell.Cmd{
		Name:    "loss",
		Help:    "RATE [SEED]",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("RATE required"))
				return
			}
			rate, err := strconv.ParseFloat(c.Args[0], 64)
			if err != nil || rate < 0 || rate > 1 {
				c.Err(fmt.Errorf("Invalid RATE: %q", c.Args[0]))
				return
			}
			var seed int64 = 1
			if len(c.Args) > 1 {
				if seed, err = strconv.ParseInt(c.Args[1], 10, 64); err != nil {
					c.Err(fmt.Errorf("Invalid SEED: %v", err))
					return
				}
			}
			sh.ShellFrom(c).World.SetLoss(rate, seed)
		},
	}

	// StatusCmd prints board status.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "[BOARD]",
		Func: func(c *ishell.Context) {
			w := sh.ShellFrom(c).World
			boards := w.Boards()
			if len(c.Args) > 0 {
				if b := w.Board(c.Args[0]); b != nil {
					boards = []*sim.Board{b}
				}
			}
			for _, b := range boards {
				sh.Print(c, w.Status(b))
			}
		},
	}
)

func init() {
	sh.AddCmds(
		&MoveCmd,
		&StartCmd,
		&StepCmd,
		&ShowCmd,
		&LossCmd,
		&StatusCmd,
	)
}
