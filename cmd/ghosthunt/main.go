package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/robotalks/ghosthunt/pkg/env"
	fx "github.com/robotalks/ghosthunt/pkg/framework"
	"github.com/robotalks/ghosthunt/pkg/game"
	"github.com/robotalks/ghosthunt/pkg/hal"
	"github.com/robotalks/ghosthunt/pkg/hal/console"
	"github.com/robotalks/ghosthunt/pkg/hal/joystick"
)

// menuRate is the rate (Hz) switches are sampled before the round.
const menuRate = 50

func init() {
	env.SetupFlags()
}

func main() {
	flag.Parse()

	con, err := console.Open()
	if err != nil {
		log.Fatalln(err)
	}
	defer con.Close()

	runner := fx.NewRunner().HandleSignals()
	ctx, cancel := context.WithCancel(runner.Context)
	defer cancel()
	go func() {
		select {
		case <-con.QuitChan():
			cancel()
		case <-ctx.Done():
		}
	}()

	conf := env.Default()
	inputs := hal.Inputs{con.Input()}
	if conf.Joystick {
		js := joystick.New(conf.JoystickIndex)
		inputs = append(inputs, js.Input())
		runner.GoWith(ctx, js)
	}
	runner.GoWith(ctx, con, fx.RunFunc(func(ctx context.Context) error {
		defer cancel()
		return run(ctx, conf, con, inputs)
	}))
	if err := runner.Wait(); err != nil {
		con.Close()
		log.Fatalln(err)
	}
}

func run(ctx context.Context, conf *env.Config, con *console.Console, in hal.Input) error {
	role, err := conf.ParseRole()
	if err != nil {
		return err
	}
	pacer := fx.NewPacer(menuRate)
	defer pacer.Stop()
	if role == game.RoleUnknown {
		con.SetStatus("north: ghost, south: human, enter: confirm")
		if role, err = game.SelectRole(ctx, pacer, in, con); err != nil {
			return err
		}
	}

	gc, err := conf.GameConfig(role)
	if err != nil {
		return err
	}
	con.SetStatus(fmt.Sprintf("%s: connecting %s", role, conf.LinkURL))
	if gc.Link, err = conf.OpenLink(ctx); err != nil {
		return err
	}
	gc.Display, gc.Input = con, in

	con.SetStatus(fmt.Sprintf("%s: space to start", role))
	if err := game.WaitStart(ctx, pacer, role, in, con); err != nil {
		return err
	}

	s, err := game.NewSession(gc)
	if err != nil {
		return err
	}
	var extra []fx.LoopAdder
	pub, err := conf.StatusPublisher(s, gc.Link)
	if err != nil {
		return err
	}
	if pub != nil {
		extra = append(extra, pub)
	}
	loop := s.NewLoop(extra...)
	if sv := conf.StatsView(); sv != nil {
		loop.AddRunnable(sv)
	}
	con.SetStatus(fmt.Sprintf("%s board %s over %s", role, conf.ResolveBoardID(), conf.LinkURL))
	s.Start()
	return loop.Run(ctx)
}
