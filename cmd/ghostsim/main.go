package main

import (
	"github.com/robotalks/ghosthunt/pkg/cli/sh"
	"github.com/robotalks/ghosthunt/pkg/sim"

	_ "github.com/robotalks/ghosthunt/pkg/cli/cmds/board"
)

//go-build: CGO_ENABLED=0

func init() {
	sim.SetupFlags()
}

func main() {
	sh.Main()
}
