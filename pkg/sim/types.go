// Package sim runs two boards in one process, linked in memory,
// stepped one base tick at a time.
package sim

import (
	"flag"

	"github.com/robotalks/ghosthunt/pkg/codec"
	fx "github.com/robotalks/ghosthunt/pkg/framework"
	"github.com/robotalks/ghosthunt/pkg/game"
	"github.com/robotalks/ghosthunt/pkg/grid"
	"github.com/robotalks/ghosthunt/pkg/hal"
	"github.com/robotalks/ghosthunt/pkg/link"
	"github.com/robotalks/ghosthunt/pkg/status"
)

// Board is a simulated board.
type Board struct {
	Name    string
	Session *game.Session
	Loop    *fx.Loop
	Input   hal.Switches
	Display hal.Matrix
	Link    *link.Endpoint
}

// Role returns the role the board plays.
func (b *Board) Role() game.Role {
	return b.Session.State.Role
}

func (b *Board) status() *status.BoardStatus {
	m := status.Snapshot(b.Name, b.Session, b.Link)
	m.Tick = b.Loop.Tick()
	return m
}

// Config defines the configuration of a World.
type Config struct {
	BaseRate   uint
	BufferSize int
	Codec      string
	Policy     string
	Drain      string
	LossRate   float64
	Seed       int64
}

var defaultConfig = Config{
	BaseRate:   fx.DefaultRate,
	BufferSize: link.DefaultBufferSize,
	Codec:      "decimal",
	Policy:     "strict",
	Drain:      "one",
	Seed:       1,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.UintVar(&defaultConfig.BaseRate, "base-rate", defaultConfig.BaseRate, "Base tick rate (Hz).")
	flag.IntVar(&defaultConfig.BufferSize, "link-buffer", defaultConfig.BufferSize, "Link receive buffer size.")
	flag.StringVar(&defaultConfig.Codec, "codec", defaultConfig.Codec, "Position codec: decimal or parity.")
	flag.StringVar(&defaultConfig.Policy, "policy", defaultConfig.Policy, "Peer byte policy: strict or lenient.")
	flag.StringVar(&defaultConfig.Drain, "drain", defaultConfig.Drain, "Link drain policy: one, latest or all.")
	flag.Float64Var(&defaultConfig.LossRate, "loss", defaultConfig.LossRate, "Link loss rate [0, 1).")
	flag.Int64Var(&defaultConfig.Seed, "seed", defaultConfig.Seed, "Random seed of link loss.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

func (c *Config) newBoard(name string, role game.Role, l *link.Endpoint) (*Board, error) {
	cdc, err := codec.New(c.Codec)
	if err != nil {
		return nil, err
	}
	policy, err := codec.ParsePolicy(c.Policy)
	if err != nil {
		return nil, err
	}
	drain, err := game.ParseDrainPolicy(c.Drain)
	if err != nil {
		return nil, err
	}
	b := &Board{Name: name, Link: l}
	b.Session, err = game.NewSession(game.Config{
		Role:     role,
		Grid:     grid.Default(),
		BaseRate: c.BaseRate,
		Link:     l,
		Codec:    cdc,
		Policy:   policy,
		Drain:    drain,
		Display:  &b.Display,
		Input:    &b.Input,
	})
	if err != nil {
		return nil, err
	}
	b.Session.Start()
	b.Loop = b.Session.NewLoop()
	return b, nil
}
