// Package env configures a board from environment and command line.
package env

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang/glog"

	"github.com/robotalks/ghosthunt/pkg/codec"
	fx "github.com/robotalks/ghosthunt/pkg/framework"
	"github.com/robotalks/ghosthunt/pkg/game"
	"github.com/robotalks/ghosthunt/pkg/link"
)

// Config provides the options of a board.
type Config struct {
	// BoardID identifies the board on a broker. Defaults to the machine id.
	BoardID string `env:"GHOST_BOARD_ID"`
	// Role is human or ghost. The player picks one when empty.
	Role string `env:"GHOST_ROLE"`

	// LinkURL selects the link transport, e.g.
	// tcp://host:port, listen://:port, file:///dev/ttyUSB0,
	// mqtt://host:port/prefix/?channel=ir, ws://host:port/channel.
	LinkURL    string `env:"GHOST_LINK_URL" envDefault:"mem://"`
	BufferSize int    `env:"GHOST_LINK_BUFFER" envDefault:"16"`

	Codec  string `env:"GHOST_CODEC" envDefault:"decimal"`
	Policy string `env:"GHOST_POLICY" envDefault:"strict"`
	Drain  string `env:"GHOST_DRAIN" envDefault:"one"`

	BaseRate    uint          `env:"GHOST_BASE_RATE" envDefault:"1000"`
	MoveRate    uint          `env:"GHOST_MOVE_RATE"`
	SyncRate    uint          `env:"GHOST_SYNC_RATE"`
	ResultRate  uint          `env:"GHOST_RESULT_RATE"`
	DisplayRate uint          `env:"GHOST_DISPLAY_RATE"`
	Budget      time.Duration `env:"GHOST_BUDGET"`

	// StatusURL is the broker status is published to, e.g.
	// mqtt://host:port/prefix/. Disabled when empty unless the
	// link is over MQTT.
	StatusURL string `env:"GHOST_STATUS_URL"`
	// Joystick enables a game controller besides the keyboard,
	// JoystickIndex -1 detects the device.
	Joystick      bool `env:"GHOST_JOYSTICK"`
	JoystickIndex int  `env:"GHOST_JOYSTICK_INDEX" envDefault:"-1"`

	// StatsViewAddr enables the runtime stats server.
	StatsViewAddr string `env:"GHOST_STATSVIEW_ADDR"`
}

var defaultConfig = Config{
	LinkURL:    "mem://",
	BufferSize: link.DefaultBufferSize,
	Codec:      "decimal",
	Policy:     "strict",
	Drain:      "one",
	BaseRate:   fx.DefaultRate,

	JoystickIndex: -1,
}

func init() {
	if err := ParseEnv(&defaultConfig); err != nil {
		glog.Warning(err)
	}
}

// ParseEnv loads configuration from environment variables. Fields
// without a variable set take their envDefault, if any.
func ParseEnv(target *Config) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.BoardID, "board-id", defaultConfig.BoardID, "Board ID, machine id by default.")
	flag.StringVar(&defaultConfig.Role, "role", defaultConfig.Role, "Role: human or ghost, ask if empty.")
	flag.StringVar(&defaultConfig.LinkURL, "link", defaultConfig.LinkURL, "Link URL.")
	flag.IntVar(&defaultConfig.BufferSize, "link-buffer", defaultConfig.BufferSize, "Link receive buffer size.")
	flag.StringVar(&defaultConfig.Codec, "codec", defaultConfig.Codec, "Position codec: decimal or parity.")
	flag.StringVar(&defaultConfig.Policy, "policy", defaultConfig.Policy, "Peer byte policy: strict or lenient.")
	flag.StringVar(&defaultConfig.Drain, "drain", defaultConfig.Drain, "Link drain policy: one, latest or all.")
	flag.UintVar(&defaultConfig.BaseRate, "base-rate", defaultConfig.BaseRate, "Base tick rate (Hz).")
	flag.UintVar(&defaultConfig.MoveRate, "move-rate", defaultConfig.MoveRate, "Movement rate (Hz), role default if 0.")
	flag.UintVar(&defaultConfig.SyncRate, "sync-rate", defaultConfig.SyncRate, "Sync rate (Hz).")
	flag.UintVar(&defaultConfig.ResultRate, "result-rate", defaultConfig.ResultRate, "Result rate (Hz).")
	flag.UintVar(&defaultConfig.DisplayRate, "display-rate", defaultConfig.DisplayRate, "Display rate (Hz).")
	flag.DurationVar(&defaultConfig.Budget, "budget", defaultConfig.Budget, "Task execution budget, 0 to disable.")
	flag.StringVar(&defaultConfig.StatusURL, "status", defaultConfig.StatusURL, "Status broker URL.")
	flag.BoolVar(&defaultConfig.Joystick, "joystick", defaultConfig.Joystick, "Enable joystick.")
	flag.IntVar(&defaultConfig.JoystickIndex, "joystick-index", defaultConfig.JoystickIndex, "Joystick device index, -1 for auto detection.")
	flag.StringVar(&defaultConfig.StatsViewAddr, "statsview", defaultConfig.StatsViewAddr, "Runtime stats server address.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// ParseRole parses the configured role.
func (c *Config) ParseRole() (game.Role, error) {
	return game.ParseRole(c.Role)
}

// Rates returns the task rates of a role with configured overrides.
func (c *Config) Rates(role game.Role) game.Rates {
	r := game.DefaultRates(role)
	if c.MoveRate > 0 {
		r.Movement = c.MoveRate
	}
	if c.SyncRate > 0 {
		r.Sync = c.SyncRate
	}
	if c.ResultRate > 0 {
		r.Result = c.ResultRate
	}
	if c.DisplayRate > 0 {
		r.Display = c.DisplayRate
	}
	return r
}

// GameConfig builds the session config except peripherals.
func (c *Config) GameConfig(role game.Role) (game.Config, error) {
	cdc, err := codec.New(c.Codec)
	if err != nil {
		return game.Config{}, err
	}
	policy, err := codec.ParsePolicy(c.Policy)
	if err != nil {
		return game.Config{}, err
	}
	drain, err := game.ParseDrainPolicy(c.Drain)
	if err != nil {
		return game.Config{}, err
	}
	return game.Config{
		Role:     role,
		BaseRate: c.BaseRate,
		Rates:    c.Rates(role),
		Budget:   c.Budget,
		Codec:    cdc,
		Policy:   policy,
		Drain:    drain,
	}, nil
}

// MustGameConfig builds the session config and fails on error.
func (c *Config) MustGameConfig(role game.Role) game.Config {
	conf, err := c.GameConfig(role)
	if err != nil {
		log.Fatalln(err)
	}
	return conf
}
