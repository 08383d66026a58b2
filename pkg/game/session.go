package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robotalks/ghosthunt/pkg/codec"
	fx "github.com/robotalks/ghosthunt/pkg/framework"
	"github.com/robotalks/ghosthunt/pkg/grid"
	"github.com/robotalks/ghosthunt/pkg/hal"
	"github.com/robotalks/ghosthunt/pkg/link"
)

// Task names.
const (
	TaskMovement = "movement"
	TaskSync     = "sync"
	TaskResult   = "result"
	TaskDisplay  = "display"
)

// Rates are task rates in Hz.
type Rates struct {
	Movement uint
	Sync     uint
	Result   uint
	Display  uint
}

// DefaultRates returns the rates of a role. The ghost moves faster.
func DefaultRates(role Role) Rates {
	r := Rates{Movement: 10, Sync: 10, Result: 50, Display: 100}
	if role == Ghost {
		r.Movement = 15
	}
	return r
}

// Config configures a Session.
type Config struct {
	Role Role
	// Grid defaults to grid.Default().
	Grid *grid.Grid
	// LocalStart and PeerStart default to the role start cells.
	LocalStart *grid.Position
	PeerStart  *grid.Position

	// BaseRate is the base tick rate in Hz.
	BaseRate uint
	// Rates default to DefaultRates(Role) when zero.
	Rates Rates
	// Budget is the execution time allowed per task invocation.
	Budget time.Duration

	Link    link.Transport
	Codec   codec.Codec
	Policy  codec.Policy
	Drain   DrainPolicy
	Display hal.Display
	Input   hal.Input
}

var (
	// ErrRoleUnknown indicates the role has not been resolved.
	ErrRoleUnknown = errors.New("role unknown")
	// ErrMissingPeripheral indicates link, display or input is missing.
	ErrMissingPeripheral = errors.New("missing peripheral")
)

// Session is a board playing a role.
type Session struct {
	State    *State
	Movement *Movement
	Sync     *Synchronizer
	Result   *Result
	Screen   *Screen

	link     link.Transport
	baseRate uint
	rates    Rates
	budget   time.Duration
}

// NewSession validates the config and creates the tasks.
func NewSession(c Config) (*Session, error) {
	if c.Role != Human && c.Role != Ghost {
		return nil, ErrRoleUnknown
	}
	if c.Link == nil || c.Display == nil || c.Input == nil {
		return nil, ErrMissingPeripheral
	}
	g := c.Grid
	if g == nil {
		g = grid.Default()
	}
	local, peer := c.Role.Start(), c.Role.Opponent().Start()
	if c.LocalStart != nil {
		local = *c.LocalStart
	}
	if c.PeerStart != nil {
		peer = *c.PeerStart
	}
	if !g.Valid(local) {
		return nil, fmt.Errorf("invalid local start %v", local)
	}
	if !g.Valid(peer) {
		return nil, fmt.Errorf("invalid peer start %v", peer)
	}
	cdc := c.Codec
	if cdc == nil {
		cdc = codec.Decimal{Width: g.Width, Height: g.Height}
	}
	rates := c.Rates
	if rates == (Rates{}) {
		rates = DefaultRates(c.Role)
	}
	baseRate := c.BaseRate
	if baseRate == 0 {
		baseRate = fx.DefaultRate
	}

	state := NewState(c.Role, g, local, peer)
	return &Session{
		State:    state,
		Movement: &Movement{State: state, Input: c.Input, Display: c.Display},
		Sync: &Synchronizer{
			State:  state,
			Link:   c.Link,
			Codec:  cdc,
			Policy: c.Policy,
			Drain:  c.Drain,
		},
		Result:   &Result{State: state, Display: c.Display},
		Screen:   &Screen{State: state, Display: c.Display},
		link:     c.Link,
		baseRate: baseRate,
		rates:    rates,
		budget:   c.Budget,
	}, nil
}

// BaseRate returns the base tick rate in Hz.
func (s *Session) BaseRate() uint {
	return s.baseRate
}

// Period returns the period in base ticks for a task rate.
func (s *Session) Period(rate uint) uint {
	return fx.PeriodOf(s.baseRate, rate)
}

// AddToLoop implements LoopAdder. Within a base tick the tasks
// fire in the order movement, sync, result, display, so a move is
// sent and checked in the tick it happens.
func (s *Session) AddToLoop(l *fx.Loop) {
	if runnable, ok := s.link.(fx.Runnable); ok {
		l.AddRunnable(runnable)
	}
	if s.budget > 0 {
		l.Budget = s.budget
	}
	l.AddTask(TaskMovement, s.Period(s.rates.Movement), s.Movement).
		AddTask(TaskSync, s.Period(s.rates.Sync), s.Sync).
		AddTask(TaskResult, s.Period(s.rates.Result), s.Result).
		AddTask(TaskDisplay, s.Period(s.rates.Display), s.Screen)
}

// NewLoop creates a loop paced at the base rate running the session
// along with extra adders.
func (s *Session) NewLoop(extra ...fx.LoopAdder) *fx.Loop {
	l := fx.NewLoop()
	l.Pacer = fx.NewPacer(s.baseRate)
	return l.Add(s).Add(extra...)
}

// Start clears the display and shows the local player.
func (s *Session) Start() {
	s.Screen.Display.Clear()
	s.Screen.Display.Draw(s.State.Local.Pos, true)
}

// Run installs the fixed task set for the resolved role and drives
// it until ctx is done. On a board this never returns.
func Run(ctx context.Context, c Config, extra ...fx.LoopAdder) error {
	s, err := NewSession(c)
	if err != nil {
		return err
	}
	s.Start()
	return s.NewLoop(extra...).Run(ctx)
}
