// Package joystick drives the navigation switch and the start
// button from a game controller.
package joystick

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/ghosthunt/pkg/framework"
	"github.com/robotalks/ghosthunt/pkg/grid"
	"github.com/robotalks/ghosthunt/pkg/hal"
)

// ErrUnsupported indicates joysticks are not supported on the platform.
var ErrUnsupported = errors.New("joystick not supported")

// EventKind tells whether an event comes from an axis or a button.
type EventKind int

// Event kinds
const (
	Axis EventKind = iota
	Button
)

// Event is a change on the device.
type Event struct {
	Kind  EventKind
	Index int
	// Value is the axis position, or non-zero for a pressed button.
	Value int
	// Init is set for the synthetic events reporting initial state.
	Init bool
}

// Device is an opened joystick.
type Device interface {
	io.Closer
	Name() string
	ReadEvent() (Event, error)
}

// Mapping assigns axes and buttons.
type Mapping struct {
	AxisX     int
	AxisY     int
	Push      int
	Start     int
	Threshold int
}

// DefaultMapping fits most gamepads: left stick, first button
// pushes and the start button starts.
var DefaultMapping = Mapping{
	AxisX:     0,
	AxisY:     1,
	Push:      0,
	Start:     9,
	Threshold: 16384,
}

// Joystick feeds a Switches from device events. A direction is
// pushed when the stick enters it.
type Joystick struct {
	// DeviceIndex is the device to open, -1 to detect.
	DeviceIndex int
	Mapping     Mapping
	// Open opens a device, it defaults to the platform driver.
	Open func(index int) (Device, error)

	switches hal.Switches
	x, y     int
}

// New creates a Joystick.
func New(index int) *Joystick {
	return &Joystick{DeviceIndex: index, Mapping: DefaultMapping, Open: Open}
}

// Input returns the Input fed by the joystick.
func (j *Joystick) Input() hal.Input {
	return &j.switches
}

// Handle applies an event.
func (j *Joystick) Handle(ev Event) {
	if ev.Init {
		return
	}
	m := &j.Mapping
	switch ev.Kind {
	case Axis:
		switch ev.Index {
		case m.AxisX:
			j.x = j.stick(j.x, ev.Value, grid.West, grid.East)
		case m.AxisY:
			j.y = j.stick(j.y, ev.Value, grid.North, grid.South)
		}
	case Button:
		switch ev.Index {
		case m.Push:
			if ev.Value != 0 {
				j.switches.Press(grid.Push)
			}
		case m.Start:
			j.switches.SetStart(ev.Value != 0)
		}
	}
}

func (j *Joystick) stick(prev, value int, neg, pos grid.Direction) int {
	cur := 0
	if value <= -j.Mapping.Threshold {
		cur = -1
	} else if value >= j.Mapping.Threshold {
		cur = 1
	}
	if cur != prev {
		switch cur {
		case -1:
			j.switches.Press(neg)
		case 1:
			j.switches.Press(pos)
		}
	}
	return cur
}

// Run implements Runnable. The device is opened, and re-opened
// after it's lost, every second until ctx is done.
func (j *Joystick) Run(ctx context.Context) error {
	for {
		if dev, err := j.open(); err != nil {
			glog.V(2).Infof("joystick: %v", err)
		} else {
			glog.Infof("joystick %q opened", dev.Name())
			err = fx.RunWithContextCloser(ctx, dev, func() error {
				for {
					ev, err := dev.ReadEvent()
					if err != nil {
						return err
					}
					j.Handle(ev)
				}
			})
			glog.Warningf("joystick %q lost: %v", dev.Name(), err)
			j.x, j.y = 0, 0
			j.switches.SetStart(false)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

func (j *Joystick) open() (Device, error) {
	if j.DeviceIndex >= 0 {
		return j.Open(j.DeviceIndex)
	}
	for index := 0; index < 16; index++ {
		dev, err := j.Open(index)
		if err == nil {
			return dev, nil
		}
		if err == ErrUnsupported {
			return nil, err
		}
	}
	return nil, errors.New("no joystick detected")
}
