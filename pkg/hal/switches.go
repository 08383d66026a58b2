package hal

import (
	"sync"

	"github.com/robotalks/ghosthunt/pkg/grid"
)

const directions = int(grid.Push) + 1

// Switches is a programmable Input. Presses may come from any
// goroutine and are latched on the next Update.
type Switches struct {
	pending [directions]bool
	latched [directions]bool
	start   bool
	lock    sync.Mutex
}

// Press records a push of dir.
func (s *Switches) Press(dir grid.Direction) {
	if dir < 0 || int(dir) >= directions {
		return
	}
	s.lock.Lock()
	s.pending[dir] = true
	s.lock.Unlock()
}

// SetStart sets the start button level.
func (s *Switches) SetStart(pressed bool) {
	s.lock.Lock()
	s.start = pressed
	s.lock.Unlock()
}

// Update implements Input.
func (s *Switches) Update() {
	s.lock.Lock()
	for n, p := range s.pending {
		if p {
			s.latched[n] = true
			s.pending[n] = false
		}
	}
	s.lock.Unlock()
}

// Event implements Input.
func (s *Switches) Event(dir grid.Direction) bool {
	if dir < 0 || int(dir) >= directions {
		return false
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	ev := s.latched[dir]
	s.latched[dir] = false
	return ev
}

// StartPressed implements Input.
func (s *Switches) StartPressed() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.start
}

// Inputs combines multiple inputs, e.g. a keyboard and a joystick.
type Inputs []Input

// Update implements Input.
func (in Inputs) Update() {
	for _, i := range in {
		i.Update()
	}
}

// Event implements Input. Every input is checked so all are cleared.
func (in Inputs) Event(dir grid.Direction) bool {
	var ev bool
	for _, i := range in {
		if i.Event(dir) {
			ev = true
		}
	}
	return ev
}

// StartPressed implements Input.
func (in Inputs) StartPressed() bool {
	var pressed bool
	for _, i := range in {
		if i.StartPressed() {
			pressed = true
		}
	}
	return pressed
}
