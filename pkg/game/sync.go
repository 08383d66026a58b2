package game

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/ghosthunt/pkg/codec"
	fx "github.com/robotalks/ghosthunt/pkg/framework"
	"github.com/robotalks/ghosthunt/pkg/link"
)

// DrainPolicy decides how many pending bytes the synchronizer
// consumes per invocation.
type DrainPolicy int

const (
	// DrainOne consumes at most one byte, leaving the rest for the
	// following invocations. Staleness grows with the backlog.
	DrainOne DrainPolicy = iota
	// DrainLatest consumes all pending bytes and applies the last one.
	DrainLatest
	// DrainAll consumes all pending bytes and applies each in order,
	// so the last acceptable one wins.
	DrainAll
)

// maxDrain bounds the bytes consumed in one invocation so that a
// flooding peer can't stall the loop.
const maxDrain = 4 * link.DefaultBufferSize

var drainNames = [...]string{"one", "latest", "all"}

// String implements fmt.Stringer.
func (p DrainPolicy) String() string {
	if p >= 0 && int(p) < len(drainNames) {
		return drainNames[p]
	}
	return fmt.Sprintf("drain(%d)", int(p))
}

// ParseDrainPolicy parses a drain policy name.
func ParseDrainPolicy(s string) (DrainPolicy, error) {
	if s == "" {
		return DrainOne, nil
	}
	for n, name := range drainNames {
		if s == name {
			return DrainPolicy(n), nil
		}
	}
	return DrainOne, fmt.Errorf("unknown drain policy %q", s)
}

// SyncStats are the synchronizer counters.
type SyncStats struct {
	Received   uint64
	Rejected   uint64
	Sent       uint64
	SendErrors uint64
}

// Synchronizer exchanges positions with the peer board. Each
// invocation applies pending bytes to the peer position, then
// always sends the local position. Nothing is ever reported as a
// failure: stale or malformed data simply becomes the peer state.
type Synchronizer struct {
	State  *State
	Link   link.Transport
	Codec  codec.Codec
	Policy codec.Policy
	Drain  DrainPolicy

	stats SyncStats
}

// Stats returns the counters.
func (s *Synchronizer) Stats() SyncStats {
	return s.stats
}

// Control implements Controller.
func (s *Synchronizer) Control(cc fx.ControlContext) error {
	s.receive()
	s.send()
	return nil
}

func (s *Synchronizer) receive() {
	switch s.Drain {
	case DrainLatest:
		var last byte
		var got bool
		for n := 0; n < maxDrain; n++ {
			b, ok := s.Link.TryReceive()
			if !ok {
				break
			}
			last, got = b, true
		}
		if got {
			s.apply(last)
		}
	case DrainAll:
		for n := 0; n < maxDrain; n++ {
			b, ok := s.Link.TryReceive()
			if !ok {
				break
			}
			s.apply(b)
		}
	default:
		if b, ok := s.Link.TryReceive(); ok {
			s.apply(b)
		}
	}
}

func (s *Synchronizer) apply(b byte) {
	pos, err := s.Codec.Decode(b)
	if !s.Policy.Accept(err) {
		s.stats.Rejected++
		glog.V(2).Infof("peer byte rejected: %v", err)
		return
	}
	s.stats.Received++
	if pos != s.State.Peer.Pos {
		glog.V(3).Infof("peer moved %v -> %v", s.State.Peer.Pos, pos)
	}
	s.State.Peer.Pos = pos
}

func (s *Synchronizer) send() {
	if err := s.Link.Send(s.Codec.Encode(s.State.Local.Pos)); err != nil {
		s.stats.SendErrors++
		glog.V(2).Infof("link send error: %v", err)
		return
	}
	s.stats.Sent++
}
