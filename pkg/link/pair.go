package link

import (
	"math/rand"
	"sync"
	"sync/atomic"
)

// Endpoint is one side of an in-memory link created by Pair.
type Endpoint struct {
	inbox *Buffer
	peer  *Endpoint

	lossRate float64
	rand     *rand.Rand
	lost     uint64
	closed   bool
	lock     sync.Mutex
}

// Pair creates two connected endpoints, each buffering up to
// size received bytes.
func Pair(size int) (*Endpoint, *Endpoint) {
	a := &Endpoint{inbox: NewBuffer(size)}
	b := &Endpoint{inbox: NewBuffer(size)}
	a.peer, b.peer = b, a
	return a, b
}

// SetLoss makes the endpoint drop outgoing bytes with the given
// probability, using a deterministic seed.
func (e *Endpoint) SetLoss(rate float64, seed int64) *Endpoint {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.lossRate = rate
	e.rand = rand.New(rand.NewSource(seed))
	return e
}

// Send implements Transport.
func (e *Endpoint) Send(b byte) error {
	e.lock.Lock()
	if e.closed {
		e.lock.Unlock()
		return ErrClosed
	}
	lose := e.lossRate > 0 && e.rand.Float64() < e.lossRate
	e.lock.Unlock()
	if lose {
		atomic.AddUint64(&e.lost, 1)
		return nil
	}
	e.peer.inbox.Put(b)
	return nil
}

// Inject delivers a byte to this endpoint as if the peer sent it.
func (e *Endpoint) Inject(bytes ...byte) {
	for _, b := range bytes {
		e.inbox.Put(b)
	}
}

// TryReceive implements Transport.
func (e *Endpoint) TryReceive() (byte, bool) {
	return e.inbox.TryReceive()
}

// Pending returns the number of received bytes not consumed yet.
func (e *Endpoint) Pending() int {
	return e.inbox.Len()
}

// Drops implements DropCounter.
func (e *Endpoint) Drops() uint64 {
	return e.inbox.Drops()
}

// Lost returns the number of outgoing bytes dropped by loss injection.
func (e *Endpoint) Lost() uint64 {
	return atomic.LoadUint64(&e.lost)
}

// Close implements io.Closer.
func (e *Endpoint) Close() error {
	e.lock.Lock()
	e.closed = true
	e.lock.Unlock()
	return nil
}
