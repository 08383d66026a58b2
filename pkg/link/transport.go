package link

import (
	"sync/atomic"
)

// DefaultBufferSize is the default number of bytes buffered per direction.
const DefaultBufferSize = 16

// Transport is the one-byte link consumed by the board.
type Transport interface {
	// TryReceive returns a pending byte if any. It never blocks.
	TryReceive() (byte, bool)
	// Send transmits a byte, best effort. A nil error doesn't
	// mean the peer will receive it.
	Send(byte) error
}

// DropCounter is optionally implemented by a Transport to report
// bytes lost locally.
type DropCounter interface {
	Drops() uint64
}

// Buffer is a bounded byte FIFO which never blocks. When full,
// the newest byte is dropped.
type Buffer struct {
	ch    chan byte
	drops uint64
}

// NewBuffer creates a Buffer, size defaults to DefaultBufferSize.
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Buffer{ch: make(chan byte, size)}
}

// Put enqueues a byte, returns false if dropped.
func (b *Buffer) Put(v byte) bool {
	select {
	case b.ch <- v:
		return true
	default:
		atomic.AddUint64(&b.drops, 1)
		return false
	}
}

// TryReceive dequeues a byte if any.
func (b *Buffer) TryReceive() (byte, bool) {
	select {
	case v := <-b.ch:
		return v, true
	default:
		return 0, false
	}
}

// C exposes the channel for consumers waiting on bytes.
func (b *Buffer) C() <-chan byte {
	return b.ch
}

// Len returns the number of pending bytes.
func (b *Buffer) Len() int {
	return len(b.ch)
}

// Drops implements DropCounter.
func (b *Buffer) Drops() uint64 {
	return atomic.LoadUint64(&b.drops)
}
