package link

import "errors"

var (
	// ErrNotReady indicates the transport is not connected yet.
	ErrNotReady = errors.New("not ready")
	// ErrClosed indicates the transport has been closed.
	ErrClosed = errors.New("closed")
	// ErrOverrun indicates the outgoing buffer is full and the byte is lost.
	ErrOverrun = errors.New("overrun")
)
