// Package link provides the one-byte peer link between two boards.
package link

// The link models a half-duplex infrared UART: bytes are sent one at
// a time, best effort, with no acknowledgement, framing or ordering
// guarantee. Receiving never blocks, a task polls for a pending byte.
//
// Every Transport keeps a small bounded receive buffer. When it is
// full, newly arrived bytes are dropped and counted, the same way a
// UART overrun loses data.
