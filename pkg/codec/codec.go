// Package codec packs a grid position into the single byte carried
// by the link, and back.
package codec

// The link carries one byte at a time with no framing, ordering or
// acknowledgement, so a position must fit in exactly one byte.
//
// Decimal is the wire format of the game: byte = x*10 + y. There is
// no checksum, a corrupted byte may decode into another valid cell.
// Parity is a drop-in stricter format using the spare high bit.

import (
	"errors"
	"fmt"

	"github.com/robotalks/ghosthunt/pkg/grid"
)

var (
	// ErrOutOfDomain indicates the byte decodes outside the grid.
	ErrOutOfDomain = errors.New("out of domain")
	// ErrParity indicates a parity check failure.
	ErrParity = errors.New("parity mismatch")
)

// DecodeError reports a byte which could not be decoded cleanly.
// Pos holds the arithmetic result of decoding.
type DecodeError struct {
	Byte byte
	Pos  grid.Position
	Err  error
}

// Error implements error.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode byte %d: %v", e.Byte, e.Err)
}

// Unwrap supports errors.Is.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Codec converts a Position to a transmissible byte and back.
type Codec interface {
	Encode(grid.Position) byte
	// Decode always returns the decoded position. A non-nil error
	// tells the position is not trustworthy.
	Decode(byte) (grid.Position, error)
}

// Decimal encodes a position as x*10 + y. Bounds default to the
// game's 5x7 grid when zero.
type Decimal struct {
	Width  uint8
	Height uint8
}

// Encode implements Codec.
func (c Decimal) Encode(pos grid.Position) byte {
	return pos.X*10 + pos.Y
}

// Decode implements Codec.
func (c Decimal) Decode(b byte) (grid.Position, error) {
	y := b % 10
	x := (b%100 - y) / 10
	pos := grid.Pos(x, y)
	if b >= 100 || !c.inDomain(pos) {
		return pos, &DecodeError{Byte: b, Pos: pos, Err: ErrOutOfDomain}
	}
	return pos, nil
}

func (c Decimal) inDomain(pos grid.Position) bool {
	w, h := c.Width, c.Height
	if w == 0 {
		w = grid.DefaultWidth
	}
	if h == 0 {
		h = grid.DefaultHeight
	}
	return pos.X < w && pos.Y < h
}

// Parity carries the Decimal value in the low 7 bits and an even
// parity bit in bit 7.
type Parity struct {
	Decimal
}

// Encode implements Codec.
func (c Parity) Encode(pos grid.Position) byte {
	b := c.Decimal.Encode(pos) & 0x7f
	if ones(b)%2 != 0 {
		b |= 0x80
	}
	return b
}

// Decode implements Codec.
func (c Parity) Decode(b byte) (grid.Position, error) {
	pos, err := c.Decimal.Decode(b & 0x7f)
	if ones(b)%2 != 0 {
		return pos, &DecodeError{Byte: b, Pos: pos, Err: ErrParity}
	}
	if err != nil {
		err.(*DecodeError).Byte = b
	}
	return pos, err
}

func ones(b byte) (n int) {
	for ; b != 0; b &= b - 1 {
		n++
	}
	return
}

// Policy decides whether an imperfect decode is applied.
type Policy int

const (
	// Strict drops every byte which fails to decode cleanly.
	Strict Policy = iota
	// Lenient applies out of domain positions as-is, the way the
	// board firmware always did. Parity failures are still dropped.
	Lenient
)

// Accept tells whether a decode result may be applied.
func (p Policy) Accept(err error) bool {
	if err == nil {
		return true
	}
	return p == Lenient && errors.Is(err, ErrOutOfDomain)
}

// String implements fmt.Stringer.
func (p Policy) String() string {
	if p == Lenient {
		return "lenient"
	}
	return "strict"
}

// ParsePolicy parses a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "strict":
		return Strict, nil
	case "lenient":
		return Lenient, nil
	}
	return Strict, fmt.Errorf("unknown decode policy %q", s)
}

// New creates a codec by name: "decimal" (default) or "parity".
func New(name string) (Codec, error) {
	switch name {
	case "", "decimal":
		return Decimal{}, nil
	case "parity":
		return Parity{}, nil
	}
	return nil, fmt.Errorf("unknown codec %q", name)
}
