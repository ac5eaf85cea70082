package bits

import (
	"errors"
	"fmt"
)

// MaxWidth is the widest read Take supports.
const MaxWidth = 64

var (
	ErrInvalidNibble = errors.New("bits: invalid hex nibble")
	ErrInvalidWidth  = errors.New("bits: invalid read width")
	ErrExhausted     = errors.New("bits: buffer exhausted")
)

// InvalidNibbleError reports the first byte outside the hex alphabet.
type InvalidNibbleError struct {
	Offset int
	Byte   byte
}

func (e *InvalidNibbleError) Error() string {
	return fmt.Sprintf("bits: invalid hex nibble %q at offset %d", e.Byte, e.Offset)
}

func (e *InvalidNibbleError) Unwrap() error { return ErrInvalidNibble }

// Cursor reads big-endian bit fields out of a hex-decoded nibble sequence.
type Cursor struct {
	nibbles []uint8

	// index of the nibble the next bit comes from
	nibble int
	// offset of the next bit inside that nibble, always 0..3
	bit uint8
}

// NewCursor decodes hex into nibbles. Only 0-9 and A-F are accepted.
func NewCursor(hex string) (*Cursor, error) {
	nibbles := make([]uint8, len(hex))
	for i := 0; i < len(hex); i++ {
		v, ok := nibbleValue(hex[i])
		if !ok {
			return nil, &InvalidNibbleError{Offset: i, Byte: hex[i]}
		}
		nibbles[i] = v
	}
	return &Cursor{nibbles: nibbles}, nil
}

func nibbleValue(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}

// Len returns the total number of bits in the buffer.
func (c *Cursor) Len() int {
	return len(c.nibbles) * 4
}

// Offset returns the number of bits consumed so far.
func (c *Cursor) Offset() int {
	return c.nibble*4 + int(c.bit)
}

// Remaining returns the number of unconsumed bits.
func (c *Cursor) Remaining() int {
	return c.Len() - c.Offset()
}

// Take consumes n bits and returns them with the first bit read as the most
// significant. On error the cursor does not move.
func (c *Cursor) Take(n int) (uint64, error) {
	if n < 1 || n > MaxWidth {
		return 0, fmt.Errorf("%w: %d", ErrInvalidWidth, n)
	}
	if n > c.Remaining() {
		return 0, fmt.Errorf("%w: want %d bits at offset %d, have %d", ErrExhausted, n, c.Offset(), c.Remaining())
	}

	var out uint64
	for n > 0 {
		// Take as many bits as the current nibble still holds.
		avail := 4 - int(c.bit)
		k := min(avail, n)
		shift := avail - k
		chunk := uint64(c.nibbles[c.nibble]>>shift) & (1<<k - 1)
		out = out<<k | chunk

		n -= k
		c.bit += uint8(k)
		if c.bit == 4 {
			c.bit = 0
			c.nibble++
		}
	}
	return out, nil
}
