package packet

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownType     = errors.New("packet: unknown type id")
	ErrFrameOverrun    = errors.New("packet: sub-packet overran bit-length frame")
	ErrEmptyOperator   = errors.New("packet: operator without sub-packets")
	ErrArity           = errors.New("packet: operator arity violation")
	ErrLiteralOverflow = errors.New("packet: literal exceeds 64 bits")
	ErrTrailingData    = errors.New("packet: trailing data after root packet")
	ErrTooDeep         = errors.New("packet: nesting too deep")
	ErrTooManyPackets  = errors.New("packet: too many packets")
	ErrInputTooLarge   = errors.New("packet: input too large")
	ErrUnknownPacket   = errors.New("packet: unknown packet id")
)

// GrammarError locates a decode failure in the transmission.
type GrammarError struct {
	// Offset is the bit position of the packet being decoded.
	Offset int
	Err    error
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("packet at bit %d: %v", e.Offset, e.Err)
}

func (e *GrammarError) Unwrap() error { return e.Err }

// ArityError reports an operator evaluated with an invalid operand count.
type ArityError struct {
	ID       ID
	Op       Operation
	Children int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("packet: %s packet %d has %d sub-packets", e.Op, e.ID, e.Children)
}

func (e *ArityError) Unwrap() error { return ErrArity }
