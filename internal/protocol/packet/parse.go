package packet

import (
	"errors"
	"fmt"

	"github.com/danmuck/bitsctl/internal/protocol/bits"
)

const (
	versionBits     = 3
	typeBits        = 3
	lengthTypeBits  = 1
	frameBitsWidth  = 15
	frameCountWidth = 11
	literalGroup    = 5

	literalContinue uint64 = 0b10000
	literalPayload  uint64 = 0b01111

	// MaxPaddingBits is the most trailing zero bits accepted after the root
	// packet; a hex transmission is padded to a byte boundary at most.
	MaxPaddingBits = 7
)

// Limits constrains decode work. A zero field disables that check.
type Limits struct {
	MaxDepth        int
	MaxPackets      int
	MaxInputNibbles int
}

func DefaultLimits() Limits {
	return Limits{
		MaxDepth:        256,
		MaxPackets:      1 << 16,
		MaxInputNibbles: 1 << 20,
	}
}

// Parse decodes a hex transmission with DefaultLimits.
func Parse(hex string) (*Message, error) {
	return ParseWithLimits(hex, DefaultLimits())
}

// ParseWithLimits decodes a hex transmission into a Message.
func ParseWithLimits(hex string, limits Limits) (*Message, error) {
	if limits.MaxInputNibbles > 0 && len(hex) > limits.MaxInputNibbles {
		return nil, fmt.Errorf("%w: %d nibbles, limit %d", ErrInputTooLarge, len(hex), limits.MaxInputNibbles)
	}
	c, err := bits.NewCursor(hex)
	if err != nil {
		return nil, err
	}
	return ParseCursor(c, limits)
}

// ParseCursor decodes exactly one root packet from c. Up to MaxPaddingBits
// zero bits may follow it.
func ParseCursor(c *bits.Cursor, limits Limits) (*Message, error) {
	if limits.MaxInputNibbles > 0 && c.Len() > limits.MaxInputNibbles*4 {
		return nil, fmt.Errorf("%w: %d bits, limit %d nibbles", ErrInputTooLarge, c.Len(), limits.MaxInputNibbles)
	}
	p := &parser{c: c, msg: &Message{}, limits: limits}
	root, err := p.parse(0)
	if err != nil {
		return nil, err
	}
	p.msg.root = root

	padding := c.Remaining()
	if padding > MaxPaddingBits {
		return nil, &GrammarError{Offset: c.Offset(), Err: fmt.Errorf("%w: %d bits", ErrTrailingData, padding)}
	}
	if padding > 0 {
		at := c.Offset()
		v, err := c.Take(padding)
		if err != nil {
			return nil, err
		}
		if v != 0 {
			return nil, &GrammarError{Offset: at, Err: fmt.Errorf("%w: non-zero padding %b", ErrTrailingData, v)}
		}
	}
	p.msg.padding = padding
	return p.msg, nil
}

type parser struct {
	c      *bits.Cursor
	msg    *Message
	limits Limits
}

func (p *parser) parse(depth int) (ID, error) {
	start := p.c.Offset()
	if p.limits.MaxDepth > 0 && depth >= p.limits.MaxDepth {
		return 0, p.fail(start, fmt.Errorf("%w: limit %d", ErrTooDeep, p.limits.MaxDepth))
	}

	version, err := p.c.Take(versionBits)
	if err != nil {
		return 0, p.fail(start, err)
	}
	typeID, err := p.c.Take(typeBits)
	if err != nil {
		return 0, p.fail(start, err)
	}

	pkt := Packet{Version: uint8(version), Type: uint8(typeID), Offset: start}
	if pkt.Type == TypeLiteral {
		value, err := p.literal()
		if err != nil {
			return 0, p.fail(start, err)
		}
		pkt.Literal = value
	} else {
		op, ok := OperationFromType(pkt.Type)
		if !ok {
			return 0, p.fail(start, fmt.Errorf("%w: %d", ErrUnknownType, typeID))
		}
		framing, err := p.framing()
		if err != nil {
			return 0, p.fail(start, err)
		}
		children, err := p.readChildren(framing, depth)
		if err != nil {
			return 0, p.fail(start, err)
		}
		if op.IsComparison() && len(children) != 2 {
			return 0, p.fail(start, fmt.Errorf("%w: %s with %d sub-packets", ErrArity, op, len(children)))
		}
		pkt.Op = op
		pkt.Framing = framing
		pkt.Children = children
	}

	if p.limits.MaxPackets > 0 && p.msg.Len() >= p.limits.MaxPackets {
		return 0, p.fail(start, fmt.Errorf("%w: limit %d", ErrTooManyPackets, p.limits.MaxPackets))
	}
	return p.msg.append(pkt), nil
}

// literal reads 5-bit groups until one has a clear continuation flag.
func (p *parser) literal() (uint64, error) {
	var out uint64
	for {
		group, err := p.c.Take(literalGroup)
		if err != nil {
			return 0, err
		}
		if out>>60 != 0 {
			return 0, ErrLiteralOverflow
		}
		out = out<<4 | group&literalPayload
		if group&literalContinue == 0 {
			return out, nil
		}
	}
}

func (p *parser) framing() (Framing, error) {
	lengthType, err := p.c.Take(lengthTypeBits)
	if err != nil {
		return Framing{}, err
	}
	f := Framing{Kind: FrameKind(lengthType)}
	width := frameBitsWidth
	if f.Kind == FrameCount {
		width = frameCountWidth
	}
	if f.Size, err = p.c.Take(width); err != nil {
		return Framing{}, err
	}
	return f, nil
}

// readChildren parses sub-packets until the frame declared by f is satisfied.
// A bit-length frame must end exactly on a packet boundary.
func (p *parser) readChildren(f Framing, depth int) ([]ID, error) {
	if f.Size == 0 {
		return nil, fmt.Errorf("%w: %s frame of size 0", ErrEmptyOperator, f.Kind)
	}

	target := 0
	if f.Kind == FrameBits {
		if f.Size > uint64(p.c.Remaining()) {
			return nil, fmt.Errorf("%w: frame of %d bits, %d remain", bits.ErrExhausted, f.Size, p.c.Remaining())
		}
		target = p.c.Remaining() - int(f.Size)
	}

	done := func(n int) bool {
		if f.Kind == FrameCount {
			return uint64(n) == f.Size
		}
		return p.c.Remaining() == target
	}

	var children []ID
	for !done(len(children)) {
		id, err := p.parse(depth + 1)
		if err != nil {
			return nil, err
		}
		children = append(children, id)
		if f.Kind == FrameBits && p.c.Remaining() < target {
			return nil, fmt.Errorf("%w: overran by %d bits", ErrFrameOverrun, target-p.c.Remaining())
		}
	}
	return children, nil
}

// fail attaches the packet position to err unless a nested packet already did.
func (p *parser) fail(offset int, err error) error {
	var gErr *GrammarError
	if errors.As(err, &gErr) {
		return err
	}
	return &GrammarError{Offset: offset, Err: err}
}
