package packet

import "fmt"

// TypeLiteral is the type id of a literal packet. Every other id names an
// Operation.
const TypeLiteral uint8 = 4

// ID addresses a packet inside the Message that produced it.
type ID int

// Operation is the reduction applied by an operator packet.
type Operation uint8

// Operation values are the wire type ids.
const (
	Sum         Operation = 0
	Product     Operation = 1
	Min         Operation = 2
	Max         Operation = 3
	GreaterThan Operation = 5
	LessThan    Operation = 6
	EqualTo     Operation = 7
)

// OperationFromType maps a wire type id onto an Operation.
func OperationFromType(typeID uint8) (Operation, bool) {
	switch op := Operation(typeID); op {
	case Sum, Product, Min, Max, GreaterThan, LessThan, EqualTo:
		return op, true
	default:
		return 0, false
	}
}

// IsComparison reports whether op takes exactly two operands.
func (op Operation) IsComparison() bool {
	return op == GreaterThan || op == LessThan || op == EqualTo
}

func (op Operation) String() string {
	switch op {
	case Sum:
		return "sum"
	case Product:
		return "product"
	case Min:
		return "min"
	case Max:
		return "max"
	case GreaterThan:
		return "gt"
	case LessThan:
		return "lt"
	case EqualTo:
		return "eq"
	default:
		return fmt.Sprintf("op(%d)", uint8(op))
	}
}

// FrameKind selects how an operator delimits its sub-packets.
type FrameKind uint8

const (
	// FrameBits delimits children by a total bit length (length-type-id 0).
	FrameBits FrameKind = 0
	// FrameCount delimits children by a sub-packet count (length-type-id 1).
	FrameCount FrameKind = 1
)

func (k FrameKind) String() string {
	if k == FrameCount {
		return "count"
	}
	return "bits"
}

// Framing is the child framing declared by an operator packet.
type Framing struct {
	Kind FrameKind
	Size uint64
}

// Packet is one decoded unit. Literal packets carry Literal; operator packets
// carry Op, Framing and Children.
type Packet struct {
	Version uint8
	Type    uint8
	// Offset is the bit position of the packet header in the transmission.
	Offset int

	Literal uint64

	Op       Operation
	Framing  Framing
	Children []ID
}

func (p Packet) IsLiteral() bool {
	return p.Type == TypeLiteral
}

// Message owns every packet of one decoded transmission.
type Message struct {
	packets []Packet
	root    ID
	padding int
}

// Root returns the outermost packet.
func (m *Message) Root() ID {
	return m.root
}

// Len returns the number of packets in the message.
func (m *Message) Len() int {
	return len(m.packets)
}

// Padding returns the number of trailing alignment bits that were ignored.
func (m *Message) Padding() int {
	return m.padding
}

// Packet resolves id. The returned packet shares its Children slice with the
// message and must not be modified.
func (m *Message) Packet(id ID) (Packet, bool) {
	if id < 0 || int(id) >= len(m.packets) {
		return Packet{}, false
	}
	return m.packets[id], true
}

func (m *Message) append(p Packet) ID {
	id := ID(len(m.packets))
	m.packets = append(m.packets, p)
	return id
}
