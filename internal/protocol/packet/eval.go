package packet

import "fmt"

// VersionSum adds the version field of every packet reachable from the root.
func (m *Message) VersionSum() uint64 {
	if m.Len() == 0 {
		return 0
	}
	return m.versionSum(m.root)
}

func (m *Message) versionSum(id ID) uint64 {
	pkt := m.packets[id]
	total := uint64(pkt.Version)
	for _, child := range pkt.Children {
		total += m.versionSum(child)
	}
	return total
}

// Eval reduces the root packet to a single value.
func (m *Message) Eval() (uint64, error) {
	return m.EvalPacket(m.root)
}

// EvalPacket reduces the subtree rooted at id. Sum and Product wrap on
// uint64 overflow.
func (m *Message) EvalPacket(id ID) (uint64, error) {
	pkt, ok := m.Packet(id)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownPacket, id)
	}
	if pkt.IsLiteral() {
		return pkt.Literal, nil
	}

	n := len(pkt.Children)
	if n == 0 || (pkt.Op.IsComparison() && n != 2) {
		return 0, &ArityError{ID: id, Op: pkt.Op, Children: n}
	}

	values := make([]uint64, n)
	for i, child := range pkt.Children {
		v, err := m.EvalPacket(child)
		if err != nil {
			return 0, err
		}
		values[i] = v
	}

	switch pkt.Op {
	case Sum:
		var out uint64
		for _, v := range values {
			out += v
		}
		return out, nil
	case Product:
		out := uint64(1)
		for _, v := range values {
			out *= v
		}
		return out, nil
	case Min:
		return minOf(values), nil
	case Max:
		return maxOf(values), nil
	case GreaterThan:
		return boolValue(values[0] > values[1]), nil
	case LessThan:
		return boolValue(values[0] < values[1]), nil
	case EqualTo:
		return boolValue(values[0] == values[1]), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownType, uint8(pkt.Op))
	}
}

func minOf(values []uint64) uint64 {
	out := values[0]
	for _, v := range values[1:] {
		out = min(out, v)
	}
	return out
}

func maxOf(values []uint64) uint64 {
	out := values[0]
	for _, v := range values[1:] {
		out = max(out, v)
	}
	return out
}

func boolValue(ok bool) uint64 {
	if ok {
		return 1
	}
	return 0
}
