package packet

import "strings"

// bitWriter assembles hand-crafted transmissions for tests.
type bitWriter struct {
	bits []uint8
}

func (w *bitWriter) put(v uint64, n int) *bitWriter {
	for i := n - 1; i >= 0; i-- {
		w.bits = append(w.bits, uint8(v>>uint(i)&1))
	}
	return w
}

func (w *bitWriter) append(others ...*bitWriter) *bitWriter {
	for _, o := range others {
		w.bits = append(w.bits, o.bits...)
	}
	return w
}

// hex pads to a byte boundary with zero bits.
func (w *bitWriter) hex() string {
	return w.hexPadded(8)
}

func (w *bitWriter) hexPadded(align int) string {
	bits := append([]uint8(nil), w.bits...)
	for len(bits)%align != 0 || len(bits)%4 != 0 {
		bits = append(bits, 0)
	}
	const alphabet = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(bits); i += 4 {
		n := bits[i]<<3 | bits[i+1]<<2 | bits[i+2]<<1 | bits[i+3]
		b.WriteByte(alphabet[n])
	}
	return b.String()
}

// literalGroups splits v into 4-bit groups, most significant first.
func literalGroups(v uint64) []uint64 {
	groups := []uint64{v & 0xF}
	for v >>= 4; v != 0; v >>= 4 {
		groups = append([]uint64{v & 0xF}, groups...)
	}
	return groups
}

func encodeLiteral(version uint8, v uint64) *bitWriter {
	return encodeGroups(version, literalGroups(v))
}

func encodeGroups(version uint8, groups []uint64) *bitWriter {
	w := (&bitWriter{}).put(uint64(version), 3).put(uint64(TypeLiteral), 3)
	for i, g := range groups {
		flag := uint64(1)
		if i == len(groups)-1 {
			flag = 0
		}
		w.put(flag<<4|g, 5)
	}
	return w
}

func encodeOperator(version uint8, op Operation, kind FrameKind, children ...*bitWriter) *bitWriter {
	body := (&bitWriter{}).append(children...)
	w := (&bitWriter{}).put(uint64(version), 3).put(uint64(op), 3).put(uint64(kind), 1)
	if kind == FrameCount {
		w.put(uint64(len(children)), 11)
	} else {
		w.put(uint64(len(body.bits)), 15)
	}
	return w.append(body)
}
