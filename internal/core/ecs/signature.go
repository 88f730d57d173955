package ecs

import (
	"math/bits"
	"strconv"
	"strings"
)

// ComponentKind is a tag from the closed set of component kinds a World knows about.
type ComponentKind uint8

// MaxComponentKinds is the width of a Signature.
const MaxComponentKinds = 64

// Signature is the set of component kinds present on an entity.
type Signature uint64

// SignatureOf builds a signature from kinds.
func SignatureOf(kinds ...ComponentKind) Signature {
	var s Signature
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

func (s Signature) With(k ComponentKind) Signature    { return s | 1<<k }
func (s Signature) Without(k ComponentKind) Signature { return s &^ (1 << k) }
func (s Signature) Has(k ComponentKind) bool          { return s&(1<<k) != 0 }

// Contains reports whether every kind in sub is also in s.
func (s Signature) Contains(sub Signature) bool { return s&sub == sub }

// Intersects reports whether s and o share at least one kind.
func (s Signature) Intersects(o Signature) bool { return s&o != 0 }

func (s Signature) IsEmpty() bool { return s == 0 }
func (s Signature) Len() int      { return bits.OnesCount64(uint64(s)) }

// Kinds lists the kinds in ascending order.
func (s Signature) Kinds() []ComponentKind {
	out := make([]ComponentKind, 0, s.Len())
	for v := uint64(s); v != 0; v &= v - 1 {
		out = append(out, ComponentKind(bits.TrailingZeros64(v)))
	}
	return out
}

func (s Signature) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range s.Kinds() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(k)))
	}
	b.WriteByte('}')
	return b.String()
}
