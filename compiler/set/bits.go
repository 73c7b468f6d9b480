package set

import (
	"math/bits"

	"tlog.app/go/tlog/tlwire"
)

type (
	Key interface {
		~int | ~int64
	}

	// Bits is a growable bitset of small non-negative keys.
	// Zero value is an empty set ready to use.
	Bits[K Key] struct {
		b []uint64
	}
)

func MakeBits[K Key](k ...K) Bits[K] {
	var s Bits[K]

	for _, k := range k {
		s.Set(k)
	}

	return s
}

func (s Bits[K]) Copy() Bits[K] {
	return Bits[K]{b: append([]uint64(nil), s.b...)}
}

func (s *Bits[K]) Set(k K) {
	i, j := ij(k)

	s.grow(i)

	s.b[i] |= 1 << j
}

func (s Bits[K]) IsSet(k K) bool {
	i, j := ij(k)

	if i >= len(s.b) {
		return false
	}

	return s.b[i]&(1<<j) != 0
}

func (s Bits[K]) Empty() bool {
	for _, x := range s.b {
		if x != 0 {
			return false
		}
	}

	return true
}

func (s Bits[K]) Size() (r int) {
	for _, c := range s.b {
		r += bits.OnesCount64(c)
	}

	return r
}

func (s Bits[K]) Equal(x Bits[K]) bool {
	n := max(len(s.b), len(x.b))

	for i := 0; i < n; i++ {
		if word(s.b, i) != word(x.b, i) {
			return false
		}
	}

	return true
}

// Range calls f for each key in ascending order until f returns false.
func (s Bits[K]) Range(f func(k K) bool) {
	for i, x := range s.b {
		for x != 0 {
			j := bits.TrailingZeros64(x)
			x &^= 1 << j

			if !f(K(i*64 + j)) {
				return
			}
		}
	}
}

// AppendKeys appends keys to b in ascending order.
func (s Bits[K]) AppendKeys(b []K) []K {
	s.Range(func(k K) bool {
		b = append(b, k)

		return true
	})

	return b
}

func (s Bits[K]) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	if s.b == nil {
		return e.AppendNil(b)
	}

	b = e.AppendTag(b, tlwire.Array, -1)

	s.Range(func(k K) bool {
		b = e.AppendInt(b, int(k))

		return true
	})

	b = e.AppendBreak(b)

	return b
}

func (s *Bits[K]) grow(i int) {
	for i >= len(s.b) {
		s.b = append(s.b, 0)
	}
}

func ij[K Key](k K) (i, j int) {
	if k < 0 {
		panic(k)
	}

	p := int(k)

	return p / 64, p % 64
}

func word(b []uint64, i int) uint64 {
	if i >= len(b) {
		return 0
	}

	return b[i]
}
