package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBits(t *testing.T) {
	var s Bits[int]

	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Size())

	s.Set(3)
	s.Set(64)
	s.Set(3)
	s.Set(130)

	assert.False(t, s.Empty())
	assert.Equal(t, 3, s.Size())
	assert.True(t, s.IsSet(64))
	assert.False(t, s.IsSet(65))
	assert.False(t, s.IsSet(1000))

	assert.Equal(t, []int{3, 64, 130}, s.AppendKeys(nil))
}

func TestBitsRangeStop(t *testing.T) {
	s := MakeBits(1, 2, 3, 70)

	var got []int

	s.Range(func(k int) bool {
		got = append(got, k)

		return len(got) < 2
	})

	assert.Equal(t, []int{1, 2}, got)
}

func TestBitsCopyEqual(t *testing.T) {
	s := MakeBits(5, 9)
	c := s.Copy()

	assert.True(t, s.Equal(c))

	c.Set(200)

	assert.False(t, s.Equal(c))
	assert.False(t, s.IsSet(200))

	// trailing zero words don't matter
	var z Bits[int]
	z.Set(300)
	z = MakeBits[int]()

	assert.True(t, z.Equal(Bits[int]{b: make([]uint64, 5)}))
}
