package system

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rascal/internal/invariant"
)

func water(t *testing.T) *SimpleSystem {
	t.Helper()
	s, err := New(
		[]int{123456, 1, 1},
		[]Vector3{{0, 0, 0}, {0, 0.75545, -0.58895}, {0, -0.75545, -0.58895}},
		InfiniteCell(),
	)
	require.NoError(t, err)
	return s
}

func TestSimpleSystemNeighbors(t *testing.T) {
	s := water(t)
	s.ComputeNeighbors(1.5)

	pairs := s.Pairs()
	require.Len(t, pairs, 2)
	for _, p := range pairs {
		assert.Less(t, p.First, p.Second)
		assert.Equal(t, 0, p.First)
		assert.InDelta(t, 0.957897074324794, p.Distance(), 1e-12)
	}

	assert.Len(t, s.PairsContaining(0), 2)
	assert.Len(t, s.PairsContaining(1), 1)

	// H-H is ~1.511
	s.ComputeNeighbors(1.6)
	assert.Len(t, s.Pairs(), 3)
}

func TestNegativeSpecies(t *testing.T) {
	_, err := New([]int{-1, 1}, []Vector3{{0, 0, 0}, {0, 0, 1}}, InfiniteCell())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative species -1")

	s := NewSimpleSystem(InfiniteCell())
	defer func() {
		_, ok := recover().(*invariant.Violation)
		assert.True(t, ok)
		assert.Equal(t, 0, s.Size())
	}()
	s.AddAtom(-3, Vector3{})
	t.Fatal("expected a panic")
}

func TestSimpleSystemRequiresNeighbors(t *testing.T) {
	s := water(t)
	assert.Panics(t, func() { s.Pairs() })
}

func TestNewLengthMismatch(t *testing.T) {
	_, err := New([]int{1}, nil, InfiniteCell())
	require.Error(t, err)
}

func TestMinimumImage(t *testing.T) {
	cell, err := CubicCell(10)
	require.NoError(t, err)
	assert.False(t, cell.IsInfinite())

	s, err := New([]int{1, 1}, []Vector3{{0.5, 0, 0}, {9.5, 0, 0}}, cell)
	require.NoError(t, err)
	s.ComputeNeighbors(2)

	pairs := s.Pairs()
	require.Len(t, pairs, 1)
	assert.InDelta(t, -1.0, pairs[0].Vector[0], 1e-12)
	assert.InDelta(t, 1.0, pairs[0].Distance(), 1e-12)
}

func TestSingularCell(t *testing.T) {
	_, err := NewCell([3]Vector3{{1, 0, 0}, {2, 0, 0}, {0, 0, 1}})
	require.ErrorIs(t, err, ErrSingularCell)

	cell, err := NewCell([3]Vector3{})
	require.NoError(t, err)
	assert.True(t, cell.IsInfinite())
}

func TestFromSystemCopies(t *testing.T) {
	s := water(t)
	native := FromSystem(s)
	native.Positions()[0] = Vector3{1, 1, 1}
	assert.Equal(t, Vector3{0, 0, 0}, s.Positions()[0])
	assert.Equal(t, s.Species(), native.Species())
	assert.Len(t, Natives([]System{s, native}), 2)
}

func TestReadXYZ(t *testing.T) {
	input := `3
water molecule
O 0 0 0
H 0 0.75545 -0.58895
H 0 -0.75545 -0.58895
2
Lattice="4 0 0 0 4 0 0 0 4" Properties=species:S:1:pos:R:3
C 0 0 0
6 2 2 2
`
	frames, err := ReadXYZ(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, frames, 2)

	assert.Equal(t, []int{8, 1, 1}, frames[0].Species())
	assert.True(t, frames[0].Cell().IsInfinite())

	assert.Equal(t, []int{6, 6}, frames[1].Species())
	assert.False(t, frames[1].Cell().IsInfinite())
	assert.Equal(t, 4.0, frames[1].Cell().Matrix()[2][2])
	assert.Equal(t, Vector3{2, 2, 2}, frames[1].Positions()[1])
}

func TestReadXYZErrors(t *testing.T) {
	cases := map[string]string{
		"count":     "x\n",
		"truncated": "2\ncomment\nH 0 0 0\n",
		"element":   "1\n\nXx 0 0 0\n",
		"coord":     "1\n\nH 0 a 0\n",
		"lattice":   "1\nLattice=\"1 0 0\"\nH 0 0 0\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadXYZ(strings.NewReader(input))
			require.Error(t, err)
		})
	}
}

func TestVector3(t *testing.T) {
	v := Vector3{3, 4, 0}
	assert.Equal(t, 5.0, v.Norm())
	assert.Equal(t, 7.0, v.Sum())
	assert.Equal(t, Vector3{6, 8, 0}, v.Add(v))
	assert.True(t, math.Abs(v.Sub(v).Norm()) == 0)
}
