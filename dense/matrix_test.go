package dense

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix(t *testing.T) {
	t.Run("NewIsZeroed", func(t *testing.T) {
		m := New(2, 3)
		rows, cols := m.Shape()
		assert.Equal(t, 2, rows)
		assert.Equal(t, 3, cols)
		assert.Equal(t, make([]float64, 6), m.Data())
	})

	t.Run("ZeroSized", func(t *testing.T) {
		m := New(0, 4)
		assert.Equal(t, 0, m.Rows())
		assert.Equal(t, 4, m.Cols())
		assert.Empty(t, m.Data())
	})

	t.Run("NegativeShapePanics", func(t *testing.T) {
		assert.Panics(t, func() { New(-1, 2) })
	})

	t.Run("RowIsView", func(t *testing.T) {
		m := New(2, 2)
		copy(m.Row(1), []float64{3, 4})
		assert.Equal(t, 3.0, m.At(1, 0))
		assert.Equal(t, 4.0, m.At(1, 1))
		assert.Equal(t, []float64{0, 3}, m.Column(0))
	})

	t.Run("OutOfBoundsPanics", func(t *testing.T) {
		m := New(2, 2)
		assert.Panics(t, func() { m.At(2, 0) })
		assert.Panics(t, func() { m.Set(0, -1, 1) })
		assert.Panics(t, func() { m.Row(5) })
	})

	t.Run("ResetReusesAndZeroes", func(t *testing.T) {
		m := New(3, 3)
		m.Set(2, 2, 9)
		m.Reset(2, 2)
		assert.Equal(t, []float64{0, 0, 0, 0}, m.Data())
		m.Reset(4, 5)
		assert.Len(t, m.Data(), 20)
	})

	t.Run("CloneIsIndependent", func(t *testing.T) {
		m := New(1, 2)
		c := m.Clone()
		c.Set(0, 0, 1)
		assert.Equal(t, 0.0, m.At(0, 0))
		assert.False(t, m.Equal(c))
	})

	t.Run("FromRows", func(t *testing.T) {
		m, err := FromRows([][]float64{{1, 2}, {3, 4}})
		require.NoError(t, err)
		assert.Equal(t, "[1, 2]\n[3, 4]\n", m.String())

		_, err = FromRows([][]float64{{1, 2}, {3}})
		require.Error(t, err)
	})
}
