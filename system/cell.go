package system

import (
	"errors"
	"math"
)

// ErrSingularCell is returned for cell matrices without an inverse.
var ErrSingularCell = errors.New("system: cell matrix is singular")

// UnitCell is a periodic simulation box. Rows of the matrix are the three
// lattice vectors. The zero value is an infinite (non periodic) cell.
type UnitCell struct {
	matrix   [3]Vector3
	inverse  [3]Vector3
	periodic bool
}

// InfiniteCell returns a cell without periodic boundary conditions.
func InfiniteCell() UnitCell { return UnitCell{} }

// CubicCell returns a cubic cell with side length a.
func CubicCell(a float64) (UnitCell, error) {
	return NewCell([3]Vector3{{a, 0, 0}, {0, a, 0}, {0, 0, a}})
}

// NewCell builds a periodic cell from three lattice vectors. An all-zero
// matrix yields an infinite cell.
func NewCell(vectors [3]Vector3) (UnitCell, error) {
	if vectors == ([3]Vector3{}) {
		return InfiniteCell(), nil
	}

	a, b, c := vectors[0], vectors[1], vectors[2]
	det := a[0]*(b[1]*c[2]-b[2]*c[1]) - a[1]*(b[0]*c[2]-b[2]*c[0]) + a[2]*(b[0]*c[1]-b[1]*c[0])
	if math.Abs(det) < 1e-12 {
		return UnitCell{}, ErrSingularCell
	}

	inv := [3]Vector3{
		{(b[1]*c[2] - b[2]*c[1]) / det, (a[2]*c[1] - a[1]*c[2]) / det, (a[1]*b[2] - a[2]*b[1]) / det},
		{(b[2]*c[0] - b[0]*c[2]) / det, (a[0]*c[2] - a[2]*c[0]) / det, (a[2]*b[0] - a[0]*b[2]) / det},
		{(b[0]*c[1] - b[1]*c[0]) / det, (a[1]*c[0] - a[0]*c[1]) / det, (a[0]*b[1] - a[1]*b[0]) / det},
	}

	return UnitCell{matrix: vectors, inverse: inv, periodic: true}, nil
}

// IsInfinite reports whether the cell has no periodic boundaries.
func (c UnitCell) IsInfinite() bool { return !c.periodic }

// Matrix returns the lattice vectors as rows.
func (c UnitCell) Matrix() [3]Vector3 { return c.matrix }

// fractional converts cartesian v to fractional coordinates (v · H⁻¹ with
// lattice vectors as rows of H).
func (c UnitCell) fractional(v Vector3) Vector3 {
	var f Vector3
	for j := 0; j < 3; j++ {
		f[j] = v[0]*c.inverse[0][j] + v[1]*c.inverse[1][j] + v[2]*c.inverse[2][j]
	}
	return f
}

func (c UnitCell) cartesian(f Vector3) Vector3 {
	return c.matrix[0].Scale(f[0]).Add(c.matrix[1].Scale(f[1])).Add(c.matrix[2].Scale(f[2]))
}

// MinimumImage wraps a displacement vector to its shortest periodic image.
// Infinite cells return the vector unchanged.
func (c UnitCell) MinimumImage(v Vector3) Vector3 {
	if !c.periodic {
		return v
	}
	f := c.fractional(v)
	for i := range f {
		f[i] -= math.Round(f[i])
	}
	return c.cartesian(f)
}
