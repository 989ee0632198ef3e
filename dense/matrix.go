package dense

import (
	"fmt"
	"strings"
)

// Matrix is a row-major matrix of float64 values.
type Matrix struct {
	rows, cols int
	data       []float64 // len == rows*cols
}

// New creates a rows×cols matrix filled with zeros.
// It panics if either dimension is negative.
func New(rows, cols int) *Matrix {
	m := &Matrix{}
	m.Reset(rows, cols)
	return m
}

// FromRows builds a matrix by copying the given rows. All rows must have the
// same length.
func FromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 {
		return New(0, 0), nil
	}
	cols := len(rows[0])
	m := New(len(rows), cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("dense: row %d has %d columns, expected %d", i, len(row), cols)
		}
		copy(m.Row(i), row)
	}
	return m, nil
}

// Reset reshapes the matrix to rows×cols and zeroes every element. The backing
// storage is reused when it is large enough.
func (m *Matrix) Reset(rows, cols int) {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("dense: invalid shape (%d, %d)", rows, cols))
	}
	n := rows * cols
	if cap(m.data) >= n {
		m.data = m.data[:n]
		clear(m.data)
	} else {
		m.data = make([]float64, n)
	}
	m.rows, m.cols = rows, cols
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Shape returns (rows, cols).
func (m *Matrix) Shape() (int, int) { return m.rows, m.cols }

// At returns the element at (i, j). It panics when out of bounds.
func (m *Matrix) At(i, j int) float64 {
	return m.data[m.offset(i, j)]
}

// Set stores v at (i, j). It panics when out of bounds.
func (m *Matrix) Set(i, j int, v float64) {
	m.data[m.offset(i, j)] = v
}

// Row returns row i as a view into the matrix storage. Writes to the returned
// slice are visible in the matrix.
func (m *Matrix) Row(i int) []float64 {
	if i < 0 || i >= m.rows {
		panic(fmt.Sprintf("dense: row %d out of range [0, %d)", i, m.rows))
	}
	start := i * m.cols
	return m.data[start : start+m.cols : start+m.cols]
}

// Column returns a copy of column j.
func (m *Matrix) Column(j int) []float64 {
	if j < 0 || j >= m.cols {
		panic(fmt.Sprintf("dense: column %d out of range [0, %d)", j, m.cols))
	}
	out := make([]float64, m.rows)
	for i := range out {
		out[i] = m.data[i*m.cols+j]
	}
	return out
}

// Data returns the flat row-major storage.
func (m *Matrix) Data() []float64 { return m.data }

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	data := make([]float64, len(m.data))
	copy(data, m.data)
	return &Matrix{rows: m.rows, cols: m.cols, data: data}
}

// Equal reports whether both matrices have the same shape and elements.
func (m *Matrix) Equal(other *Matrix) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for i, v := range m.data {
		if other.data[i] != v {
			return false
		}
	}
	return true
}

func (m *Matrix) offset(i, j int) int {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("dense: index (%d, %d) out of range for shape (%d, %d)", i, j, m.rows, m.cols))
	}
	return i*m.cols + j
}

// String implements fmt.Stringer.
func (m *Matrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		sb.WriteByte('[')
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%g", m.data[i*m.cols+j])
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}
