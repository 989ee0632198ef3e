package system

import "math"

// Vector3 is a cartesian vector in ångström.
type Vector3 [3]float64

// Add returns v + o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Scale returns s*v.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{s * v[0], s * v[1], s * v[2]}
}

// Dot returns the scalar product.
func (v Vector3) Dot(o Vector3) float64 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// Norm2 returns the squared euclidean norm.
func (v Vector3) Norm2() float64 { return v.Dot(v) }

// Norm returns the euclidean norm.
func (v Vector3) Norm() float64 { return math.Sqrt(v.Norm2()) }

// Sum returns x + y + z.
func (v Vector3) Sum() float64 { return v[0] + v[1] + v[2] }
