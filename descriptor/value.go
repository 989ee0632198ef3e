package descriptor

import (
	"cmp"
	"math"
	"strconv"

	"github.com/hupe1980/rascal/internal/invariant"
)

// IndexValue is one cell of an index tuple. It is tagged either as an
// unsigned integer or as a float64.
//
// Equality and ordering are numeric across tags: Uint(2) equals Float(2). This
// lets flat float64 selections address integer sample sets.
type IndexValue struct {
	u       uint64
	f       float64
	isFloat bool
}

// Uint returns an integer tagged value.
func Uint(v uint64) IndexValue { return IndexValue{u: v} }

// Int returns an integer tagged value. Negative input is an invariant
// violation.
func Int(v int) IndexValue {
	invariant.Check(v >= 0, "negative index value %d", v)
	return IndexValue{u: uint64(v)}
}

// Float returns a float tagged value.
func Float(v float64) IndexValue { return IndexValue{f: v, isFloat: true} }

// Ints converts a list of integers into index values.
func Ints(values ...int) []IndexValue {
	out := make([]IndexValue, len(values))
	for i, v := range values {
		out[i] = Int(v)
	}
	return out
}

// IsFloat reports whether v is float tagged.
func (v IndexValue) IsFloat() bool { return v.isFloat }

// Float64 returns v as a float64.
func (v IndexValue) Float64() float64 {
	if v.isFloat {
		return v.f
	}
	return float64(v.u)
}

// Usize returns v as an int. It panics if v is a float that is not a
// non-negative integer.
func (v IndexValue) Usize() int {
	u, ok := v.integral()
	if !ok || u > math.MaxInt {
		invariant.Fail("index value %s is not a valid integer", v)
	}
	return int(u)
}

// Uint64 returns v as a uint64. It panics if v is a float that is not a
// non-negative integer.
func (v IndexValue) Uint64() uint64 {
	u, ok := v.integral()
	if !ok {
		invariant.Fail("index value %s is not a valid integer", v)
	}
	return u
}

// integral returns the unsigned value when v holds a non-negative integer.
func (v IndexValue) integral() (uint64, bool) {
	if !v.isFloat {
		return v.u, true
	}
	if v.f < 0 || v.f >= 1<<64 || v.f != math.Trunc(v.f) {
		return 0, false
	}
	return uint64(v.f), true
}

// Equal reports numeric equality.
func (v IndexValue) Equal(o IndexValue) bool { return v.key() == o.key() }

// Compare orders values numerically. NaN sorts before every other value.
func (v IndexValue) Compare(o IndexValue) int {
	if !v.isFloat && !o.isFloat {
		return cmp.Compare(v.u, o.u)
	}
	if vu, ok := v.integral(); ok {
		if ou, ok := o.integral(); ok {
			return cmp.Compare(vu, ou)
		}
	}
	return cmp.Compare(v.Float64(), o.Float64())
}

// String implements fmt.Stringer.
func (v IndexValue) String() string {
	if v.isFloat {
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	}
	return strconv.FormatUint(v.u, 10)
}

type valueKey struct {
	bits       uint64
	fractional bool
}

// key is shared by numerically equal values of both tags. Negative zero
// is integral, so it maps to the same key as zero.
func (v IndexValue) key() valueKey {
	if u, ok := v.integral(); ok {
		return valueKey{bits: u}
	}
	return valueKey{bits: math.Float64bits(v.f), fractional: true}
}
