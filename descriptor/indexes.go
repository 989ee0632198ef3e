package descriptor

import (
	"encoding/binary"
	"iter"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/hupe1980/rascal/internal/invariant"
)

// Indexes is an immutable ordered set of tuples sharing the same column names.
type Indexes struct {
	names  []string
	values []IndexValue // row-major, len == count*len(names)

	once      sync.Once
	positions map[string]int
}

// EmptyIndexes returns a set with the given names and no rows.
func EmptyIndexes(names ...string) *Indexes {
	return NewIndexesBuilder(names...).Finish()
}

// Names returns the column names.
func (x *Indexes) Names() []string { return slices.Clone(x.names) }

// Size returns the arity of every tuple.
func (x *Indexes) Size() int { return len(x.names) }

// Count returns the number of tuples.
func (x *Indexes) Count() int {
	if len(x.names) == 0 {
		return 0
	}
	return len(x.values) / len(x.names)
}

// At returns tuple i. The returned slice must not be modified.
func (x *Indexes) At(i int) []IndexValue {
	n := len(x.names)
	return x.values[i*n : (i+1)*n : (i+1)*n]
}

// All iterates over the tuples in order.
func (x *Indexes) All() iter.Seq2[int, []IndexValue] {
	return func(yield func(int, []IndexValue) bool) {
		for i := 0; i < x.Count(); i++ {
			if !yield(i, x.At(i)) {
				return
			}
		}
	}
}

// Position returns the column of name, or -1.
func (x *Indexes) Position(name string) int {
	return slices.Index(x.names, name)
}

// Contains reports exact tuple membership.
func (x *Indexes) Contains(tuple []IndexValue) bool {
	_, ok := x.IndexOf(tuple)
	return ok
}

// IndexOf returns the row of tuple.
func (x *Indexes) IndexOf(tuple []IndexValue) (int, bool) {
	if len(tuple) != len(x.names) {
		return 0, false
	}
	x.once.Do(x.buildPositions)
	i, ok := x.positions[tupleKey(tuple)]
	return i, ok
}

// Equal reports whether both sets have the same names and tuples in the same
// order.
func (x *Indexes) Equal(o *Indexes) bool {
	if !slices.Equal(x.names, o.names) || len(x.values) != len(o.values) {
		return false
	}
	for i, v := range x.values {
		if !v.Equal(o.values[i]) {
			return false
		}
	}
	return true
}

// Flat returns the row-major tuple values as float64.
func (x *Indexes) Flat() []float64 {
	out := make([]float64, len(x.values))
	for i, v := range x.values {
		out[i] = v.Float64()
	}
	return out
}

// String renders the names and the number of tuples.
func (x *Indexes) String() string {
	return "Indexes[" + strings.Join(x.names, ", ") + "](" + strconv.Itoa(x.Count()) + ")"
}

func (x *Indexes) buildPositions() {
	x.positions = make(map[string]int, x.Count())
	for i := 0; i < x.Count(); i++ {
		x.positions[tupleKey(x.At(i))] = i
	}
}

func tupleKey(tuple []IndexValue) string {
	buf := make([]byte, 0, 9*len(tuple))
	for _, v := range tuple {
		k := v.key()
		if k.fractional {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		buf = binary.LittleEndian.AppendUint64(buf, k.bits)
	}
	return string(buf)
}

// IndexesBuilder accumulates tuples for a fixed list of names.
type IndexesBuilder struct {
	names  []string
	values []IndexValue
	seen   map[string]struct{}
}

// NewIndexesBuilder creates a builder for tuples of len(names) values.
func NewIndexesBuilder(names ...string) *IndexesBuilder {
	return &IndexesBuilder{
		names: slices.Clone(names),
		seen:  make(map[string]struct{}),
	}
}

// Size returns the arity of the builder.
func (b *IndexesBuilder) Size() int { return len(b.names) }

// Count returns the number of tuples added so far.
func (b *IndexesBuilder) Count() int { return len(b.seen) }

// Contains reports whether tuple has already been added.
func (b *IndexesBuilder) Contains(tuple []IndexValue) bool {
	_, ok := b.seen[tupleKey(tuple)]
	return ok
}

// Add appends a tuple. It panics if the arity is wrong or the tuple is
// already present.
func (b *IndexesBuilder) Add(tuple ...IndexValue) {
	invariant.Check(len(tuple) == len(b.names),
		"wrong size for index tuple: expected %d values, got %d", len(b.names), len(tuple))

	key := tupleKey(tuple)
	_, dup := b.seen[key]
	invariant.Check(!dup, "duplicate index tuple %v", tuple)

	b.seen[key] = struct{}{}
	b.values = append(b.values, tuple...)
}

// AddInts is Add for integer tuples.
func (b *IndexesBuilder) AddInts(values ...int) {
	b.Add(Ints(values...)...)
}

// Finish returns the accumulated Indexes. The builder is reset.
func (b *IndexesBuilder) Finish() *Indexes {
	x := &Indexes{names: b.names, values: b.values}
	if len(b.names) == 0 {
		x.values = nil
	}
	b.names = slices.Clone(b.names)
	b.values = nil
	b.seen = make(map[string]struct{})
	return x
}
