package persistence

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/hupe1980/rascal/dense"
	"github.com/hupe1980/rascal/descriptor"
)

const (
	tagUint  = 0
	tagFloat = 1
)

// bodyWriter appends the little-endian body encoding to buf.
type bodyWriter struct {
	buf []byte
}

func (w *bodyWriter) uint8(v uint8)   { w.buf = append(w.buf, v) }
func (w *bodyWriter) uint32(v uint32) { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }
func (w *bodyWriter) uint64(v uint64) { w.buf = binary.LittleEndian.AppendUint64(w.buf, v) }

func (w *bodyWriter) string(s string) {
	w.uint32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *bodyWriter) indexes(x *descriptor.Indexes) {
	names := x.Names()
	w.uint32(uint32(len(names)))
	for _, n := range names {
		w.string(n)
	}
	w.uint64(uint64(x.Count()))
	for _, tuple := range x.All() {
		for _, v := range tuple {
			if v.IsFloat() {
				w.uint8(tagFloat)
				w.uint64(math.Float64bits(v.Float64()))
			} else {
				w.uint8(tagUint)
				w.uint64(v.Uint64())
			}
		}
	}
}

func (w *bodyWriter) matrix(m *dense.Matrix) {
	w.uint64(uint64(m.Rows()))
	w.uint64(uint64(m.Cols()))
	for _, v := range m.Data() {
		w.uint64(math.Float64bits(v))
	}
}

func encodeBody(d *descriptor.Descriptor) []byte {
	w := &bodyWriter{}
	w.indexes(d.Samples())
	w.indexes(d.Features())
	w.matrix(d.Values())
	if d.HasGradients() {
		w.indexes(d.GradientSamples())
		w.matrix(d.Gradients())
	}
	return w.buf
}

// bodyReader decodes the body. The first error sticks and turns every later
// read into a zero value.
type bodyReader struct {
	buf []byte
	off int
	err error
}

func (r *bodyReader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %s at offset %d", ErrCorrupt, fmt.Sprintf(format, args...), r.off)
	}
}

func (r *bodyReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.buf)-r.off < n {
		r.fail("need %d bytes, %d left", n, len(r.buf)-r.off)
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *bodyReader) uint8() uint8 {
	if b := r.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *bodyReader) uint32() uint32 {
	if b := r.take(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (r *bodyReader) uint64() uint64 {
	if b := r.take(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

func (r *bodyReader) string() string {
	return string(r.take(int(r.uint32())))
}

// count reads a length and checks that at least count*width bytes remain.
func (r *bodyReader) count(width int) int {
	n := r.uint64()
	if r.err != nil {
		return 0
	}
	if width > 0 && n > uint64(len(r.buf)-r.off)/uint64(width) {
		r.fail("count %d exceeds the remaining body", n)
		return 0
	}
	return int(n)
}

func (r *bodyReader) indexes() *descriptor.Indexes {
	n := int(r.uint32())
	if r.err == nil && n > (len(r.buf)-r.off)/4 {
		r.fail("%d names exceed the remaining body", n)
	}
	if r.err != nil {
		return nil
	}
	names := make([]string, n)
	for i := range names {
		names[i] = r.string()
	}
	if r.err != nil {
		return nil
	}

	b := descriptor.NewIndexesBuilder(names...)
	count := r.count(9 * len(names))
	tuple := make([]descriptor.IndexValue, len(names))
	for row := 0; row < count && r.err == nil; row++ {
		for i := range tuple {
			tag, bits := r.uint8(), r.uint64()
			switch tag {
			case tagUint:
				tuple[i] = descriptor.Uint(bits)
			case tagFloat:
				tuple[i] = descriptor.Float(math.Float64frombits(bits))
			default:
				r.fail("unknown value tag %d", tag)
			}
		}
		if r.err != nil {
			break
		}
		if b.Contains(tuple) {
			r.fail("duplicate index tuple in row %d", row)
			break
		}
		b.Add(tuple...)
	}
	if r.err != nil {
		return nil
	}
	return b.Finish()
}

func (r *bodyReader) matrix() *dense.Matrix {
	rows, cols := r.uint64(), r.uint64()
	if r.err != nil {
		return nil
	}
	if rows > math.MaxInt32 || cols > math.MaxInt32 || (rows > 0 && cols > uint64(len(r.buf)-r.off)/8/rows) {
		r.fail("matrix %dx%d exceeds the remaining body", rows, cols)
		return nil
	}

	m := dense.New(int(rows), int(cols))
	data := m.Data()
	for i := range data {
		data[i] = math.Float64frombits(r.uint64())
	}
	return m
}

func decodeBody(body []byte, gradients bool) (*descriptor.Descriptor, error) {
	r := &bodyReader{buf: body}
	samples := r.indexes()
	features := r.indexes()
	values := r.matrix()

	var (
		gradientSamples *descriptor.Indexes
		grads           *dense.Matrix
	)
	if gradients {
		gradientSamples = r.indexes()
		grads = r.matrix()
	}
	if r.err != nil {
		return nil, r.err
	}
	if r.off != len(body) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(body)-r.off)
	}

	d, err := descriptor.FromParts(samples, features, values, gradientSamples, grads)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return d, nil
}
