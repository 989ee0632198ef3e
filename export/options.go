package export

import "github.com/apache/arrow-go/v18/arrow/memory"

type options struct {
	mem memory.Allocator
}

// Option configures Arrow conversions.
type Option func(*options)

// WithAllocator sets the Arrow memory allocator (default memory.DefaultAllocator).
func WithAllocator(mem memory.Allocator) Option {
	return func(o *options) {
		if mem != nil {
			o.mem = mem
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{mem: memory.DefaultAllocator}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}
