package calculators

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/rascal/descriptor"
	"github.com/hupe1980/rascal/internal/invariant"
)

// SystemRows is the block of sample rows [Start, End) that belongs to one
// system.
type SystemRows struct {
	System int
	Start  int
	End    int
}

// SplitBySystem groups the rows of samples by their leading structure
// column. Rows of one structure must be contiguous and structures must be
// ascending; anything else is a row-accounting defect and panics.
func SplitBySystem(samples *descriptor.Indexes, systems int) []SystemRows {
	if samples.Count() == 0 {
		return nil
	}
	invariant.Check(samples.Position("structure") == 0,
		"samples must start with a structure column, got %v", samples.Names())

	var blocks []SystemRows
	current := 0
	for current < samples.Count() {
		structure := samples.At(current)[0].Usize()
		invariant.Check(structure < systems,
			"sample %d refers to structure %d, but only %d systems were given", current, structure, systems)
		if len(blocks) > 0 {
			invariant.Check(structure > blocks[len(blocks)-1].System,
				"samples of structure %d are not contiguous or not ascending", structure)
		}

		start := current
		for current < samples.Count() && samples.At(current)[0].Usize() == structure {
			current++
		}
		blocks = append(blocks, SystemRows{System: structure, Start: start, End: current})
	}

	invariant.Check(current == samples.Count(), "accounted for %d of %d samples", current, samples.Count())
	return blocks
}

// ForEachSystem runs fn for every block with at most workers concurrent
// calls. Blocks cover disjoint rows, so fn may write its rows of the
// descriptor without locking. A panic in fn is re-raised on the calling
// goroutine after every started call has returned.
func ForEachSystem(workers int, blocks []SystemRows, fn func(SystemRows)) {
	if workers <= 1 || len(blocks) <= 1 {
		for _, b := range blocks {
			fn(b)
		}
		return
	}

	var (
		g         errgroup.Group
		once      sync.Once
		recovered any
	)
	g.SetLimit(workers)

	for _, b := range blocks {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					once.Do(func() { recovered = r })
				}
			}()
			fn(b)
			return nil
		})
	}
	_ = g.Wait()

	if recovered != nil {
		panic(recovered)
	}
}
