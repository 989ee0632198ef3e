package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/rascal/system"
)

// RNG wraps a seeded random source. It is safe for concurrent use.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewSource(r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// RandomSystem places n atoms uniformly in an infinite cube of side box,
// drawing species from the given list.
func (r *RNG) RandomSystem(n int, box float64, species []int) *system.SimpleSystem {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := system.NewSimpleSystem(system.InfiniteCell())
	for range n {
		pos := system.Vector3{r.rand.Float64() * box, r.rand.Float64() * box, r.rand.Float64() * box}
		s.AddAtom(species[r.rand.Intn(len(species))], pos)
	}
	return s
}

// RandomSystems returns count random systems.
func (r *RNG) RandomSystems(count, n int, box float64, species []int) []system.System {
	out := make([]system.System, count)
	for i := range out {
		out[i] = r.RandomSystem(n, box, species)
	}
	return out
}
