package testutil

import (
	"fmt"

	"github.com/hupe1980/rascal/system"
)

// WaterOxygenSpecies is the species id used for the oxygen of Water. It is
// deliberately far from any atomic number.
const WaterOxygenSpecies = 123456

// Water returns a water molecule. The O-H distance is 0.957897074324794 and
// the H-H distance ~1.511.
func Water() *system.SimpleSystem {
	return mustSystem(
		[]int{WaterOxygenSpecies, 1, 1},
		[]system.Vector3{{0, 0, 0}, {0, 0.75545, -0.58895}, {0, -0.75545, -0.58895}},
		system.InfiniteCell(),
	)
}

// Methane returns a methane molecule with C-H bonds of 1.09.
func Methane() *system.SimpleSystem {
	const a = 0.629311793 // 1.09 / sqrt(3)
	return mustSystem(
		[]int{6, 1, 1, 1, 1},
		[]system.Vector3{{0, 0, 0}, {a, a, a}, {-a, -a, a}, {-a, a, -a}, {a, -a, -a}},
		system.InfiniteCell(),
	)
}

// CH returns a periodic carbon/hydrogen cell.
func CH() *system.SimpleSystem {
	cell, err := system.CubicCell(3)
	if err != nil {
		panic(err)
	}
	return mustSystem([]int{6, 1}, []system.Vector3{{0, 0, 0}, {0, 0, 1.2}}, cell)
}

var registry = map[string]func() *system.SimpleSystem{
	"water":   Water,
	"methane": Methane,
	"CH":      CH,
}

// Systems returns the named reference systems in order. It panics on unknown
// names.
func Systems(names ...string) []system.System {
	out := make([]system.System, len(names))
	for i, name := range names {
		fn, ok := registry[name]
		if !ok {
			panic(fmt.Sprintf("testutil: unknown system %q", name))
		}
		out[i] = fn()
	}
	return out
}

func mustSystem(species []int, positions []system.Vector3, cell system.UnitCell) *system.SimpleSystem {
	s, err := system.New(species, positions, cell)
	if err != nil {
		panic(err)
	}
	return s
}
