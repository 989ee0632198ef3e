package rascal_test

import (
	"fmt"
	"log"

	"github.com/hupe1980/rascal"
	"github.com/hupe1980/rascal/descriptor"
	"github.com/hupe1980/rascal/testutil"
)

// Example_sortedDistances computes sorted distance vectors for a water molecule.
func Example_sortedDistances() {
	registry := rascal.NewRegistry()
	calc, err := rascal.NewCalculator(registry, "sorted_distances", `{"cutoff": 1.5, "max_neighbors": 3}`)
	if err != nil {
		log.Fatal(err)
	}

	d := descriptor.New()
	if err := calc.Compute(testutil.Systems("water"), d, rascal.CalculationOptions{}); err != nil {
		log.Fatal(err)
	}

	for i := 0; i < d.Values().Rows(); i++ {
		fmt.Printf("%.4f\n", d.Values().Row(i))
	}
	// Output:
	// [0.9579 0.9579 1.5000]
	// [0.9579 1.5000 1.5000]
	// [0.9579 1.5000 1.5000]
}

// Example_partialFeatures computes only two of the three neighbor slots.
func Example_partialFeatures() {
	calc, err := rascal.SortedDistances(1.5).MaxNeighbors(3).Build()
	if err != nil {
		log.Fatal(err)
	}

	d := descriptor.New()
	opts := rascal.CalculationOptions{
		SelectedFeatures: rascal.SelectFlat([]float64{0, 2}),
	}
	if err := calc.Compute(testutil.Systems("water"), d, opts); err != nil {
		log.Fatal(err)
	}

	rows, cols := d.Values().Shape()
	fmt.Println(rows, cols)
	// Output: 3 2
}

// Example_registry lists the built-in calculators.
func Example_registry() {
	fmt.Println(rascal.NewRegistry().Names())
	// Output: [dummy_calculator sorted_distances]
}
