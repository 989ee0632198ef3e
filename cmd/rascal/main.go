// Command rascal computes atomistic descriptors from XYZ files.
//
//	rascal calculators
//	rascal compute --calculator sorted_distances --params '{"cutoff":1.5,"max_neighbors":3}' \
//	    --format parquet --output water.parquet water.xyz
//	rascal inspect water.parquet
//	rascal archive list
//
// Configuration is read from RASCAL_* environment variables, optionally
// loaded from a .env file.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
