// Package testutil provides testing utilities for distmat.
//
// It is intended for tests, benchmarks and the CLI self-check only.
//
// # Random Inputs
//
//	rng := testutil.NewRNG(42)
//	x := rng.UniformMatrix(2000, 50) // row-major, values in [0, 1)
//
// # Reference Results
//
//	want := testutil.NaiveCityBlock(x, x, 2000, 2000, 50)
//	diff := testutil.MaxAbsDiff(got, want)
package testutil
