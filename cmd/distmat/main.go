// Command distmat benchmarks the distmat kernels and the prime finder.
//
// Typical usage:
//
//	distmat cityblock --samples 12000 --features 3 --check
//	distmat edm --samples 4000 --features 64 --out edm.dmx --compression zstd
//	distmat primes --lo 100000 --hi 1000000 --top 10
//	distmat info
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := makeDistmatCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
