package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/hupe1980/distmat/primes"
)

type primesConfig struct {
	lo  uint32
	hi  uint32
	top int
}

func makePrimesCommand(c *cliContext) *cobra.Command {
	config := primesConfig{lo: 100000, hi: 1000000, top: 10}

	cmd := &cobra.Command{
		Use:   "primes",
		Short: "Find the primes in a range and print the largest ones.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if config.top < 0 {
				return fmt.Errorf("--top is %d, want >= 0", config.top)
			}
			if config.lo > config.hi {
				return fmt.Errorf("--lo %d is above --hi %d", config.lo, config.hi)
			}

			start := time.Now()
			bm, err := primes.InRange(cmd.Context(), config.lo, config.hi, c.workers)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			c.logger.DebugContext(cmd.Context(), "primes found",
				"lo", config.lo,
				"hi", config.hi,
				"count", bm.GetCardinality(),
				"elapsed", elapsed,
			)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%d primes in [%d, %d] in %.6fs\n", bm.GetCardinality(), config.lo, config.hi, elapsed.Seconds())

			top := primes.Largest(bm, config.top)
			if len(top) == 0 {
				return nil
			}

			table := tablewriter.NewWriter(w)
			table.SetHeader([]string{"rank", "prime"})
			table.SetAlignment(tablewriter.ALIGN_RIGHT)
			for rank := 1; rank <= len(top); rank++ {
				p := top[len(top)-rank]
				table.Append([]string{strconv.Itoa(rank), strconv.FormatUint(uint64(p), 10)})
			}
			table.Render()
			return nil
		},
	}

	f := cmd.Flags()
	f.Uint32Var(&config.lo, "lo", config.lo, usage("lo"))
	f.Uint32Var(&config.hi, "hi", config.hi, usage("hi"))
	f.IntVar(&config.top, "top", config.top, usage("top"))

	return cmd
}
