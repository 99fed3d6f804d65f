package main

import (
	"github.com/spf13/cobra"
)

func makeDistmatCommand() *cobra.Command {
	c := &cliContext{
		logLevel:  "warn",
		logFormat: "text",
	}

	command := &cobra.Command{
		Use:   "distmat [command] (flags)",
		Short: "distmat computes pairwise distance matrices and finds primes.",
		Long: `distmat runs the distance matrix kernels on random input and reports how long
they take. It can verify the result against a naive reference, export the
matrix in a compact binary format, and find the primes in a range.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return c.finish(cmd)
		},
	}

	pf := command.PersistentFlags()
	pf.IntVar(&c.workers, "workers", c.workers, usage("workers"))
	pf.StringVar(&c.logLevel, "log-level", c.logLevel, usage("log-level"))
	pf.StringVar(&c.logFormat, "log-format", c.logFormat, usage("log-format"))
	pf.BoolVar(&c.metrics, "metrics", c.metrics, usage("metrics"))

	command.AddCommand(makeMatrixCommand(c, "cityblock", "city-block (L1)"))
	command.AddCommand(makeMatrixCommand(c, "edm", "squared Euclidean"))
	command.AddCommand(makePrimesCommand(c))
	command.AddCommand(makeInfoCommand())

	return command
}
