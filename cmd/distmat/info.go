package main

import (
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/hupe1980/distmat/internal/simd"
)

func makeInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the detected CPU features and the kernel family chosen for them.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			feat := simd.Detected()

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"feature", "value"})
			table.AppendBulk([][]string{
				{"os/arch", feat.GOOS + "/" + feat.GOARCH},
				{"detected isa", feat.Active.String()},
				{"kernel family", feat.Kernel + " (portable Go)"},
				{"overridden (" + simd.EnvOverride + ")", strconv.FormatBool(feat.Overridden)},
				{"asimd", strconv.FormatBool(feat.ASIMD)},
				{"sve2", strconv.FormatBool(feat.SVE2)},
				{"avx2", strconv.FormatBool(feat.AVX2)},
				{"avx512", strconv.FormatBool(feat.AVX512)},
			})
			table.Render()
		},
	}
}
