package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/hupe1980/distmat"
	"github.com/hupe1980/distmat/codec"
	"github.com/hupe1980/distmat/distance"
	"github.com/hupe1980/distmat/internal/simd"
	"github.com/hupe1980/distmat/testutil"
)

type matrixConfig struct {
	samples     int
	features    int
	seed        int64
	square      bool
	check       bool
	out         string
	compression codec.Compression
	json        bool
}

func defaultMatrixConfig() matrixConfig {
	return matrixConfig{
		samples:     1000,
		features:    3,
		seed:        42,
		compression: codec.CompressionZSTD,
	}
}

type matrixReport struct {
	Metric         string   `json:"metric"`
	Samples        int      `json:"samples"`
	Features       int      `json:"features"`
	Seed           int64    `json:"seed"`
	Workers        int      `json:"workers"`
	ISA            string   `json:"isa"`
	Kernel         string   `json:"kernel"`
	Square         bool     `json:"square"`
	ElapsedSeconds float64  `json:"elapsed_seconds"`
	CellsPerSecond float64  `json:"cells_per_second"`
	MaxAbsDiff     *float64 `json:"max_abs_diff,omitempty"`
	Out            string   `json:"out,omitempty"`
	OutBytes       int64    `json:"out_bytes,omitempty"`
	Compression    string   `json:"compression,omitempty"`
}

func makeMatrixCommand(c *cliContext, name, desc string) *cobra.Command {
	metric := distance.MetricCityBlock
	if name == "edm" {
		metric = distance.MetricSquaredEuclidean
	}

	config := defaultMatrixConfig()
	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Time the %s distance matrix of random input against itself.", desc),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := runMatrix(cmd.Context(), c, metric, config)
			if err != nil {
				return err
			}
			return printMatrixReport(cmd.OutOrStdout(), r, config.json)
		},
	}

	f := cmd.Flags()
	f.IntVar(&config.samples, "samples", config.samples, usage("samples"))
	f.IntVar(&config.features, "features", config.features, usage("features"))
	f.Int64Var(&config.seed, "seed", config.seed, usage("seed"))
	f.BoolVar(&config.square, "square", config.square, usage("square"))
	f.BoolVar(&config.check, "check", config.check, usage("check"))
	f.StringVar(&config.out, "out", config.out, usage("out"))
	f.Var(compressionValue{&config.compression}, "compression", usage("compression"))
	f.BoolVar(&config.json, "json", config.json, usage("json"))

	return cmd
}

func runMatrix(ctx context.Context, c *cliContext, metric distance.Metric, config matrixConfig) (*matrixReport, error) {
	if config.samples < 0 || config.features < 0 {
		return nil, fmt.Errorf("--samples and --features must be >= 0, got %d and %d", config.samples, config.features)
	}

	rng := testutil.NewRNG(config.seed)
	data := rng.UniformMatrix(config.samples, config.features)

	x, err := distmat.NewMatrix(config.samples, config.features, data)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	m, err := computeMatrix(ctx, c, metric, x, config.square)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	workers := c.workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	r := &matrixReport{
		Metric:         metric.String(),
		Samples:        config.samples,
		Features:       config.features,
		Seed:           config.seed,
		Workers:        workers,
		ISA:            simd.ActiveISA().String(),
		Kernel:         kernelFamily(metric, config.square),
		Square:         config.square,
		ElapsedSeconds: elapsed.Seconds(),
	}
	if s := elapsed.Seconds(); s > 0 {
		r.CellsPerSecond = float64(len(m.Data)) / s
	}

	if config.check {
		diff, err := checkMatrix(metric, x, m)
		if err != nil {
			return nil, err
		}
		r.MaxAbsDiff = &diff
	}

	if config.out != "" {
		n, err := writeMatrix(config.out, m, config.compression)
		if err != nil {
			return nil, err
		}
		r.Out, r.OutBytes, r.Compression = config.out, n, config.compression.String()
	}

	return r, nil
}

func computeMatrix(ctx context.Context, c *cliContext, metric distance.Metric, x distmat.Matrix, square bool) (distmat.Matrix, error) {
	opts := c.options()
	if !square {
		return distmat.PairwiseMatrix(ctx, metric, x, x, opts...)
	}

	out := make([]float64, x.Rows*x.Rows)
	var err error
	if metric == distance.MetricCityBlock {
		err = distmat.CityBlock(x.Data, x.Data, out, x.Rows, x.Cols, opts...)
	} else {
		err = distmat.Pairwise(ctx, metric, x, x, out, append(opts, distmat.WithSquareOutput())...)
	}
	if err != nil {
		return distmat.Matrix{}, err
	}
	return distmat.Matrix{Rows: x.Rows, Cols: x.Rows, Data: out}, nil
}

// kernelFamily reports which kernels computeMatrix runs. The raw square
// city-block entry point always sums sequentially.
func kernelFamily(metric distance.Metric, square bool) string {
	if square && metric == distance.MetricCityBlock {
		return simd.FamilySequential
	}
	return simd.KernelFamily()
}

// checkMatrix compares m against the naive reference. Summation order
// differs between the two, so they agree only up to rounding.
func checkMatrix(metric distance.Metric, x, m distmat.Matrix) (float64, error) {
	var want []float64
	switch metric {
	case distance.MetricCityBlock:
		want = testutil.NaiveCityBlock(x.Data, x.Data, x.Rows, x.Rows, x.Cols)
	default:
		want = testutil.NaiveSquaredEuclidean(x.Data, x.Data, x.Rows, x.Rows, x.Cols)
	}

	diff := testutil.MaxAbsDiff(m.Data, want)
	if tol := 1e-9 * float64(max(1, x.Cols)); diff > tol {
		return diff, fmt.Errorf("check failed: max |diff| %g exceeds %g", diff, tol)
	}
	return diff, nil
}

func writeMatrix(path string, m distmat.Matrix, comp codec.Compression) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	w := bufio.NewWriter(f)
	if err := codec.Encode(w, m, comp); err != nil {
		_ = f.Close()
		return 0, err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, err
	}

	st, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return st.Size(), nil
}

func printMatrixReport(w io.Writer, r *matrixReport, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	fmt.Fprintf(w, "%s: %d x %d -> %d x %d in %.6fs (workers %d, %s kernels selected for isa %s)\n",
		r.Metric, r.Samples, r.Features, r.Samples, r.Samples, r.ElapsedSeconds, r.Workers, r.Kernel, r.ISA)
	if r.MaxAbsDiff != nil {
		fmt.Fprintf(w, "max |diff| vs naive: %g\n", *r.MaxAbsDiff)
	}
	if r.Out != "" {
		fmt.Fprintf(w, "wrote %s (%d bytes, %s)\n", r.Out, r.OutBytes, r.Compression)
	}
	return nil
}
