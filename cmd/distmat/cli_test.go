package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/distmat/codec"
	"github.com/hupe1980/distmat/internal/simd"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := makeDistmatCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

func TestCityBlockCheck(t *testing.T) {
	out, _, err := run(t, "cityblock", "--samples", "50", "--features", "3", "--check")
	require.NoError(t, err)
	assert.Contains(t, out, "cityblock: 50 x 3 -> 50 x 50")
	assert.Contains(t, out, "kernels selected for isa")
	assert.Contains(t, out, "max |diff| vs naive:")
}

func TestSquareCityBlockReportsSequential(t *testing.T) {
	out, _, err := run(t, "cityblock", "--samples", "8", "--square", "--json")
	require.NoError(t, err)

	var r matrixReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, simd.FamilySequential, r.Kernel)
}

func TestSquareMatchesRectangular(t *testing.T) {
	for _, name := range []string{"cityblock", "edm"} {
		t.Run(name, func(t *testing.T) {
			_, _, err := run(t, name, "--samples", "20", "--features", "5", "--square", "--check")
			require.NoError(t, err)
		})
	}
}

func TestEDMJSONReport(t *testing.T) {
	out, _, err := run(t, "edm", "--samples", "30", "--features", "4", "--workers", "2", "--check", "--json")
	require.NoError(t, err)

	var r matrixReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "sqeuclidean", r.Metric)
	assert.Equal(t, 30, r.Samples)
	assert.Equal(t, 2, r.Workers)
	assert.Contains(t, []string{simd.FamilySequential, simd.FamilyUnrolled}, r.Kernel)
	require.NotNil(t, r.MaxAbsDiff)
	assert.LessOrEqual(t, *r.MaxAbsDiff, 1e-9)
}

func TestWriteOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.dmx")

	out, _, err := run(t, "cityblock", "--samples", "16", "--features", "2", "--out", path, "--compression", "lz4")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	m, err := codec.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 16, m.Rows)
	assert.Equal(t, 16, m.Cols)
	for i := range 16 {
		assert.Zero(t, m.At(i, i))
	}
}

func TestMetricsDump(t *testing.T) {
	_, stderr, err := run(t, "cityblock", "--samples", "10", "--metrics")
	require.NoError(t, err)
	assert.Contains(t, stderr, `distmat_cells_total{metric="cityblock"} 100`)
}

func TestDebugLogging(t *testing.T) {
	_, stderr, err := run(t, "cityblock", "--samples", "10", "--log-level", "debug", "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"msg":"distance matrix computed"`)
}

func TestPrimes(t *testing.T) {
	out, _, err := run(t, "primes", "--lo", "1", "--hi", "100", "--top", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "25 primes in [1, 100]")
	assert.Contains(t, out, "97")
	assert.Contains(t, out, "89")
	assert.Contains(t, out, "83")
}

func TestInfo(t *testing.T) {
	out, _, err := run(t, "info")
	require.NoError(t, err)
	assert.Contains(t, out, "detected isa")
	assert.Contains(t, out, "kernel family")
	assert.Contains(t, out, "DISTMAT_SIMD")
}

func TestWorkersFromEnv(t *testing.T) {
	t.Setenv(envWorkers, "3")
	out, _, err := run(t, "cityblock", "--samples", "8", "--json")
	require.NoError(t, err)

	var r matrixReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, 3, r.Workers)

	t.Setenv(envWorkers, "lots")
	_, _, err = run(t, "cityblock", "--samples", "8")
	require.ErrorContains(t, err, envWorkers)
}

func TestBadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"log level", []string{"info", "--log-level", "loud"}, "--log-level"},
		{"log format", []string{"info", "--log-format", "xml"}, "--log-format"},
		{"compression", []string{"cityblock", "--compression", "gzip"}, "gzip"},
		{"negative samples", []string{"cityblock", "--samples", "-1"}, "--samples"},
		{"negative workers", []string{"cityblock", "--workers", "-2"}, "--workers"},
		{"inverted range", []string{"primes", "--lo", "10", "--hi", "5"}, "--lo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			require.ErrorContains(t, err, tt.want)
		})
	}
}
