package main

import (
	"github.com/kr/text"
	"github.com/spf13/pflag"

	"github.com/hupe1980/distmat/codec"
)

var flagUsage = map[string]string{
	"samples": `
Number of random input rows. The output matrix has samples × samples cells.`,
	"features": `
Number of columns per row. Values are drawn uniformly from [0, 1).`,
	"seed": `
Seed of the random input. Runs with the same seed compute the same matrix.`,
	"workers": `
Maximum number of goroutines filling the output. Zero uses GOMAXPROCS. The
default can be set with the DISTMAT_WORKERS environment variable.`,
	"square": `
Use the raw square entry point, which reads only the first samples rows of
both inputs into a samples × samples buffer.`,
	"check": `
Also compute the matrix with the naive reference loop and report the largest
absolute difference. Fails if it exceeds the rounding tolerance.`,
	"out": `
Write the result matrix to this file in the binary export format.`,
	"compression": `
Payload compression of --out. One of "none", "lz4" or "zstd".`,
	"json": `
Print the run summary as JSON instead of text.`,
	"lo": `
Lower bound of the prime search range (inclusive).`,
	"hi": `
Upper bound of the prime search range (inclusive).`,
	"top": `
Number of largest primes to print.`,
	"log-level": `
Minimum log level: "debug", "info", "warn" or "error".`,
	"log-format": `
Log record format: "text" or "json". Logs go to stderr.`,
	"metrics": `
Dump the collected Prometheus metrics in text exposition format to stderr
when the command finishes.`,
}

const wrapWidth = 72

func usage(name string) string {
	s := flagUsage[name]
	if s == "" {
		panic("missing usage for flag " + name)
	}
	return text.Wrap(s[1:], wrapWidth)
}

// compressionValue adapts codec.Compression to pflag.Value.
type compressionValue struct {
	c *codec.Compression
}

var _ pflag.Value = compressionValue{}

func (v compressionValue) String() string {
	if v.c == nil {
		return codec.CompressionNone.String()
	}
	return v.c.String()
}

func (v compressionValue) Set(s string) error {
	c, err := codec.ParseCompression(s)
	if err != nil {
		return err
	}
	*v.c = c
	return nil
}

func (v compressionValue) Type() string {
	return "compression"
}
