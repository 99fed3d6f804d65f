// Package prometheus exports distmat computation metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	obs := promobs.NewObserver(reg)
//	distmat.CityBlockMatrix(ctx, a, b, distmat.WithMetricsObserver(obs))
package prometheus

import (
	"io"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/hupe1980/distmat"
)

var _ distmat.MetricsObserver = (*Observer)(nil)

// Observer implements distmat.MetricsObserver on Prometheus collectors.
type Observer struct {
	latency *promclient.HistogramVec
	cells   *promclient.CounterVec
	cols    *promclient.GaugeVec
}

type config struct {
	namespace string
	buckets   []float64
}

// Option configures an Observer.
type Option func(*config)

// WithNamespace sets the metric name prefix (default "distmat").
func WithNamespace(ns string) Option {
	return func(c *config) { c.namespace = ns }
}

// WithBuckets sets the latency histogram buckets in seconds.
func WithBuckets(b []float64) Option {
	return func(c *config) { c.buckets = b }
}

// NewObserver creates an Observer and registers its collectors on reg.
// It panics if registration fails, like prometheus.MustRegister.
func NewObserver(reg promclient.Registerer, opts ...Option) *Observer {
	c := config{
		namespace: "distmat",
		buckets:   promclient.ExponentialBuckets(0.0005, 4, 10),
	}
	for _, opt := range opts {
		opt(&c)
	}

	o := &Observer{
		latency: promclient.NewHistogramVec(promclient.HistogramOpts{
			Namespace: c.namespace,
			Name:      "compute_duration_seconds",
			Help:      "Latency of distance matrix computations",
			Buckets:   c.buckets,
		}, []string{"metric", "status"}),
		cells: promclient.NewCounterVec(promclient.CounterOpts{
			Namespace: c.namespace,
			Name:      "cells_total",
			Help:      "Distance matrix cells computed",
		}, []string{"metric"}),
		cols: promclient.NewGaugeVec(promclient.GaugeOpts{
			Namespace: c.namespace,
			Name:      "last_columns",
			Help:      "Column count of the last successful computation",
		}, []string{"metric"}),
	}

	reg.MustRegister(o.latency, o.cells, o.cols)
	return o
}

// OnCompute implements distmat.MetricsObserver.
func (o *Observer) OnCompute(metric string, rowsA, rowsB, cols int, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	o.latency.WithLabelValues(metric, status).Observe(d.Seconds())

	if err != nil {
		return
	}
	o.cells.WithLabelValues(metric).Add(float64(rowsA) * float64(rowsB))
	o.cols.WithLabelValues(metric).Set(float64(cols))
}

// WriteText writes everything g gathers in the Prometheus text format.
func WriteText(w io.Writer, g promclient.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
