// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package metrics exposes labelled meters. Until InitializePrometheusMetrics is
// called every meter discards its measurements.
package metrics

import (
	"net/http"
	"sync"
)

// Buckets of the duration histograms, in milliseconds.
var (
	BucketOps      = []int64{0, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}
	BucketHTTPReqs = []int64{0, 1, 2, 5, 10, 25, 50, 100, 200, 300, 500, 1000, 2000, 5000, 10000}
)

// CountVecMeter only goes up.
type CountVecMeter interface {
	AddWithLabel(int64, map[string]string)
}

// GaugeVecMeter goes up and down.
type GaugeVecMeter interface {
	AddWithLabel(int64, map[string]string)
	SetWithLabel(int64, map[string]string)
}

// HistogramVecMeter buckets observations.
type HistogramVecMeter interface {
	ObserveWithLabels(int64, map[string]string)
}

type service interface {
	counter(name string, labels []string) CountVecMeter
	gauge(name string, labels []string) GaugeVecMeter
	histogram(name string, labels []string, buckets []int64) HistogramVecMeter
	handler() http.Handler
}

var (
	current   service = discard{}
	currentMu sync.RWMutex
)

func get() service {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// Enabled reports whether meters are exported.
func Enabled() bool {
	_, off := get().(discard)
	return !off
}

// HTTPHandler serves the exported meters in the prometheus text format.
func HTTPHandler() http.Handler {
	return get().handler()
}

func CounterVec(name string, labels []string) CountVecMeter {
	return get().counter(name, labels)
}

func GaugeVec(name string, labels []string) GaugeVecMeter {
	return get().gauge(name, labels)
}

func HistogramVec(name string, labels []string, buckets []int64) HistogramVecMeter {
	return get().histogram(name, labels, buckets)
}

// lazy resolves the meter on first use, so package level meters pick up the
// service installed at startup.
func lazy[T any](create func() T) func() T {
	return sync.OnceValue(create)
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return lazy(func() CountVecMeter { return CounterVec(name, labels) })
}

func LazyLoadGaugeVec(name string, labels []string) func() GaugeVecMeter {
	return lazy(func() GaugeVecMeter { return GaugeVec(name, labels) })
}

func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return lazy(func() HistogramVecMeter { return HistogramVec(name, labels, buckets) })
}

type discard struct{}

func (discard) counter(string, []string) CountVecMeter                { return discard{} }
func (discard) gauge(string, []string) GaugeVecMeter                  { return discard{} }
func (discard) histogram(string, []string, []int64) HistogramVecMeter { return discard{} }
func (discard) handler() http.Handler                                 { return http.NotFoundHandler() }

func (discard) AddWithLabel(int64, map[string]string)      {}
func (discard) SetWithLabel(int64, map[string]string)      {}
func (discard) ObserveWithLabels(int64, map[string]string) {}
