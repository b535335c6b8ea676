// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yokaihunt/custody/log"
)

const namespace = "yokai"

var logger = log.WithContext("pkg", "metrics")

// InitializePrometheusMetrics starts exporting meters. Calling it again keeps
// the meters already registered.
func InitializePrometheusMetrics() {
	currentMu.Lock()
	defer currentMu.Unlock()
	if _, ok := current.(*promService); !ok {
		current = newPromService()
	}
}

type promService struct {
	reg    *prometheus.Registry
	mu     sync.Mutex
	meters map[string]any
}

func newPromService() *promService {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
	)
	return &promService{reg: reg, meters: make(map[string]any)}
}

// meter returns the meter registered under kind and name, building it on first
// request. A name reused with another kind yields a meter that is not exported.
func meter[T any](p *promService, kind, name string, build func() (prometheus.Collector, T)) T {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := kind + ":" + name
	if m, ok := p.meters[key]; ok {
		return m.(T)
	}
	collector, m := build()
	if err := p.reg.Register(collector); err != nil {
		logger.Warn("metric not exported", "name", name, "err", err)
		return m
	}
	p.meters[key] = m
	return m
}

func (p *promService) counter(name string, labels []string) CountVecMeter {
	return meter(p, "counter", name, func() (prometheus.Collector, CountVecMeter) {
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name}, labels)
		return vec, promCounter{vec}
	})
}

func (p *promService) gauge(name string, labels []string) GaugeVecMeter {
	return meter(p, "gauge", name, func() (prometheus.Collector, GaugeVecMeter) {
		vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: name}, labels)
		return vec, promGauge{vec}
	})
}

func (p *promService) histogram(name string, labels []string, buckets []int64) HistogramVecMeter {
	return meter(p, "histogram", name, func() (prometheus.Collector, HistogramVecMeter) {
		var upper []float64
		for _, b := range buckets {
			upper = append(upper, float64(b))
		}
		vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: name, Buckets: upper}, labels)
		return vec, promHistogram{vec}
	})
}

func (p *promService) handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{ErrorLog: promErrorLog{}})
}

type promErrorLog struct{}

func (promErrorLog) Println(v ...any) { logger.Warn("metrics scrape", "err", v) }

type promCounter struct{ vec *prometheus.CounterVec }

func (c promCounter) AddWithLabel(v int64, labels map[string]string) {
	c.vec.With(labels).Add(float64(v))
}

type promGauge struct{ vec *prometheus.GaugeVec }

func (g promGauge) AddWithLabel(v int64, labels map[string]string) {
	g.vec.With(labels).Add(float64(v))
}

func (g promGauge) SetWithLabel(v int64, labels map[string]string) {
	g.vec.With(labels).Set(float64(v))
}

type promHistogram struct{ vec *prometheus.HistogramVec }

func (h promHistogram) ObserveWithLabels(v int64, labels map[string]string) {
	h.vec.With(labels).Observe(float64(v))
}
