// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset(t *testing.T) {
	currentMu.Lock()
	current = discard{}
	currentMu.Unlock()
	t.Cleanup(func() {
		currentMu.Lock()
		current = discard{}
		currentMu.Unlock()
	})
}

func scrape(t *testing.T) map[string]*dto.MetricFamily {
	rr := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(rr.Body)
	require.NoError(t, err)
	return families
}

func value(family *dto.MetricFamily, label, want string) *dto.Metric {
	for _, m := range family.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == label && l.GetValue() == want {
				return m
			}
		}
	}
	return nil
}

func TestDiscardByDefault(t *testing.T) {
	reset(t)
	assert.False(t, Enabled())

	CounterVec("calls", []string{"op"}).AddWithLabel(1, map[string]string{"unexpected": "label"})
	GaugeVec("listings", nil).SetWithLabel(3, nil)
	HistogramVec("latency", []string{"op"}, BucketOps).ObserveWithLabels(1, nil)

	rr := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPrometheus(t *testing.T) {
	reset(t)
	InitializePrometheusMetrics()
	require.True(t, Enabled())

	calls := CounterVec("test_calls", []string{"op"})
	calls.AddWithLabel(2, map[string]string{"op": "buy"})
	CounterVec("test_calls", []string{"op"}).AddWithLabel(1, map[string]string{"op": "buy"})
	calls.AddWithLabel(5, map[string]string{"op": "list"})

	totals := GaugeVec("test_totals", []string{"counter"})
	totals.AddWithLabel(4, map[string]string{"counter": "staked"})
	totals.SetWithLabel(7, map[string]string{"counter": "listings"})

	latency := HistogramVec("test_latency", []string{"op"}, BucketOps)
	for _, ms := range []int64{1, 3, 600} {
		latency.ObserveWithLabels(ms, map[string]string{"op": "claim"})
	}

	// kind mismatch is not exported and does not panic
	GaugeVec("test_calls", []string{"op"}).SetWithLabel(1, map[string]string{"op": "buy"})

	families := scrape(t)
	assert.Equal(t, 3.0, value(families["yokai_test_calls"], "op", "buy").GetCounter().GetValue())
	assert.Equal(t, 5.0, value(families["yokai_test_calls"], "op", "list").GetCounter().GetValue())
	assert.Equal(t, 4.0, value(families["yokai_test_totals"], "counter", "staked").GetGauge().GetValue())
	assert.Equal(t, 7.0, value(families["yokai_test_totals"], "counter", "listings").GetGauge().GetValue())

	hist := value(families["yokai_test_latency"], "op", "claim").GetHistogram()
	assert.Equal(t, uint64(3), hist.GetSampleCount())
	assert.Equal(t, 604.0, hist.GetSampleSum())

	assert.Contains(t, families, "go_goroutines")
}

func TestLazyLoad(t *testing.T) {
	reset(t)

	counter := LazyLoadCounterVec("lazy_counter", []string{"op"})
	gauge := LazyLoadGaugeVec("lazy_gauge", nil)
	histogram := LazyLoadHistogramVec("lazy_histogram", nil, nil)

	InitializePrometheusMetrics()

	assert.IsType(t, promCounter{}, counter())
	assert.IsType(t, promGauge{}, gauge())
	assert.IsType(t, promHistogram{}, histogram())
	assert.Same(t, counter().(promCounter).vec, counter().(promCounter).vec)
}
