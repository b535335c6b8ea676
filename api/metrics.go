// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strconv"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"

	"github.com/yokaihunt/custody/metrics"
)

var (
	metricHTTPReqCounter  = metrics.LazyLoadCounterVec("api_request_count", []string{"name", "code", "method"})
	metricHTTPReqDuration = metrics.LazyLoadHistogramVec("api_duration_ms", []string{"name", "code", "method"}, metrics.BucketHTTPReqs)
	metricActiveWebsocket = metrics.LazyLoadGaugeVec("api_active_websocket_gauge", []string{"name"})
)

// metricsMiddleware records metrics for each request, labelled by route name.
// Requests matching no route are not recorded.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := mux.CurrentRoute(r)
		if route == nil || route.GetName() == "" {
			next.ServeHTTP(w, r)
			return
		}
		name := route.GetName()

		subscription := r.Header.Get("Upgrade") == "websocket"
		if subscription {
			metricActiveWebsocket().AddWithLabel(1, map[string]string{"name": name})
			defer metricActiveWebsocket().AddWithLabel(-1, map[string]string{"name": name})
		}

		m := httpsnoop.CaptureMetrics(next, w, r)
		if subscription {
			return
		}
		labels := map[string]string{"name": name, "code": strconv.Itoa(m.Code), "method": r.Method}
		metricHTTPReqCounter().AddWithLabel(1, labels)
		metricHTTPReqDuration().ObserveWithLabels(m.Duration.Milliseconds(), labels)
	})
}
