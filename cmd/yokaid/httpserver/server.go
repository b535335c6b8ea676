// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpserver starts the API, admin and metrics listeners of the node.
package httpserver

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/yokaihunt/custody/api/admin"
	"github.com/yokaihunt/custody/health"
	"github.com/yokaihunt/custody/metrics"
)

// Start serves handler on addr until the returned stop func is called.
func Start(addr string, handler http.Handler, timeout time.Duration) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen addr [%v]", addr)
	}
	if timeout > 0 {
		handler = http.TimeoutHandler(handler, timeout, "request timed out")
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes sync.WaitGroup
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String(), func() {
		srv.Close()
		goes.Wait()
	}, nil
}

// StartAPIServer serves the ledger API. Websocket subscriptions are exempt from the timeout.
func StartAPIServer(addr string, handler http.Handler, timeout time.Duration) (string, func(), error) {
	if timeout > 0 {
		limited := http.TimeoutHandler(handler, timeout, "request timed out")
		inner := handler
		handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Upgrade") == "websocket" {
				inner.ServeHTTP(w, r)
				return
			}
			limited.ServeHTTP(w, r)
		})
	}
	url, stop, err := Start(addr, handler, 0)
	if err != nil {
		return "", nil, errors.WithMessage(err, "API")
	}
	return url + "/", stop, nil
}

func StartAdminServer(addr string, logLevel *slog.LevelVar, health *health.Health, apiLogs *atomic.Bool) (string, func(), error) {
	url, stop, err := Start(addr, admin.New(logLevel, health, apiLogs), 0)
	if err != nil {
		return "", nil, errors.WithMessage(err, "admin API")
	}
	return url + "/admin", stop, nil
}

func StartMetricsServer(addr string) (string, func(), error) {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	handler := handlers.CompressHandler(router)

	url, stop, err := Start(addr, handler, 0)
	if err != nil {
		return "", nil, errors.WithMessage(err, "metrics API")
	}
	return url + "/metrics", stop, nil
}
