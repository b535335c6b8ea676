// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/yokaihunt/custody/api/market"
	"github.com/yokaihunt/custody/api/middleware"
	"github.com/yokaihunt/custody/api/node"
	"github.com/yokaihunt/custody/api/receipts"
	"github.com/yokaihunt/custody/api/registry"
	"github.com/yokaihunt/custody/api/stakes"
	"github.com/yokaihunt/custody/api/subscriptions"
	"github.com/yokaihunt/custody/api/vault"
	"github.com/yokaihunt/custody/log"
	"github.com/yokaihunt/custody/logdb"
	"github.com/yokaihunt/custody/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	BacktraceLimit       uint64
	ReceiptsLimit        uint64
	MessageCacheSize     uint32
	PprofOn              bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	EnableMetrics        bool
	RateLimit            float64
	RateBurst            int
	Info                 node.Info
}

// New return api router. logDB is optional, without it receipts are neither
// queryable nor replayable.
func New(exec *runtime.Executor, logDB *logdb.LogDB, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	market.New(exec).
		Mount(router, "/market")
	stakes.New(exec).
		Mount(router, "/stakes")
	registry.New(exec).
		Mount(router, "/registry")
	vault.New(exec).
		Mount(router, "/vault")
	node.New(exec, opts.Info).
		Mount(router, "/node")
	if logDB != nil {
		receipts.New(logDB, opts.ReceiptsLimit).
			Mount(router, "/receipts")
	}
	subs := subscriptions.New(exec, logDB, origins, opts.BacktraceLimit, opts.MessageCacheSize)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.RequestIDHeader}),
	)(handler)

	if opts.EnableReqLogger != nil {
		handler = middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold, opts.Log5xxErrors)(handler)
	}
	if opts.RateLimit > 0 {
		handler = middleware.RateLimit(opts.RateLimit, opts.RateBurst)(handler)
	}
	handler = middleware.RequestID(handler)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
