// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bytes"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/felixge/httpsnoop"

	"github.com/yokaihunt/custody/log"
)

type requestLogger struct {
	logger    log.Logger
	enabled   *atomic.Bool
	slowAfter time.Duration
	log5xx    bool
}

// quiet reports that no request can produce a log line.
func (l *requestLogger) quiet() bool {
	return !l.enabled.Load() && l.slowAfter == 0 && !l.log5xx
}

func (l *requestLogger) wants(m httpsnoop.Metrics) bool {
	switch {
	case l.enabled.Load():
		return true
	case l.slowAfter > 0 && m.Duration > l.slowAfter:
		return true
	default:
		return l.log5xx && m.Code >= http.StatusInternalServerError
	}
}

// RequestLoggerMiddleware logs API calls with their body. A call is logged when
// enabled is set, when it takes longer than slowQueriesThreshold, or when it is
// answered with a 5xx status and log5xxErrors is set.
func RequestLoggerMiddleware(logger log.Logger, enabled *atomic.Bool, slowQueriesThreshold time.Duration, log5xxErrors bool) func(http.Handler) http.Handler {
	l := &requestLogger{logger, enabled, slowQueriesThreshold, log5xxErrors}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l.quiet() {
				next.ServeHTTP(w, r)
				return
			}

			var body []byte
			if r.Body != nil {
				var err error
				if body, err = io.ReadAll(r.Body); err != nil {
					l.logger.Warn("failed to read request body", "err", err)
					http.Error(w, "unreadable body", http.StatusBadRequest)
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			m := httpsnoop.CaptureMetrics(next, w, r)
			if !l.wants(m) {
				return
			}
			l.logger.Info("API Request",
				"RequestID", w.Header().Get(RequestIDHeader),
				"DurationMs", m.Duration.Milliseconds(),
				"Timestamp", time.Now().Unix(),
				"URI", r.URL.String(),
				"Method", r.Method,
				"Status", m.Code,
				"Body", string(body),
			)
		})
	}
}
