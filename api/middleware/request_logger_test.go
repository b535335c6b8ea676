// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yokaihunt/custody/log"
)

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	var out []map[string]any
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		out = append(out, rec)
	}
	return out
}

func respond(status int, delay time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(delay)
		w.WriteHeader(status)
	}
}

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		enabled  bool
		slow     time.Duration
		log5xx   bool
		expected bool
	}{
		{"enabled", respond(http.StatusOK, 0), true, 0, false, true},
		{"disabled", respond(http.StatusOK, 0), false, 0, false, false},
		{"slow call", respond(http.StatusOK, 30*time.Millisecond), false, 10 * time.Millisecond, false, true},
		{"fast call", respond(http.StatusOK, 0), false, time.Second, false, false},
		{"server error", respond(http.StatusInternalServerError, 0), false, 0, true, true},
		{"server error ignored", respond(http.StatusServiceUnavailable, 0), false, time.Second, false, false},
		{"client error", respond(http.StatusConflict, 0), false, 0, true, false},
		{"implicit ok", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("{}")) }, false, 0, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				buf     bytes.Buffer
				enabled atomic.Bool
			)
			enabled.Store(tt.enabled)
			logger := log.NewLogger(log.JSONHandler(&buf, slog.LevelInfo))
			handler := RequestID(RequestLoggerMiddleware(logger, &enabled, tt.slow, tt.log5xx)(tt.handler))

			req := httptest.NewRequest(http.MethodPost, "/market/buy", strings.NewReader(`{"assetID":1000}`))
			handler.ServeHTTP(httptest.NewRecorder(), req)

			logged := records(t, &buf)
			if !tt.expected {
				assert.Empty(t, logged)
				return
			}
			require.Len(t, logged, 1)
			rec := logged[0]
			assert.Equal(t, "API Request", rec["msg"])
			assert.Equal(t, "/market/buy", rec["URI"])
			assert.Equal(t, http.MethodPost, rec["Method"])
			assert.Equal(t, `{"assetID":1000}`, rec["Body"])
			assert.Len(t, rec["RequestID"], 36)
			assert.NotZero(t, rec["Timestamp"])
		})
	}
}

func TestRequestLoggerKeepsBody(t *testing.T) {
	var enabled atomic.Bool
	enabled.Store(true)

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]uint64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		seen = r.URL.Path
		assert.Equal(t, uint64(7), body["price"])
	})
	logger := log.NewLogger(log.DiscardHandler())
	handler := RequestLoggerMiddleware(logger, &enabled, 0, false)(next)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/market/listings", strings.NewReader(`{"price":7}`)))
	assert.Equal(t, "/market/listings", seen)
}
