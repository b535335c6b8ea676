// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yokaihunt/custody/health"
	"github.com/yokaihunt/custody/log"
)

type fixture struct {
	level   slog.LevelVar
	apiLogs atomic.Bool
	health  *health.Health
	handler http.HandlerFunc
}

func newFixture() *fixture {
	f := &fixture{health: health.New()}
	f.handler = New(&f.level, f.health, &f.apiLogs)
	return f
}

func (f *fixture) call(t *testing.T, method, path, body string, out any) int {
	rr := httptest.NewRecorder()
	f.handler(rr, httptest.NewRequest(method, path, strings.NewReader(body)))
	if out != nil {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), out), rr.Body.String())
	}
	return rr.Code
}

func TestLogLevel(t *testing.T) {
	f := newFixture()

	var cur CurrentLogLevel
	assert.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/admin/loglevel", "", &cur))
	assert.Equal(t, "INFO", cur.CurrentLevel)

	for name, lvl := range levels {
		assert.Equal(t, http.StatusOK, f.call(t, http.MethodPost, "/admin/loglevel", `{"level":"`+name+`"}`, &cur))
		assert.Equal(t, log.LevelString(lvl), cur.CurrentLevel)
		assert.Equal(t, lvl, f.level.Level())
	}

	assert.Equal(t, http.StatusOK, f.call(t, http.MethodPost, "/admin/loglevel", `{"level":"DEBUG"}`, &cur))
	assert.Equal(t, log.LevelDebug, f.level.Level())

	assert.Equal(t, http.StatusBadRequest, f.call(t, http.MethodPost, "/admin/loglevel", `{"level":"loud"}`, nil))
	assert.Equal(t, http.StatusBadRequest, f.call(t, http.MethodPost, "/admin/loglevel", `{"verbosity":3}`, nil))
	assert.Equal(t, log.LevelDebug, f.level.Level())
}

func TestAPILogs(t *testing.T) {
	f := newFixture()

	var status APILogs
	assert.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/admin/apilogs", "", &status))
	assert.False(t, status.Enabled)

	assert.Equal(t, http.StatusOK, f.call(t, http.MethodPost, "/admin/apilogs", `{"enabled":true}`, &status))
	assert.True(t, status.Enabled)
	assert.True(t, f.apiLogs.Load())

	assert.Equal(t, http.StatusBadRequest, f.call(t, http.MethodPost, "/admin/apilogs", `not json`, nil))
	assert.True(t, f.apiLogs.Load())
}

func TestHealth(t *testing.T) {
	f := newFixture()

	var status health.Status
	assert.Equal(t, http.StatusServiceUnavailable, f.call(t, http.MethodGet, "/admin/health", "", &status))
	assert.False(t, status.Initialized)

	f.health.Initialized(true)
	assert.Equal(t, http.StatusOK, f.call(t, http.MethodGet, "/admin/health", "", &status))
	assert.True(t, status.Healthy)

	assert.Equal(t, http.StatusNotFound, f.call(t, http.MethodGet, "/admin/unknown", "", nil))
}
