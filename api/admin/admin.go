// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin serves the operator endpoints: log verbosity, request log
// toggle and service health.
package admin

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/yokaihunt/custody/api/utils"
	"github.com/yokaihunt/custody/health"
	"github.com/yokaihunt/custody/log"
)

var logger = log.WithContext("pkg", "admin")

var levels = map[string]slog.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
	"crit":  log.LevelCrit,
}

type LogLevel struct {
	Level string `json:"level"`
}

type CurrentLogLevel struct {
	CurrentLevel string `json:"currentLevel"`
}

type APILogs struct {
	Enabled bool `json:"enabled"`
}

type adminAPI struct {
	level   *slog.LevelVar
	health  *health.Health
	apiLogs *atomic.Bool
}

// New returns the handler of every route under /admin.
func New(logLevel *slog.LevelVar, health *health.Health, apiLogs *atomic.Bool) http.HandlerFunc {
	a := &adminAPI{logLevel, health, apiLogs}

	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()
	sub.Path("/loglevel").Methods(http.MethodGet).Name("GET /admin/loglevel").HandlerFunc(utils.WrapHandlerFunc(a.getLogLevel))
	sub.Path("/loglevel").Methods(http.MethodPost).Name("POST /admin/loglevel").HandlerFunc(utils.WrapHandlerFunc(a.setLogLevel))
	sub.Path("/apilogs").Methods(http.MethodGet).Name("GET /admin/apilogs").HandlerFunc(utils.WrapHandlerFunc(a.getAPILogs))
	sub.Path("/apilogs").Methods(http.MethodPost).Name("POST /admin/apilogs").HandlerFunc(utils.WrapHandlerFunc(a.setAPILogs))
	sub.Path("/health").Methods(http.MethodGet).Name("GET /admin/health").HandlerFunc(utils.WrapHandlerFunc(a.getHealth))

	return handlers.CompressHandler(router).ServeHTTP
}

func (a *adminAPI) getLogLevel(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, CurrentLogLevel{log.LevelString(a.level.Level())})
}

func (a *adminAPI) setLogLevel(w http.ResponseWriter, r *http.Request) error {
	var req LogLevel
	if err := utils.ParseBody(r, &req); err != nil {
		return err
	}
	lvl, ok := levels[strings.ToLower(req.Level)]
	if !ok {
		return utils.BadRequest(errors.Errorf("unknown level %q", req.Level))
	}
	a.level.Set(lvl)
	logger.Info("log level changed", "level", log.LevelString(lvl))
	return utils.WriteJSON(w, CurrentLogLevel{log.LevelString(lvl)})
}

func (a *adminAPI) getAPILogs(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, APILogs{a.apiLogs.Load()})
}

func (a *adminAPI) setAPILogs(w http.ResponseWriter, r *http.Request) error {
	var req APILogs
	if err := utils.ParseBody(r, &req); err != nil {
		return err
	}
	a.apiLogs.Store(req.Enabled)
	logger.Info("api logs toggled", "enabled", req.Enabled)
	return utils.WriteJSON(w, req)
}

// getHealth answers 503 until the ledgers are initialized or while receipts miss the log.
func (a *adminAPI) getHealth(w http.ResponseWriter, _ *http.Request) error {
	status, err := a.health.Status()
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", utils.JSONContentType)
	if status.Healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return utils.WriteJSON(w, status)
}
