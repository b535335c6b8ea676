// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/yokaihunt/custody/log"
)

// Every flag can also be set through the YOKAI_ prefixed environment variable.
var (
	dataDirFlag = cli.StringFlag{
		Name:   "data-dir",
		EnvVar: "YOKAI_DATA_DIR",
		Value:  defaultDataDir(),
		Usage:  "where the ledger store and the receipt log live",
	}
	configFlag = cli.StringFlag{
		Name:   "config",
		EnvVar: "YOKAI_CONFIG",
		Usage:  "yaml file with the admin, fee recipient and staking settings",
	}
	cacheFlag = cli.IntFlag{
		Name:   "cache",
		EnvVar: "YOKAI_CACHE",
		Value:  1024,
		Usage:  "memory budget in MiB shared by leveldb and the record cache",
	}

	apiAddrFlag = cli.StringFlag{
		Name:   "api-addr",
		EnvVar: "YOKAI_API_ADDR",
		Value:  "localhost:8669",
		Usage:  "host:port of the REST and websocket server",
	}
	apiCorsFlag = cli.StringFlag{
		Name:   "api-cors",
		EnvVar: "YOKAI_API_CORS",
		Usage:  "comma separated origins allowed to call the API from a browser, * for any",
	}
	apiTimeoutFlag = cli.Uint64Flag{
		Name:   "api-timeout",
		EnvVar: "YOKAI_API_TIMEOUT",
		Value:  10000,
		Usage:  "milliseconds before a REST call is answered with 503",
	}
	apiBacktraceLimitFlag = cli.Uint64Flag{
		Name:   "api-backtrace-limit",
		EnvVar: "YOKAI_API_BACKTRACE_LIMIT",
		Value:  1000,
		Usage:  "most stored receipts a resuming subscriber may replay",
	}
	apiReceiptsLimitFlag = cli.Uint64Flag{
		Name:   "api-receipts-limit",
		EnvVar: "YOKAI_API_RECEIPTS_LIMIT",
		Value:  1000,
		Usage:  "page size cap of receipt and transfer queries",
	}
	apiRateLimitFlag = cli.Float64Flag{
		Name:   "api-rate-limit",
		EnvVar: "YOKAI_API_RATE_LIMIT",
		Usage:  "sustained requests per second accepted by the API, 0 for unlimited",
	}
	apiRateBurstFlag = cli.IntFlag{
		Name:   "api-rate-burst",
		EnvVar: "YOKAI_API_RATE_BURST",
		Value:  100,
		Usage:  "requests accepted at once on top of the sustained rate",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:   "enable-api-logs",
		EnvVar: "YOKAI_ENABLE_API_LOGS",
		Usage:  "log every API call with its body, can be toggled at runtime from the admin server",
	}
	apiSlowQueriesThresholdFlag = cli.Uint64Flag{
		Name:   "api-slow-queries-threshold",
		EnvVar: "YOKAI_API_SLOW_QUERIES_THRESHOLD",
		Usage:  "log API calls taking more milliseconds than this, 0 to disable",
	}
	apiLog5xxErrorsFlag = cli.BoolFlag{
		Name:   "api-log-5xx-errors",
		EnvVar: "YOKAI_API_LOG_5XX_ERRORS",
		Usage:  "log API calls failing with a server error",
	}

	verbosityFlag = cli.Uint64Flag{
		Name:   "verbosity",
		EnvVar: "YOKAI_VERBOSITY",
		Value:  log.LegacyLevelInfo,
		Usage:  "0 crit, 1 error, 2 warn, 3 info, 4 debug, 5 and above trace",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:   "json-logs",
		EnvVar: "YOKAI_JSON_LOGS",
		Usage:  "write one JSON object per log line",
	}
	pprofFlag = cli.BoolFlag{
		Name:   "pprof",
		EnvVar: "YOKAI_PPROF",
		Usage:  "serve runtime profiles under /debug/pprof of the API server",
	}
	skipReceiptsFlag = cli.BoolFlag{
		Name:   "skip-receipts",
		EnvVar: "YOKAI_SKIP_RECEIPTS",
		Usage:  "run without the receipt log, disabling receipt queries and subscription replay",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:   "enable-metrics",
		EnvVar: "YOKAI_ENABLE_METRICS",
		Usage:  "export prometheus metrics",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:   "metrics-addr",
		EnvVar: "YOKAI_METRICS_ADDR",
		Value:  "localhost:2112",
		Usage:  "host:port of the /metrics endpoint",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:   "enable-admin",
		EnvVar: "YOKAI_ENABLE_ADMIN",
		Usage:  "start the operator server for log level, request logs and health",
	}
	adminAddrFlag = cli.StringFlag{
		Name:   "admin-addr",
		EnvVar: "YOKAI_ADMIN_ADDR",
		Value:  "localhost:2113",
		Usage:  "host:port of the operator server",
	}
	disableNTPCheckFlag = cli.BoolFlag{
		Name:   "disable-ntp-check",
		EnvVar: "YOKAI_DISABLE_NTP_CHECK",
		Usage:  "do not compare the local clock with pool.ntp.org at startup",
	}

	persistFlag = cli.BoolFlag{
		Name:   "persist",
		EnvVar: "YOKAI_PERSIST",
		Usage:  "solo: keep the devnet ledgers in --data-dir across restarts",
	}
)
