// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/yokaihunt/custody/api"
	"github.com/yokaihunt/custody/api/node"
	"github.com/yokaihunt/custody/cmd/yokaid/httpserver"
	"github.com/yokaihunt/custody/genesis"
	"github.com/yokaihunt/custody/health"
	"github.com/yokaihunt/custody/log"
	"github.com/yokaihunt/custody/logdb"
	"github.com/yokaihunt/custody/lvldb"
	"github.com/yokaihunt/custody/metrics"
	"github.com/yokaihunt/custody/runtime"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "yokaid")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Yokaid",
		Usage:     "Custody ledgers of the Yokai Hunt game economy",
		Copyright: "2025 Yokai Hunt",
		Flags: []cli.Flag{
			dataDirFlag,
			configFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiBacktraceLimitFlag,
			apiReceiptsLimitFlag,
			apiRateLimitFlag,
			apiRateBurstFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			verbosityFlag,
			jsonLogsFlag,
			pprofFlag,
			skipReceiptsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			disableNTPCheckFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "solo",
				Usage: "run the ledgers with funded dev accounts for test & dev",
				Flags: []cli.Flag{
					dataDirFlag,
					cacheFlag,
					apiAddrFlag,
					apiCorsFlag,
					apiTimeoutFlag,
					apiBacktraceLimitFlag,
					apiReceiptsLimitFlag,
					enableAPILogsFlag,
					verbosityFlag,
					jsonLogsFlag,
					pprofFlag,
					skipReceiptsFlag,
					enableMetricsFlag,
					metricsAddrFlag,
					enableAdminFlag,
					adminAddrFlag,
					persistFlag,
				},
				Action: soloAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	gene, err := cfg.Genesis()
	if err != nil {
		return err
	}

	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return err
	}
	if !ctx.Bool(disableNTPCheckFlag.Name) {
		go checkClockOffset()
	}

	mainDB, err := openMainDB(ctx, dataDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	var logDB *logdb.LogDB
	if !ctx.Bool(skipReceiptsFlag.Name) {
		if logDB, err = openLogDB(dataDir); err != nil {
			return err
		}
		defer func() { logger.Info("closing receipt database..."); logDB.Close() }()
	}

	exec := newExecutor(ctx, mainDB, logDB)
	defer exec.Close()
	if err := exec.Initialize(gene); err != nil {
		return errors.Wrap(err, "initialize ledgers")
	}
	if err := checkGenesis(mainDB, gene); err != nil {
		return err
	}

	printStartupMessage(gene, dataDir)
	return serve(ctx, exitSignal, exec, logDB, logLevel)
}

func soloAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)

	var (
		mainDB  *lvldb.LevelDB
		logDB   *logdb.LogDB
		dataDir = "Memory"
		err     error
	)
	if ctx.Bool(persistFlag.Name) {
		if dataDir, err = makeDataDir(ctx); err != nil {
			return err
		}
		if mainDB, err = openMainDB(ctx, dataDir); err != nil {
			return err
		}
		if !ctx.Bool(skipReceiptsFlag.Name) {
			if logDB, err = openLogDB(dataDir); err != nil {
				mainDB.Close()
				return err
			}
		}
	} else {
		if mainDB, err = lvldb.NewMem(); err != nil {
			return errors.Wrap(err, "open ledger database")
		}
		if !ctx.Bool(skipReceiptsFlag.Name) {
			if logDB, err = logdb.NewMem(); err != nil {
				mainDB.Close()
				return errors.Wrap(err, "open receipt database")
			}
		}
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	if logDB != nil {
		defer func() { logger.Info("closing receipt database..."); logDB.Close() }()
	}

	exec := newExecutor(ctx, mainDB, logDB)
	defer exec.Close()
	gene, err := genesis.Devnet(exec)
	if err != nil {
		return errors.Wrap(err, "build devnet")
	}
	if err := exec.Initialize(gene); err != nil {
		return errors.Wrap(err, "initialize ledgers")
	}
	if err := checkGenesis(mainDB, gene); err != nil {
		return err
	}

	printSoloStartupMessage(gene, dataDir)
	return serve(ctx, exitSignal, exec, logDB, logLevel)
}

// serve runs the servers until the exit signal.
func serve(ctx *cli.Context, exitSignal context.Context, exec *runtime.Executor, logDB *logdb.LogDB, logLevel *slog.LevelVar) error {
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	h := health.New()
	h.Initialized(true)
	var goes sync.WaitGroup
	defer goes.Wait()
	done := make(chan struct{})
	defer close(done)
	goes.Go(func() { h.Track(exec, logDB != nil, done) })

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	var driverVersion string
	if logDB != nil {
		driverVersion = logDB.DriverVersion()
	}
	apiHandler, apiClose := api.New(exec, logDB, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		BacktraceLimit:       ctx.Uint64(apiBacktraceLimitFlag.Name),
		ReceiptsLimit:        ctx.Uint64(apiReceiptsLimitFlag.Name),
		MessageCacheSize:     1000,
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		RateLimit:            ctx.Float64(apiRateLimitFlag.Name),
		RateBurst:            ctx.Int(apiRateBurstFlag.Name),
		Info:                 node.Info{Version: fullVersion(), LogDBVersion: driverVersion},
	})
	defer func() { logger.Info("stopping subscriptions..."); apiClose() }()

	var stops []func()
	defer func() { shutdown(stops) }()

	apiURL, stop, err := httpserver.StartAPIServer(
		ctx.String(apiAddrFlag.Name),
		apiHandler,
		time.Duration(ctx.Uint64(apiTimeoutFlag.Name))*time.Millisecond,
	)
	if err != nil {
		return err
	}
	stops = append(stops, stop)
	logger.Info("API server started", "url", apiURL)

	if ctx.Bool(enableMetricsFlag.Name) {
		url, stop, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		stops = append(stops, stop)
		logger.Info("metrics server started", "url", url)
	}
	if ctx.Bool(enableAdminFlag.Name) {
		url, stop, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, h, apiLogs)
		if err != nil {
			return err
		}
		stops = append(stops, stop)
		logger.Info("admin server started", "url", url)
	}

	<-exitSignal.Done()
	return nil
}

// shutdown stops the servers concurrently.
func shutdown(stops []func()) {
	logger.Info("stopping servers...")
	var g errgroup.Group
	for _, stop := range stops {
		g.Go(func() error {
			stop()
			return nil
		})
	}
	g.Wait()
}
