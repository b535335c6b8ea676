// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/yokaihunt/custody/builtin"
	"github.com/yokaihunt/custody/config"
	"github.com/yokaihunt/custody/genesis"
	"github.com/yokaihunt/custody/kv"
	"github.com/yokaihunt/custody/log"
	"github.com/yokaihunt/custody/logdb"
	"github.com/yokaihunt/custody/lvldb"
	"github.com/yokaihunt/custody/runtime"
	"github.com/yokaihunt/custody/state"
	"github.com/yokaihunt/custody/yokai"
)

const (
	// ledger timestamps come from the local clock
	maxClockOffset = time.Minute

	minCacheMB   = 128
	minFDCache   = 16
	maxFDCache   = 5120
	recordSize   = 256 // rough size of a decoded ledger record
	mainDBName   = "main.db"
	receiptsName = "receipts.db"
)

func initLogger(ctx *cli.Context) *slog.LevelVar {
	level := new(slog.LevelVar)
	level.Set(log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name))))

	if ctx.Bool(jsonLogsFlag.Name) {
		log.SetDefault(log.JSONHandler(os.Stdout, level))
		return level
	}
	fd := os.Stderr.Fd()
	color := os.Getenv("TERM") != "dumb" && (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
	log.SetDefault(log.NewTerminalHandler(os.Stderr, level, color))
	return level
}

// handleExitSignal returns a context cancelled on SIGINT or SIGTERM.
func handleExitSignal() context.Context {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
		logger.Info("exit signal received")
	}()
	return ctx
}

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	path := ctx.String(configFlag.Name)
	if path == "" {
		return nil, errors.Errorf("no settings file, pass --%s or use the solo command", configFlag.Name)
	}
	return config.Load(path)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".org.yokaihunt.custody")
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dir := ctx.String(dataDirFlag.Name)
	if dir == "" {
		return "", errors.Errorf("no home directory to place the data in, pass --%s", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir %s", dir)
	}
	return dir, nil
}

func openMainDB(ctx *cli.Context, dataDir string) (*lvldb.LevelDB, error) {
	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))

	// a large leveldb cache would otherwise make the GC run late
	gcPercent := int(math.Max(20, math.Min(100, 100*1024/float64(cacheMB))))
	debug.SetGCPercent(gcPercent)

	path := filepath.Join(dataDir, mainDBName)
	fdCache := suggestFDCache()
	logger.Debug("opening ledger database", "path", path, "cacheMB", cacheMB, "gcPercent", gcPercent, "fdCache", fdCache)
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              cacheMB / 2,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open ledger database %s", path)
	}
	return db, nil
}

// normalizeCacheSize clamps the --cache budget between minCacheMB and half of the physical memory.
func normalizeCacheSize(sizeMB int) int {
	sizeMB = max(sizeMB, minCacheMB)

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("physical memory unknown, cache not capped", "err", err)
		return sizeMB
	}
	if half := int(mem.Total >> 21); sizeMB > half {
		logger.Warn("cache capped to half of the physical memory", "cacheMB", half)
		return half
	}
	return sizeMB
}

// suggestFDCache spends half of the process fd limit on leveldb table files.
func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		logger.Warn("fd limit unknown", "err", err)
		return minFDCache
	}
	if limit <= 1024 {
		logger.Warn("fd limit is low, raise it for large ledgers", "limit", limit)
	}
	return min(max(limit/2, minFDCache), maxFDCache)
}

func openLogDB(dataDir string) (*logdb.LogDB, error) {
	path := filepath.Join(dataDir, receiptsName)
	db, err := logdb.New(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open receipt database %s", path)
	}
	return db, nil
}

// newExecutor puts a record cache sized from --cache in front of the ledger store.
func newExecutor(ctx *cli.Context, mainDB *lvldb.LevelDB, logDB *logdb.LogDB) *runtime.Executor {
	entries := normalizeCacheSize(ctx.Int(cacheFlag.Name)) / 4 * 1024 * 1024 / recordSize
	return runtime.New(state.NewStater(stateBucket.NewStore(mainDB), entries).NewState(), logDB)
}

var (
	stateBucket = kv.Bucket("s/")
	metaBucket  = kv.Bucket("m/")
	genesisKey  = []byte("genesis")
)

// checkGenesis records the id of the first genesis applied to the database and
// warns when a later start brings another one. Stored ledger settings win.
func checkGenesis(mainDB kv.Store, gene *runtime.Genesis) error {
	data, err := json.Marshal(gene)
	if err != nil {
		return errors.Wrap(err, "encode genesis")
	}
	id := yokai.Blake2b(data)

	meta := metaBucket.NewStore(mainDB)
	stored, err := kv.GetOrNil(meta, genesisKey)
	if err != nil {
		return errors.Wrap(err, "read genesis id")
	}
	if stored == nil {
		return meta.Put(genesisKey, id.Bytes())
	}
	if !bytes.Equal(stored, id.Bytes()) {
		logger.Warn("genesis differs from the one the database was created with, keeping stored settings",
			"stored", yokai.BytesToBytes32(stored), "given", id)
	}
	return nil
}

func checkClockOffset() {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		logger.Debug("ntp unreachable, clock not checked", "err", err)
		return
	}
	if offset := resp.ClockOffset; offset.Abs() > maxClockOffset {
		logger.Warn("local clock is off, accrual and listing times will be skewed", "offset", common.PrettyDuration(offset))
	}
}

func printStartupMessage(gene *runtime.Genesis, dataDir string) {
	fmt.Printf(`Starting %v
    Admin          [ %v ]
    Fee recipient  [ %v ]
    Platform fee   [ %v%% ]
    Reward token   [ %v ]
    Custody        [ marketplace %v | staking %v ]
    Data dir       [ %v ]
`,
		"Yokaid/"+fullVersion(),
		gene.Admin,
		gene.FeeRecipient,
		gene.FeePercent,
		rewardToken(gene.RewardToken),
		builtin.Marketplace.Address, builtin.Staking.Address,
		dataDir)
}

func rewardToken(id uint64) string {
	if id == 0 {
		return "not set, claims disabled"
	}
	return fmt.Sprintf("#%d", id)
}

func printSoloStartupMessage(gene *runtime.Genesis, dataDir string) {
	var b strings.Builder
	fmt.Fprintf(&b, `Starting %v
    Admin          [ %v ]
    Reward token   [ %v ]
    Initial funds  [ %v ]
    Data dir       [ %v ]
`,
		"Yokaid solo/"+fullVersion(),
		gene.Admin,
		rewardToken(gene.RewardToken),
		genesis.InitialFunds,
		dataDir)

	rule := strings.Repeat("-", 44) + "+" + strings.Repeat("-", 68)
	fmt.Fprintf(&b, "%s\n %-42s | %s\n%s\n", rule, "Dev account", "Private key", rule)
	for _, a := range genesis.DevAccounts() {
		fmt.Fprintf(&b, " %v | %v\n", a.Address, yokai.BytesToBytes32(crypto.FromECDSA(a.PrivateKey)))
	}
	b.WriteString(rule + "\n")
	fmt.Print(b.String())
}
