// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"errors"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/rlp"
	pkgerrors "github.com/pkg/errors"

	"github.com/yokaihunt/custody/builtin"
	"github.com/yokaihunt/custody/builtin/marketplace"
	"github.com/yokaihunt/custody/builtin/registry"
	"github.com/yokaihunt/custody/builtin/staking"
	"github.com/yokaihunt/custody/bundle"
	"github.com/yokaihunt/custody/custody"
	"github.com/yokaihunt/custody/entity"
	"github.com/yokaihunt/custody/log"
	"github.com/yokaihunt/custody/logdb"
	"github.com/yokaihunt/custody/reverts"
	"github.com/yokaihunt/custody/state"
	"github.com/yokaihunt/custody/xenv"
	"github.com/yokaihunt/custody/yokai"
)

var logger = log.WithContext("pkg", "runtime")

// Ledgers is a read view of the ledgers and the vault.
type Ledgers struct {
	Market   *marketplace.Marketplace
	Staking  *staking.Staking
	Registry *registry.Registry
	Vault    *custody.Vault
}

// Executor admits signed calls one at a time and commits each one as a whole.
type Executor struct {
	mu       sync.RWMutex
	st       *state.State
	ledgers  *Ledgers
	consumed *entity.Mapping[yokai.Bytes32, uint64]
	logDB    *logdb.LogDB
	nowFunc  func() uint64

	receiptFeed event.Feed
	scope       event.SubscriptionScope
}

// New creates an executor over the state. logDB is optional.
func New(st *state.State, logDB *logdb.LogDB) *Executor {
	return &Executor{
		st: st,
		ledgers: &Ledgers{
			Market:   builtin.Marketplace.WithState(st),
			Staking:  builtin.Staking.WithState(st),
			Registry: builtin.Registry.WithState(st),
			Vault:    custody.NewVault(st),
		},
		consumed: entity.NewMapping[yokai.Bytes32, uint64](entity.NewContext("runtime", st), entity.Position("consumed")),
		logDB:    logDB,
		nowFunc:  func() uint64 { return uint64(time.Now().Unix()) },
	}
}

// SetNowFunc replaces the clock.
func (e *Executor) SetNowFunc(fn func() uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nowFunc = fn
}

// Now returns the executor clock.
func (e *Executor) Now() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.nowFunc()
}

// Setup runs fn outside of any signed call and commits the result.
func (e *Executor) Setup(fn func(*Ledgers) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := fn(e.ledgers); err != nil {
		e.st.Discard()
		return err
	}
	if _, err := e.st.Commit(); err != nil {
		e.st.Discard()
		return pkgerrors.Wrap(err, "commit setup")
	}
	e.updateTotals()
	return nil
}

// Initialize applies the genesis. Ledgers already initialized keep their settings.
func (e *Executor) Initialize(g *Genesis) error {
	return e.Setup(func(l *Ledgers) error {
		if err := l.Market.Initialize(g.Admin, g.FeeRecipient, g.FeePercent); err != nil {
			return err
		}
		if err := l.Staking.Initialize(g.Admin, g.RewardToken, g.YieldRates); err != nil {
			return err
		}
		admin := g.EvolutionAdmin
		if admin.IsZero() {
			admin = g.Admin
		}
		return l.Registry.Initialize(admin)
	})
}

// View runs fn against the committed ledgers. Calls are not admitted while fn runs.
func (e *Executor) View(fn func(*Ledgers) error) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return fn(e.ledgers)
}

// SubscribeReceipts delivers the receipt of every committed call to ch.
func (e *Executor) SubscribeReceipts(ch chan *logdb.Receipt) event.Subscription {
	return e.scope.Track(e.receiptFeed.Subscribe(ch))
}

// Close unsubscribes all receipt subscribers.
func (e *Executor) Close() {
	e.scope.Close()
}

type callFunc func(env *xenv.Environment, receipt *logdb.Receipt) error

// execute runs fn as one all-or-nothing call of the bundle's signer.
func (e *Executor) execute(ledger, op string, b *bundle.Bundle, assetID uint64, fn callFunc) (*logdb.Receipt, error) {
	start := time.Now()
	receipt, err := e.apply(ledger, op, b, assetID, fn)
	metricCallDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"ledger": ledger})
	metricCallCount().AddWithLabel(1, map[string]string{"ledger": ledger, "op": op, "outcome": outcome(err)})
	if err != nil {
		if reverts.IsRevertErr(err) {
			logger.Debug("call reverted", "op", op, "asset", assetID, "err", err)
		} else {
			logger.Warn("call failed", "op", op, "asset", assetID, "err", err)
		}
		return nil, err
	}
	logger.Debug("call committed", "op", op, "asset", receipt.AssetID, "caller", receipt.Caller, "id", receipt.ID)
	e.receiptFeed.Send(receipt)
	return receipt, nil
}

func (e *Executor) apply(ledger, op string, b *bundle.Bundle, assetID uint64, fn callFunc) (*logdb.Receipt, error) {
	if b == nil {
		return nil, reverts.MalformedBundle("missing bundle")
	}
	caller, err := b.Origin()
	if err != nil {
		return nil, reverts.MalformedBundle("bundle signature: " + err.Error())
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	receipt := &logdb.Receipt{
		ID:        b.ID(),
		Ledger:    ledger,
		Operation: op,
		AssetID:   assetID,
		Caller:    caller,
		Timestamp: e.nowFunc(),
	}
	recorder := custody.NewRecorder(e.ledgers.Vault)
	env := xenv.New(e.st, recorder, &xenv.CallContext{
		Caller: caller,
		Time:   receipt.Timestamp,
		Bundle: b,
	})
	if err := env.Atomic(func() error {
		if err := e.consume(receipt.ID, receipt.Timestamp); err != nil {
			return err
		}
		return fn(env, receipt)
	}); err != nil {
		e.st.Discard()
		return nil, err
	}
	if _, err := e.st.Commit(); err != nil {
		// nothing was written, the call is dropped as a whole
		e.st.Discard()
		return nil, pkgerrors.Wrap(err, "commit state")
	}
	e.updateTotals()

	receipt.Transfers = recorder.Transfers()
	if receipt.Bundle, err = rlp.EncodeToBytes(b); err != nil {
		return nil, pkgerrors.Wrap(err, "encode bundle")
	}
	if e.logDB != nil {
		// state is committed at this point, a lost receipt is not a failed call
		if err := e.logDB.Insert(receipt); err != nil {
			logger.Warn("failed to write receipt", "id", receipt.ID, "err", err)
		}
	}
	return receipt, nil
}

// consume marks the bundle executed.
func (e *Executor) consume(id yokai.Bytes32, now uint64) error {
	if err := e.consumed.Insert(id, now); err != nil {
		if errors.Is(err, entity.ErrExists) {
			return reverts.InvalidState("bundle " + id.AbbrevString() + " already executed")
		}
		return err
	}
	return nil
}

func (e *Executor) updateTotals() {
	if listings, err := e.ledgers.Market.TotalListings(); err == nil {
		metricLedgerTotals().SetWithLabel(int64(listings), map[string]string{"counter": "listings"})
	}
	if staked, err := e.ledgers.Staking.TotalStaked(); err == nil {
		metricLedgerTotals().SetWithLabel(int64(staked), map[string]string{"counter": "staked"})
	}
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if reverts.IsRevertErr(err) {
		return reverts.KindOf(err).String()
	}
	return "error"
}
