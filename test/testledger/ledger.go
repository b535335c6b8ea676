// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testledger builds a funded in-memory executor for tests.
package testledger

import (
	"sync/atomic"

	"github.com/yokaihunt/custody/builtin"
	"github.com/yokaihunt/custody/builtin/marketplace"
	"github.com/yokaihunt/custody/builtin/staking"
	"github.com/yokaihunt/custody/bundle"
	"github.com/yokaihunt/custody/custody"
	"github.com/yokaihunt/custody/genesis"
	"github.com/yokaihunt/custody/logdb"
	"github.com/yokaihunt/custody/lvldb"
	"github.com/yokaihunt/custody/runtime"
	"github.com/yokaihunt/custody/state"
	"github.com/yokaihunt/custody/yokai"
)

// InitialFunds is the payment balance of every dev account.
const InitialFunds = genesis.InitialFunds

type DevAccount = genesis.DevAccount

// DevAccounts returns the pre-funded accounts. The first one is the admin.
func DevAccounts() []DevAccount {
	return genesis.DevAccounts()
}

// Ledger is an initialized executor with a receipt log.
type Ledger struct {
	Exec        *runtime.Executor
	LogDB       *logdb.LogDB
	RewardToken uint64

	db    *lvldb.LevelDB
	now   atomic.Uint64
	nonce atomic.Uint64
}

// New creates a ledger whose clock starts at now.
func New(now uint64) (*Ledger, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	logDB, err := logdb.NewMem()
	if err != nil {
		db.Close()
		return nil, err
	}
	l := &Ledger{
		Exec:  runtime.New(state.New(db, nil), logDB),
		LogDB: logDB,
		db:    db,
	}
	l.now.Store(now)
	l.Exec.SetNowFunc(l.now.Load)

	gene, err := genesis.Devnet(l.Exec)
	if err != nil {
		l.Close()
		return nil, err
	}
	if err := l.Exec.Initialize(gene); err != nil {
		l.Close()
		return nil, err
	}
	l.RewardToken = gene.RewardToken
	return l, nil
}

// Close releases the databases.
func (l *Ledger) Close() {
	l.Exec.Close()
	l.LogDB.Close()
	l.db.Close()
}

// Advance moves the clock forward.
func (l *Ledger) Advance(seconds uint64) {
	l.now.Add(seconds)
}

// Sign builds a bundle of the legs with a fresh nonce, signed by acc.
func (l *Ledger) Sign(acc DevAccount, legs ...*bundle.Leg) *bundle.Bundle {
	return bundle.MustSign(bundle.New(l.nonce.Add(1), legs...), acc.PrivateKey)
}

// Call signs a single app call leg.
func (l *Ledger) Call(acc DevAccount, method string) *bundle.Bundle {
	return l.Sign(acc, bundle.AppCall(acc.Address, method))
}

// MintYokai creates a single-unit asset held by owner.
func (l *Ledger) MintYokai(owner yokai.Address, name string) (assetID uint64, err error) {
	err = l.Exec.Setup(func(ls *runtime.Ledgers) (err error) {
		assetID, err = ls.Vault.CreateAsset(&custody.AssetSpec{Name: name, Unit: "YOKAI", Total: 1, Creator: owner})
		return
	})
	return
}

// ListBundle builds the signed bundle listing assetID for seller.
func (l *Ledger) ListBundle(seller DevAccount, assetID uint64) *bundle.Bundle {
	return l.Sign(seller,
		bundle.AppCall(seller.Address, marketplace.MethodList),
		bundle.AssetTransfer(assetID, seller.Address, builtin.Marketplace.Address, 1),
	)
}

// StakeBundle builds the signed bundle staking assetID for staker.
func (l *Ledger) StakeBundle(staker DevAccount, assetID uint64) *bundle.Bundle {
	return l.Sign(staker,
		bundle.AppCall(staker.Address, staking.MethodStake),
		bundle.AssetTransfer(assetID, staker.Address, builtin.Staking.Address, 1),
	)
}
