// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/yokaihunt/custody/builtin"
	"github.com/yokaihunt/custody/builtin/marketplace"
	"github.com/yokaihunt/custody/builtin/registry"
	"github.com/yokaihunt/custody/builtin/staking"
	"github.com/yokaihunt/custody/bundle"
	"github.com/yokaihunt/custody/custody"
	"github.com/yokaihunt/custody/logdb"
	"github.com/yokaihunt/custody/xenv"
	"github.com/yokaihunt/custody/yokai"
)

var (
	marketName   = builtin.Marketplace.Name()
	stakingName  = builtin.Staking.Name()
	registryName = builtin.Registry.Name()
)

// List escrows the asset and opens a listing at price.
func (e *Executor) List(b *bundle.Bundle, assetID, price uint64) (listing *marketplace.Listing, receipt *logdb.Receipt, err error) {
	receipt, err = e.execute(marketName, marketplace.MethodList, b, assetID, func(env *xenv.Environment, _ *logdb.Receipt) (err error) {
		listing, err = e.ledgers.Market.List(env, assetID, price)
		return
	})
	return
}

// Buy settles the sale of a listed asset.
func (e *Executor) Buy(b *bundle.Bundle, assetID uint64) (sale *marketplace.Sale, receipt *logdb.Receipt, err error) {
	receipt, err = e.execute(marketName, marketplace.MethodBuy, b, assetID, func(env *xenv.Environment, _ *logdb.Receipt) (err error) {
		sale, err = e.ledgers.Market.Buy(env, assetID)
		return
	})
	return
}

// Delist returns a listed asset to its seller.
func (e *Executor) Delist(b *bundle.Bundle, assetID uint64) (*logdb.Receipt, error) {
	return e.execute(marketName, marketplace.MethodDelist, b, assetID, func(env *xenv.Environment, _ *logdb.Receipt) error {
		return e.ledgers.Market.Delist(env, assetID)
	})
}

func (e *Executor) UpdatePlatformFee(b *bundle.Bundle, percent uint64) (*logdb.Receipt, error) {
	return e.execute(marketName, marketplace.MethodUpdatePlatformFee, b, 0, func(env *xenv.Environment, _ *logdb.Receipt) error {
		return e.ledgers.Market.UpdatePlatformFee(env, percent)
	})
}

func (e *Executor) UpdateFeeRecipient(b *bundle.Bundle, recipient yokai.Address) (*logdb.Receipt, error) {
	return e.execute(marketName, marketplace.MethodUpdateFeeRecipient, b, 0, func(env *xenv.Environment, _ *logdb.Receipt) error {
		return e.ledgers.Market.UpdateFeeRecipient(env, recipient)
	})
}

func (e *Executor) UpdateMarketAdmin(b *bundle.Bundle, admin yokai.Address) (*logdb.Receipt, error) {
	return e.execute(marketName, marketplace.MethodUpdateAdmin, b, 0, func(env *xenv.Environment, _ *logdb.Receipt) error {
		return e.ledgers.Market.UpdateAdmin(env, admin)
	})
}

// Stake escrows the asset and opens a staking episode.
func (e *Executor) Stake(b *bundle.Bundle, assetID, rate uint64, legendary bool) (info *staking.StakeInfo, receipt *logdb.Receipt, err error) {
	receipt, err = e.execute(stakingName, staking.MethodStake, b, assetID, func(env *xenv.Environment, _ *logdb.Receipt) (err error) {
		info, err = e.ledgers.Staking.Stake(env, assetID, rate, legendary)
		return
	})
	return
}

// Claim pays the accrued yield of a staked asset.
func (e *Executor) Claim(b *bundle.Bundle, assetID uint64) (payout *staking.Payout, receipt *logdb.Receipt, err error) {
	receipt, err = e.execute(stakingName, staking.MethodClaim, b, assetID, func(env *xenv.Environment, r *logdb.Receipt) (err error) {
		if payout, err = e.ledgers.Staking.Claim(env, assetID); err == nil {
			r.Reward = payout.Reward
		}
		return
	})
	return
}

// Unstake pays pending yield and returns the asset to its staker.
func (e *Executor) Unstake(b *bundle.Bundle, assetID uint64) (payout *staking.Payout, receipt *logdb.Receipt, err error) {
	receipt, err = e.execute(stakingName, staking.MethodUnstake, b, assetID, func(env *xenv.Environment, r *logdb.Receipt) (err error) {
		if payout, err = e.ledgers.Staking.Unstake(env, assetID); err == nil {
			r.Reward = payout.Reward
		}
		return
	})
	return
}

func (e *Executor) SetRewardToken(b *bundle.Bundle, assetID uint64) (*logdb.Receipt, error) {
	return e.execute(stakingName, staking.MethodSetRewardToken, b, assetID, func(env *xenv.Environment, _ *logdb.Receipt) error {
		return e.ledgers.Staking.SetRewardToken(env, assetID)
	})
}

func (e *Executor) UpdateYieldRates(b *bundle.Bundle, rates staking.YieldRates) (*logdb.Receipt, error) {
	return e.execute(stakingName, staking.MethodUpdateYieldRates, b, 0, func(env *xenv.Environment, _ *logdb.Receipt) error {
		return e.ledgers.Staking.UpdateYieldRates(env, rates)
	})
}

func (e *Executor) UpdateStakingAdmin(b *bundle.Bundle, admin yokai.Address) (*logdb.Receipt, error) {
	return e.execute(stakingName, staking.MethodUpdateAdmin, b, 0, func(env *xenv.Environment, _ *logdb.Receipt) error {
		return e.ledgers.Staking.UpdateAdmin(env, admin)
	})
}

// RegisterLegendary binds a species to its only legendary asset.
func (e *Executor) RegisterLegendary(b *bundle.Bundle, species string, assetID uint64) (*logdb.Receipt, error) {
	return e.execute(registryName, registry.MethodRegisterLegendary, b, assetID, func(env *xenv.Environment, _ *logdb.Receipt) error {
		return e.ledgers.Registry.Register(env, species, assetID)
	})
}

// RecordEvolution appends the provenance of an evolved asset.
func (e *Executor) RecordEvolution(b *bundle.Bundle, species string, stage uint8, burned []uint64, evolvedAssetID uint64) (rec *registry.EvolutionRecord, receipt *logdb.Receipt, err error) {
	receipt, err = e.execute(registryName, registry.MethodRecordEvolution, b, evolvedAssetID, func(env *xenv.Environment, _ *logdb.Receipt) (err error) {
		rec, err = e.ledgers.Registry.RecordEvolution(env, species, stage, burned, evolvedAssetID)
		return
	})
	return
}

// Evolve mints the evolved asset and records its provenance.
func (e *Executor) Evolve(b *bundle.Bundle, species string, stage uint8, burned []uint64, spec *custody.AssetSpec) (rec *registry.EvolutionRecord, receipt *logdb.Receipt, err error) {
	receipt, err = e.execute(registryName, registry.MethodEvolve, b, 0, func(env *xenv.Environment, r *logdb.Receipt) (err error) {
		if rec, err = e.ledgers.Registry.Evolve(env, species, stage, burned, spec); err == nil {
			r.AssetID = rec.EvolvedAssetID
		}
		return
	})
	return
}

func (e *Executor) UpdateRegistryAdmin(b *bundle.Bundle, admin yokai.Address) (*logdb.Receipt, error) {
	return e.execute(registryName, registry.MethodUpdateAdmin, b, 0, func(env *xenv.Environment, _ *logdb.Receipt) error {
		return e.ledgers.Registry.UpdateAdmin(env, admin)
	})
}
