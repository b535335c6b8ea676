// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"fmt"

	"github.com/yokaihunt/custody/bundle"
	"github.com/yokaihunt/custody/custody"
	"github.com/yokaihunt/custody/economy"
	"github.com/yokaihunt/custody/entity"
	"github.com/yokaihunt/custody/log"
	"github.com/yokaihunt/custody/reverts"
	"github.com/yokaihunt/custody/state"
	"github.com/yokaihunt/custody/xenv"
	"github.com/yokaihunt/custody/yokai"
)

var logger = log.WithContext("pkg", "staking")

var (
	stakesPos      = entity.Position("stakes")
	adminPos       = entity.Position("admin")
	rewardTokenPos = entity.Position("reward-token")
	yieldRatesPos  = entity.Position("yield-rates")
	totalStakedPos = entity.Position("total-staked")
)

// LegendaryIndex tells which assets are registered legendaries.
type LegendaryIndex interface {
	IsLegendaryAsset(assetID uint64) (bool, error)
}

// Staking escrows assets and accrues a daily yield paid in the reward token.
type Staking struct {
	custodyAddr yokai.Address
	legendaries LegendaryIndex
	stakes      *entity.Mapping[entity.Uint64Key, StakeInfo]
	admin       *entity.Variable[yokai.Address]
	rewardToken *entity.Variable[uint64]
	yieldRates  *entity.Variable[YieldRates]
	totalStaked *entity.Counter
}

// New create a new instance. custodyAddr holds the staked assets and the reward token float.
// Legendary stakes are checked against legendaries.
func New(custodyAddr yokai.Address, state *state.State, legendaries LegendaryIndex) *Staking {
	ctx := entity.NewContext("staking", state)
	return &Staking{
		custodyAddr: custodyAddr,
		legendaries: legendaries,
		stakes:      entity.NewMapping[entity.Uint64Key, StakeInfo](ctx, stakesPos),
		admin:       entity.NewVariable[yokai.Address](ctx, adminPos),
		rewardToken: entity.NewVariable[uint64](ctx, rewardTokenPos),
		yieldRates:  entity.NewVariable[YieldRates](ctx, yieldRatesPos),
		totalStaked: entity.NewCounter(ctx, totalStakedPos),
	}
}

// Initialize sets the admin, reward token and yield table once. Later calls are no-ops.
func (s *Staking) Initialize(admin yokai.Address, rewardToken uint64, rates YieldRates) error {
	cur, err := s.admin.Get()
	if err != nil || !cur.IsZero() {
		return err
	}
	if admin.IsZero() {
		return reverts.InvalidParameter("zero admin")
	}
	if err := s.admin.Set(admin); err != nil {
		return err
	}
	if err := s.rewardToken.Set(rewardToken); err != nil {
		return err
	}
	return s.yieldRates.Set(rates)
}

func (s *Staking) CustodyAddress() yokai.Address {
	return s.custodyAddr
}

// GetStakeInfo returns a copy of the staking record of the asset.
func (s *Staking) GetStakeInfo(assetID uint64) (*StakeInfo, error) {
	info, found, err := s.stakes.Get(entity.Uint64Key(assetID))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, reverts.NotFound(fmt.Sprintf("asset #%d never staked", assetID))
	}
	return &info, nil
}

// IsStaked reports whether the asset is in an active staking episode.
func (s *Staking) IsStaked(assetID uint64) (bool, error) {
	info, found, err := s.stakes.Get(entity.Uint64Key(assetID))
	if err != nil {
		return false, err
	}
	return found && info.IsActive, nil
}

// GetPendingYield returns the whole-unit reward claimable at now, zero if the asset is not staked.
func (s *Staking) GetPendingYield(assetID, now uint64) (uint64, error) {
	info, found, err := s.stakes.Get(entity.Uint64Key(assetID))
	if err != nil || !found || !info.IsActive {
		return 0, err
	}
	reward, _ := economy.Accrue(uint64(info.YieldRate), info.LastClaim, now)
	return reward, nil
}

// TotalStaked returns the count of active stakes.
func (s *Staking) TotalStaked() (uint64, error) {
	return s.totalStaked.Get()
}

func (s *Staking) RewardToken() (uint64, error) {
	return s.rewardToken.Get()
}

func (s *Staking) YieldRates() (YieldRates, error) {
	return s.yieldRates.GetOr(DefaultYieldRates())
}

// YieldRateForStage looks the stage up in the current yield table.
func (s *Staking) YieldRateForStage(stage uint8) (uint16, error) {
	rates, err := s.YieldRates()
	if err != nil {
		return 0, err
	}
	return rates.ForStage(stage), nil
}

func (s *Staking) Admin() (yokai.Address, error) {
	return s.admin.Get()
}

// ownedStake returns the caller's active stake of the asset.
func (s *Staking) ownedStake(env *xenv.Environment, assetID uint64, method string) (*StakeInfo, error) {
	info, err := s.GetStakeInfo(assetID)
	if err != nil {
		return nil, err
	}
	if !info.IsActive {
		return nil, reverts.InvalidState(fmt.Sprintf("asset #%d not staked", assetID))
	}
	if info.Staker != env.Caller() {
		return nil, reverts.NotAuthorized("only the staker can " + method)
	}
	if rej := bundle.VerifyCall(env.Bundle(), method, env.Caller()); rej != nil {
		return nil, rej.Revert()
	}
	return info, nil
}

// rateFor checks the declared stake terms against the yield table and the
// legendary index, and returns the rate the stake earns.
func (s *Staking) rateFor(assetID, declaredRate uint64, isLegendary bool) (uint16, error) {
	if declaredRate == 0 {
		return 0, reverts.InvalidParameter("yield rate must be positive")
	}
	legendary, err := s.legendaries.IsLegendaryAsset(assetID)
	if err != nil {
		return 0, err
	}
	if legendary != isLegendary {
		return 0, reverts.InvalidParameter(fmt.Sprintf("asset #%d legendary flag does not match the registry", assetID))
	}
	rates, err := s.YieldRates()
	if err != nil {
		return 0, err
	}
	if legendary {
		return rates.Legendary, nil
	}
	if declaredRate != uint64(rates.Stage1) && declaredRate != uint64(rates.Stage2) {
		return 0, reverts.InvalidParameter(fmt.Sprintf("yield rate %d is not a stage rate", declaredRate))
	}
	return uint16(declaredRate), nil
}

// Stake escrows the asset and opens a staking episode. The declared rate must
// be one of the stage rates of the yield table. Registered legendaries must be
// declared as such and earn the legendary rate.
func (s *Staking) Stake(env *xenv.Environment, assetID, declaredRate uint64, isLegendary bool) (*StakeInfo, error) {
	var info *StakeInfo
	err := env.Atomic(func() error {
		rate, err := s.rateFor(assetID, declaredRate, isLegendary)
		if err != nil {
			return err
		}
		if rej := bundle.VerifyDeposit(env.Bundle(), MethodStake, env.Caller(), s.custodyAddr, assetID); rej != nil {
			return rej.Revert()
		}
		staked, err := s.IsStaked(assetID)
		if err != nil {
			return err
		}
		if staked {
			return reverts.InvalidState(fmt.Sprintf("asset #%d already staked", assetID))
		}

		info = &StakeInfo{
			AssetID:     assetID,
			Staker:      env.Caller(),
			StakedAt:    env.Time(),
			LastClaim:   env.Time(),
			YieldRate:   rate,
			IsLegendary: isLegendary,
			IsActive:    true,
		}
		if err := s.stakes.Set(entity.Uint64Key(assetID), *info); err != nil {
			return err
		}
		if _, err := s.totalStaked.Add(1); err != nil {
			return err
		}
		return env.Settle(&custody.Transfer{
			AssetID: assetID,
			From:    env.Caller(),
			To:      s.custodyAddr,
			Amount:  yokai.NFTAmount,
		})
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("staked", "asset", assetID, "staker", env.Caller(), "rate", info.YieldRate)
	return info, nil
}

// rewardTransfer builds the reward token payout of reward whole units.
func (s *Staking) rewardTransfer(to yokai.Address, reward uint64) (*custody.Transfer, error) {
	token, err := s.rewardToken.Get()
	if err != nil {
		return nil, err
	}
	if token == 0 {
		return nil, reverts.InvalidState("reward token not set")
	}
	amount, err := economy.ScaleReward(reward)
	if err != nil {
		return nil, err
	}
	return &custody.Transfer{AssetID: token, From: s.custodyAddr, To: to, Amount: amount}, nil
}

// Claim pays the yield of the whole days since the last claim. The last claim
// moves to now, so any partial day is forfeited.
func (s *Staking) Claim(env *xenv.Environment, assetID uint64) (*Payout, error) {
	var payout *Payout
	err := env.Atomic(func() error {
		info, err := s.ownedStake(env, assetID, MethodClaim)
		if err != nil {
			return err
		}
		reward, days := economy.Accrue(uint64(info.YieldRate), info.LastClaim, env.Time())
		if reward == 0 {
			return reverts.NothingToClaim(fmt.Sprintf("asset #%d has no whole day to claim", assetID))
		}
		transfer, err := s.rewardTransfer(info.Staker, reward)
		if err != nil {
			return err
		}

		info.LastClaim = env.Time()
		if err := s.stakes.Set(entity.Uint64Key(assetID), *info); err != nil {
			return err
		}
		if err := env.Settle(transfer); err != nil {
			return err
		}
		payout = &Payout{AssetID: assetID, Staker: info.Staker, Reward: reward, TokenAmount: transfer.Amount, Days: days}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("claimed", "asset", assetID, "staker", payout.Staker, "reward", payout.Reward)
	return payout, nil
}

// Unstake pays any pending yield, returns the asset to the staker and closes the episode.
// A zero reward is skipped, not an error.
func (s *Staking) Unstake(env *xenv.Environment, assetID uint64) (*Payout, error) {
	var payout *Payout
	err := env.Atomic(func() error {
		info, err := s.ownedStake(env, assetID, MethodUnstake)
		if err != nil {
			return err
		}
		reward, days := economy.Accrue(uint64(info.YieldRate), info.LastClaim, env.Time())
		payout = &Payout{AssetID: assetID, Staker: info.Staker, Reward: reward, Days: days}

		var transfers []*custody.Transfer
		if reward > 0 {
			transfer, err := s.rewardTransfer(info.Staker, reward)
			if err != nil {
				return err
			}
			payout.TokenAmount = transfer.Amount
			transfers = append(transfers, transfer)
		}
		transfers = append(transfers, &custody.Transfer{
			AssetID: assetID,
			From:    s.custodyAddr,
			To:      info.Staker,
			Amount:  yokai.NFTAmount,
		})

		if env.Time() > info.LastClaim {
			info.LastClaim = env.Time()
		}
		info.IsActive = false
		if err := s.stakes.Set(entity.Uint64Key(assetID), *info); err != nil {
			return err
		}
		if _, err := s.totalStaked.Sub(1); err != nil {
			return err
		}
		return env.Settle(transfers...)
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("unstaked", "asset", assetID, "staker", payout.Staker, "reward", payout.Reward)
	return payout, nil
}

func (s *Staking) requireAdmin(env *xenv.Environment, method string) error {
	admin, err := s.admin.Get()
	if err != nil {
		return err
	}
	if admin != env.Caller() {
		return reverts.NotAuthorized("caller is not the staking admin")
	}
	if rej := bundle.VerifyCall(env.Bundle(), method, env.Caller()); rej != nil {
		return rej.Revert()
	}
	return nil
}

// SetRewardToken sets the asset rewards are paid in. Admin only.
func (s *Staking) SetRewardToken(env *xenv.Environment, assetID uint64) error {
	return env.Atomic(func() error {
		if err := s.requireAdmin(env, MethodSetRewardToken); err != nil {
			return err
		}
		if assetID == custody.PaymentAssetID {
			return reverts.InvalidParameter("reward token must be an asset")
		}
		return s.rewardToken.Set(assetID)
	})
}

// UpdateYieldRates replaces the yield table. Admin only.
// Running stakes keep the rate they were opened with.
func (s *Staking) UpdateYieldRates(env *xenv.Environment, rates YieldRates) error {
	return env.Atomic(func() error {
		if err := s.requireAdmin(env, MethodUpdateYieldRates); err != nil {
			return err
		}
		return s.yieldRates.Set(rates)
	})
}

// UpdateAdmin hands the admin role over. Admin only.
func (s *Staking) UpdateAdmin(env *xenv.Environment, admin yokai.Address) error {
	return env.Atomic(func() error {
		if err := s.requireAdmin(env, MethodUpdateAdmin); err != nil {
			return err
		}
		if admin.IsZero() {
			return reverts.InvalidParameter("zero admin")
		}
		return s.admin.Set(admin)
	})
}
