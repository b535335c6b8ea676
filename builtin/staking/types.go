// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import "github.com/yokaihunt/custody/yokai"

// Control call methods.
const (
	MethodStake            = "stake"
	MethodClaim            = "claim"
	MethodUnstake          = "unstake"
	MethodSetRewardToken   = "set_reward_token"
	MethodUpdateYieldRates = "update_yield_rates"
	MethodUpdateAdmin      = "update_admin"
)

// StakeInfo is the staking record of an asset. An inactive record closes the
// staking episode; staking the asset again overwrites it.
type StakeInfo struct {
	AssetID     uint64        `json:"assetID"`
	Staker      yokai.Address `json:"staker"`
	StakedAt    uint64        `json:"stakedAt"`
	LastClaim   uint64        `json:"lastClaim"`
	YieldRate   uint16        `json:"yieldRate"`
	IsLegendary bool          `json:"isLegendary"`
	IsActive    bool          `json:"isActive"`
}

// YieldRates is the per day yield table, in whole reward units.
type YieldRates struct {
	Stage1    uint16 `json:"stage1"`
	Stage2    uint16 `json:"stage2"`
	Legendary uint16 `json:"legendary"`
}

// DefaultYieldRates returns the launch yield table.
func DefaultYieldRates() YieldRates {
	return YieldRates{
		Stage1:    yokai.DefaultStage1Yield,
		Stage2:    yokai.DefaultStage2Yield,
		Legendary: yokai.DefaultLegendaryYield,
	}
}

// ForStage returns the rate of an evolution stage. Base creatures yield nothing.
func (r *YieldRates) ForStage(stage uint8) uint16 {
	switch stage {
	case 1:
		return r.Stage1
	case 2:
		return r.Stage2
	}
	return yokai.DefaultStage0Yield
}

// Payout is the outcome of a claim or unstake.
type Payout struct {
	AssetID     uint64        `json:"assetID"`
	Staker      yokai.Address `json:"staker"`
	Reward      uint64        `json:"reward"`      // whole units
	TokenAmount uint64        `json:"tokenAmount"` // reward token micro-units paid
	Days        uint64        `json:"days"`
}
