// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"github.com/yokaihunt/custody/builtin/staking"
	"github.com/yokaihunt/custody/bundle"
	"github.com/yokaihunt/custody/yokai"
)

type StakeRequest struct {
	Bundle    *bundle.Bundle `json:"bundle"`
	AssetID   uint64         `json:"assetID"`
	YieldRate uint64         `json:"yieldRate"`
	Legendary bool           `json:"legendary"`
}

// AssetRequest is the body of claim, unstake and reward token updates.
type AssetRequest struct {
	Bundle  *bundle.Bundle `json:"bundle"`
	AssetID uint64         `json:"assetID"`
}

type RatesRequest struct {
	Bundle *bundle.Bundle      `json:"bundle"`
	Rates  *staking.YieldRates `json:"rates"`
}

type AddressRequest struct {
	Bundle  *bundle.Bundle `json:"bundle"`
	Address *yokai.Address `json:"address"`
}

type Pending struct {
	AssetID uint64 `json:"assetID"`
	Reward  uint64 `json:"reward"`
	At      uint64 `json:"at"`
}

type Settings struct {
	Rates       staking.YieldRates `json:"rates"`
	RewardToken uint64             `json:"rewardToken"`
	TotalStaked uint64             `json:"totalStaked"`
	Admin       yokai.Address      `json:"admin"`
	Custody     yokai.Address      `json:"custody"`
}
