// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/yokaihunt/custody/builtin/staking"
	"github.com/yokaihunt/custody/yokai"
)

// Genesis is the initial ledger setup.
type Genesis struct {
	Admin          yokai.Address
	FeeRecipient   yokai.Address
	FeePercent     uint64
	RewardToken    uint64 // zero leaves claims disabled until set by the admin
	YieldRates     staking.YieldRates
	EvolutionAdmin yokai.Address
}
