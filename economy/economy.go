// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package economy holds the fee and yield arithmetic shared by the ledgers.
// All functions are pure and use floor division only.
package economy

import (
	"math"

	"github.com/holiman/uint256"

	"github.com/yokaihunt/custody/reverts"
	"github.com/yokaihunt/custody/yokai"
)

var hundred = uint256.NewInt(100)

// SplitFee splits total into the platform fee, floor(total*percent/100), and the remainder.
// Percentages above the cap are rejected.
func SplitFee(total, percent uint64) (fee, remainder uint64, err error) {
	if err := CheckFeePercent(percent); err != nil {
		return 0, 0, err
	}
	// total*percent may exceed 64 bits before the division
	f := new(uint256.Int).Mul(uint256.NewInt(total), uint256.NewInt(percent))
	f.Div(f, hundred)

	fee = f.Uint64()
	return fee, total - fee, nil
}

// CheckFeePercent validates a platform fee percentage.
func CheckFeePercent(percent uint64) error {
	if percent > yokai.MaxPlatformFeePercent {
		return reverts.InvalidParameter("fee percent above maximum")
	}
	return nil
}

// ElapsedDays returns the whole days between lastClaim and now, zero if now is not after lastClaim.
func ElapsedDays(lastClaim, now uint64) uint64 {
	if now <= lastClaim {
		return 0
	}
	return (now - lastClaim) / yokai.SecondsPerDay
}

// Accrue returns the reward owed for the whole days elapsed since lastClaim.
// The reward saturates at the maximum uint64.
func Accrue(rate, lastClaim, now uint64) (reward, days uint64) {
	days = ElapsedDays(lastClaim, now)
	r, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(rate), uint256.NewInt(days))
	if overflow || !r.IsUint64() {
		return math.MaxUint64, days
	}
	return r.Uint64(), days
}

// ScaleReward converts a whole-unit reward into reward token micro-units.
func ScaleReward(reward uint64) (uint64, error) {
	r := new(uint256.Int).Mul(uint256.NewInt(reward), uint256.NewInt(yokai.RewardUnit))
	if !r.IsUint64() {
		return 0, reverts.InvalidParameter("reward overflows token amount")
	}
	return r.Uint64(), nil
}
