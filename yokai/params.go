// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package yokai

// Ledger wide constants.
const (
	SecondsPerDay uint64 = 86400 // length of one accrual period
	RewardUnit    uint64 = 1_000_000

	DefaultPlatformFeePercent uint64 = 2
	MaxPlatformFeePercent     uint64 = 10

	MaxAssetDecimals uint32 = 19

	NFTAmount uint64 = 1 // every custody leg moves exactly one unit
)

// Default yield rates in whole reward tokens per day, by evolution stage.
const (
	DefaultStage0Yield    uint16 = 0
	DefaultStage1Yield    uint16 = 100
	DefaultStage2Yield    uint16 = 250
	DefaultLegendaryYield uint16 = 1000
)

// RequiredBurns returns the number of same-species assets burned to reach the evolution stage.
// Zero means the stage cannot be reached by evolution.
func RequiredBurns(stage uint8) uint64 {
	switch stage {
	case 1:
		return 2
	case 2:
		return 4
	default:
		return 0
	}
}
