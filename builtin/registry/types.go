// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import "github.com/yokaihunt/custody/yokai"

// Control call methods.
const (
	MethodRegisterLegendary = "register_legendary"
	MethodRecordEvolution   = "record_evolution"
	MethodEvolve            = "evolve"
	MethodUpdateAdmin       = "update_admin"
)

// EvolutionRecord is the provenance of an evolved asset. Never mutated once written.
type EvolutionRecord struct {
	BaseSpecies    string   `json:"baseSpecies"`
	Stage          uint8    `json:"stage"`
	BurnedAssets   []uint64 `json:"burnedAssets"`
	EvolvedAssetID uint64   `json:"evolvedAssetID"`
	EvolvedAt      uint64   `json:"evolvedAt"`
}

// RequiredBurns returns the number of assets burned to reach the stage, zero if unreachable.
func RequiredBurns(stage uint8) uint64 {
	return yokai.RequiredBurns(stage)
}
