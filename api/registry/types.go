// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"github.com/yokaihunt/custody/bundle"
	"github.com/yokaihunt/custody/custody"
	"github.com/yokaihunt/custody/yokai"
)

type LegendaryRequest struct {
	Bundle  *bundle.Bundle `json:"bundle"`
	Species string         `json:"species"`
	AssetID uint64         `json:"assetID"`
}

type EvolutionRequest struct {
	Bundle         *bundle.Bundle `json:"bundle"`
	Species        string         `json:"species"`
	Stage          uint8          `json:"stage"`
	BurnedAssets   []uint64       `json:"burnedAssets"`
	EvolvedAssetID uint64         `json:"evolvedAssetID"`
}

// EvolveRequest mints the evolved asset from Asset instead of naming an existing one.
type EvolveRequest struct {
	Bundle       *bundle.Bundle     `json:"bundle"`
	Species      string             `json:"species"`
	Stage        uint8              `json:"stage"`
	BurnedAssets []uint64           `json:"burnedAssets"`
	Asset        *custody.AssetSpec `json:"asset"`
}

type AddressRequest struct {
	Bundle  *bundle.Bundle `json:"bundle"`
	Address *yokai.Address `json:"address"`
}

type Legendary struct {
	Species string `json:"species"`
	AssetID uint64 `json:"assetID"`
}

type Burns struct {
	Stage    uint8  `json:"stage"`
	Required uint64 `json:"required"`
}
