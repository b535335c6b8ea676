// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package market

import (
	"github.com/yokaihunt/custody/bundle"
	"github.com/yokaihunt/custody/yokai"
)

type ListRequest struct {
	Bundle  *bundle.Bundle `json:"bundle"`
	AssetID uint64         `json:"assetID"`
	Price   uint64         `json:"price"`
}

// AssetRequest is the body of buy and delist.
type AssetRequest struct {
	Bundle  *bundle.Bundle `json:"bundle"`
	AssetID uint64         `json:"assetID"`
}

type FeeRequest struct {
	Bundle  *bundle.Bundle `json:"bundle"`
	Percent uint64         `json:"percent"`
}

type AddressRequest struct {
	Bundle  *bundle.Bundle `json:"bundle"`
	Address *yokai.Address `json:"address"`
}

type Stats struct {
	TotalListings uint64        `json:"totalListings"`
	PlatformFee   uint64        `json:"platformFee"`
	FeeRecipient  yokai.Address `json:"feeRecipient"`
	Admin         yokai.Address `json:"admin"`
	Custody       yokai.Address `json:"custody"`
}
