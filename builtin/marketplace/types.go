// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package marketplace

import "github.com/yokaihunt/custody/yokai"

// Control call methods.
const (
	MethodList               = "list"
	MethodBuy                = "buy"
	MethodDelist             = "delist"
	MethodUpdatePlatformFee  = "update_platform_fee"
	MethodUpdateFeeRecipient = "update_fee_recipient"
	MethodUpdateAdmin        = "update_admin"
)

// Listing is the marketplace record of an asset. An inactive listing is history;
// listing the asset again overwrites it.
type Listing struct {
	AssetID  uint64        `json:"assetID"`
	Seller   yokai.Address `json:"seller"`
	Price    uint64        `json:"price"`
	ListedAt uint64        `json:"listedAt"`
	IsActive bool          `json:"isActive"`
}

// Sale is the outcome of a buy.
type Sale struct {
	AssetID      uint64        `json:"assetID"`
	Seller       yokai.Address `json:"seller"`
	Buyer        yokai.Address `json:"buyer"`
	Price        uint64        `json:"price"`
	PlatformFee  uint64        `json:"platformFee"`
	SellerAmount uint64        `json:"sellerAmount"`
}
