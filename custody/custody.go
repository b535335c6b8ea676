// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package custody defines the asset movement primitives the ledgers depend on,
// and a vault implementing them on the ledger state.
package custody

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/yokaihunt/custody/reverts"
	"github.com/yokaihunt/custody/yokai"
)

// PaymentAssetID identifies the native payment currency in a Transfer.
const PaymentAssetID uint64 = 0

// AssetSpec describes an asset to create.
type AssetSpec struct {
	Name         string        `json:"name"`
	Unit         string        `json:"unit"`
	Total        uint64        `json:"total"`
	Decimals     uint32        `json:"decimals"`
	URL          string        `json:"url"`
	MetadataHash yokai.Bytes32 `json:"metadataHash"`
	Creator      yokai.Address `json:"creator"` // receives the total supply
}

// Validate checks the spec is mintable.
func (s *AssetSpec) Validate() error {
	if s.Name == "" {
		return reverts.InvalidParameter("asset name required")
	}
	if s.Total == 0 {
		return reverts.InvalidParameter("asset total must be positive")
	}
	if s.Decimals > yokai.MaxAssetDecimals {
		return reverts.InvalidParameter(fmt.Sprintf("asset decimals above %d", yokai.MaxAssetDecimals))
	}
	if s.Creator.IsZero() {
		return reverts.InvalidParameter("asset creator required")
	}
	return nil
}

// Transfer is one movement of value. AssetID PaymentAssetID moves payment currency.
type Transfer struct {
	AssetID uint64        `json:"assetID"`
	From    yokai.Address `json:"from"`
	To      yokai.Address `json:"to"`
	Amount  uint64        `json:"amount"`
}

func (t *Transfer) IsPayment() bool {
	return t.AssetID == PaymentAssetID
}

func (t *Transfer) String() string {
	if t.IsPayment() {
		return fmt.Sprintf("pay(%v -> %v, %d)", t.From, t.To, t.Amount)
	}
	return fmt.Sprintf("asset(#%d, %v -> %v, %d)", t.AssetID, t.From, t.To, t.Amount)
}

// Service is the minting service the ledgers move custody through.
// A failed transfer must leave balances unchanged.
type Service interface {
	CreateAsset(spec *AssetSpec) (uint64, error)
	TransferAsset(assetID uint64, from, to yokai.Address, amount uint64) error
	TransferPayment(from, to yokai.Address, amount uint64) error
}

// Settler is implemented by services able to apply a set of transfers all-or-nothing.
type Settler interface {
	Settle(transfers []*Transfer) error
}

// Settle applies the transfers through svc, atomically if svc is a Settler.
func Settle(svc Service, transfers []*Transfer) error {
	if len(transfers) == 0 {
		return nil
	}
	if s, ok := svc.(Settler); ok {
		return s.Settle(transfers)
	}
	for _, t := range transfers {
		var err error
		if t.IsPayment() {
			err = svc.TransferPayment(t.From, t.To, t.Amount)
		} else {
			err = svc.TransferAsset(t.AssetID, t.From, t.To, t.Amount)
		}
		if err != nil {
			return errors.WithMessagef(err, "settle %v", t)
		}
	}
	return nil
}
