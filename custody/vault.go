// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"encoding/binary"
	"fmt"

	"github.com/yokaihunt/custody/entity"
	"github.com/yokaihunt/custody/reverts"
	"github.com/yokaihunt/custody/state"
	"github.com/yokaihunt/custody/yokai"
)

var (
	assetsPos   = entity.Position("assets")
	balancesPos = entity.Position("balances")
	nextIDPos   = entity.Position("next-asset-id")
)

// firstAssetID is the id of the first created asset; lower ids are never assigned.
const firstAssetID uint64 = 1000

type balanceKey struct {
	assetID uint64
	owner   yokai.Address
}

func (k balanceKey) Bytes() []byte {
	return append(binary.BigEndian.AppendUint64(nil, k.assetID), k.owner[:]...)
}

// Vault is a Service keeping assets and balances in the ledger state,
// so custody movements revert together with the ledger records.
type Vault struct {
	assets   *entity.Mapping[entity.Uint64Key, AssetSpec]
	balances *entity.Mapping[balanceKey, uint64]
	nextID   *entity.Counter
}

var (
	_ Service = (*Vault)(nil)
	_ Settler = (*Vault)(nil)
)

// NewVault creates a vault on the given state.
func NewVault(st *state.State) *Vault {
	ctx := entity.NewContext("vault", st)
	return &Vault{
		assets:   entity.NewMapping[entity.Uint64Key, AssetSpec](ctx, assetsPos),
		balances: entity.NewMapping[balanceKey, uint64](ctx, balancesPos),
		nextID:   entity.NewCounter(ctx, nextIDPos),
	}
}

// CreateAsset registers a new asset and credits the creator with the total supply.
func (v *Vault) CreateAsset(spec *AssetSpec) (uint64, error) {
	if err := spec.Validate(); err != nil {
		return 0, err
	}
	n, err := v.nextID.Add(1)
	if err != nil {
		return 0, err
	}
	id := firstAssetID + n - 1
	if err := v.assets.Insert(entity.Uint64Key(id), *spec); err != nil {
		return 0, err
	}
	if err := v.balances.Set(balanceKey{id, spec.Creator}, spec.Total); err != nil {
		return 0, err
	}
	return id, nil
}

// Asset returns the spec of an asset.
func (v *Vault) Asset(assetID uint64) (*AssetSpec, error) {
	spec, found, err := v.assets.Get(entity.Uint64Key(assetID))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, reverts.NotFound(fmt.Sprintf("asset #%d", assetID))
	}
	return &spec, nil
}

// BalanceOf returns the payment balance of owner.
func (v *Vault) BalanceOf(owner yokai.Address) (uint64, error) {
	return v.AssetBalance(PaymentAssetID, owner)
}

// AssetBalance returns the holding of owner in an asset.
func (v *Vault) AssetBalance(assetID uint64, owner yokai.Address) (uint64, error) {
	bal, _, err := v.balances.Get(balanceKey{assetID, owner})
	return bal, err
}

// Fund credits owner with payment currency.
func (v *Vault) Fund(owner yokai.Address, amount uint64) error {
	bal, err := v.BalanceOf(owner)
	if err != nil {
		return err
	}
	if bal+amount < bal {
		return reverts.InvalidParameter("balance overflow")
	}
	return v.balances.Set(balanceKey{PaymentAssetID, owner}, bal+amount)
}

func (v *Vault) TransferAsset(assetID uint64, from, to yokai.Address, amount uint64) error {
	return v.Settle([]*Transfer{{AssetID: assetID, From: from, To: to, Amount: amount}})
}

func (v *Vault) TransferPayment(from, to yokai.Address, amount uint64) error {
	return v.Settle([]*Transfer{{AssetID: PaymentAssetID, From: from, To: to, Amount: amount}})
}

// Settle validates every transfer against the current balances, then applies them all.
func (v *Vault) Settle(transfers []*Transfer) error {
	// total debit and credit per holding
	seen := make(map[balanceKey]bool)
	debits := make(map[balanceKey]uint64)
	credits := make(map[balanceKey]uint64)
	var order []balanceKey

	track := func(k balanceKey) {
		if !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
	}

	for _, t := range transfers {
		if t.Amount == 0 {
			return reverts.InvalidParameter("zero transfer")
		}
		if !t.IsPayment() {
			if _, err := v.Asset(t.AssetID); err != nil {
				return err
			}
		}
		from, to := balanceKey{t.AssetID, t.From}, balanceKey{t.AssetID, t.To}
		track(from)
		track(to)
		if debits[from]+t.Amount < debits[from] || credits[to]+t.Amount < credits[to] {
			return reverts.InvalidParameter("transfer amount overflow")
		}
		debits[from] += t.Amount
		credits[to] += t.Amount
	}

	final := make([]uint64, len(order))
	for i, k := range order {
		bal, err := v.AssetBalance(k.assetID, k.owner)
		if err != nil {
			return err
		}
		if bal+credits[k] < bal {
			return reverts.InvalidParameter("balance overflow")
		}
		bal += credits[k]
		if bal < debits[k] {
			if k.assetID == PaymentAssetID {
				return reverts.InsufficientFunds(fmt.Sprintf("%v: insufficient payment balance", k.owner))
			}
			return reverts.InsufficientFunds(fmt.Sprintf("%v: does not hold asset #%d", k.owner, k.assetID))
		}
		final[i] = bal - debits[k]
	}

	for i, k := range order {
		if err := v.balances.Set(k, final[i]); err != nil {
			return err
		}
	}
	return nil
}
