// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package marketplace

import (
	"fmt"

	"github.com/yokaihunt/custody/bundle"
	"github.com/yokaihunt/custody/custody"
	"github.com/yokaihunt/custody/economy"
	"github.com/yokaihunt/custody/entity"
	"github.com/yokaihunt/custody/log"
	"github.com/yokaihunt/custody/reverts"
	"github.com/yokaihunt/custody/state"
	"github.com/yokaihunt/custody/xenv"
	"github.com/yokaihunt/custody/yokai"
)

var logger = log.WithContext("pkg", "marketplace")

var (
	listingsPos      = entity.Position("listings")
	adminPos         = entity.Position("admin")
	feeRecipientPos  = entity.Position("fee-recipient")
	feePercentPos    = entity.Position("fee-percent")
	totalListingsPos = entity.Position("total-listings")
)

// Marketplace escrows listed assets and exchanges them for payment.
type Marketplace struct {
	custodyAddr   yokai.Address
	listings      *entity.Mapping[entity.Uint64Key, Listing]
	admin         *entity.Variable[yokai.Address]
	feeRecipient  *entity.Variable[yokai.Address]
	feePercent    *entity.Variable[uint64]
	totalListings *entity.Counter
}

// New create a new instance. custodyAddr is the address assets are escrowed at.
func New(custodyAddr yokai.Address, state *state.State) *Marketplace {
	ctx := entity.NewContext("market", state)
	return &Marketplace{
		custodyAddr:   custodyAddr,
		listings:      entity.NewMapping[entity.Uint64Key, Listing](ctx, listingsPos),
		admin:         entity.NewVariable[yokai.Address](ctx, adminPos),
		feeRecipient:  entity.NewVariable[yokai.Address](ctx, feeRecipientPos),
		feePercent:    entity.NewVariable[uint64](ctx, feePercentPos),
		totalListings: entity.NewCounter(ctx, totalListingsPos),
	}
}

// Initialize sets the principals and fee once. Later calls are no-ops.
func (m *Marketplace) Initialize(admin, feeRecipient yokai.Address, feePercent uint64) error {
	cur, err := m.admin.Get()
	if err != nil || !cur.IsZero() {
		return err
	}
	if admin.IsZero() || feeRecipient.IsZero() {
		return reverts.InvalidParameter("zero principal")
	}
	if err := economy.CheckFeePercent(feePercent); err != nil {
		return err
	}
	if err := m.admin.Set(admin); err != nil {
		return err
	}
	if err := m.feeRecipient.Set(feeRecipient); err != nil {
		return err
	}
	return m.feePercent.Set(feePercent)
}

// CustodyAddress returns the escrow address.
func (m *Marketplace) CustodyAddress() yokai.Address {
	return m.custodyAddr
}

// GetListing returns a copy of the listing of the asset.
func (m *Marketplace) GetListing(assetID uint64) (*Listing, error) {
	listing, found, err := m.listings.Get(entity.Uint64Key(assetID))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, reverts.NotFound(fmt.Sprintf("asset #%d never listed", assetID))
	}
	return &listing, nil
}

// IsListed reports whether the asset has an active listing.
func (m *Marketplace) IsListed(assetID uint64) (bool, error) {
	listing, found, err := m.listings.Get(entity.Uint64Key(assetID))
	if err != nil {
		return false, err
	}
	return found && listing.IsActive, nil
}

// activeListing returns the active listing of the asset, or the revert explaining why there is none.
func (m *Marketplace) activeListing(assetID uint64) (*Listing, error) {
	listing, err := m.GetListing(assetID)
	if err != nil {
		return nil, err
	}
	if !listing.IsActive {
		return nil, reverts.InvalidState(fmt.Sprintf("asset #%d not listed", assetID))
	}
	return listing, nil
}

// TotalListings returns the count of listings ever opened.
func (m *Marketplace) TotalListings() (uint64, error) {
	return m.totalListings.Get()
}

// PlatformFee returns the fee percent charged on sales.
func (m *Marketplace) PlatformFee() (uint64, error) {
	return m.feePercent.Get()
}

func (m *Marketplace) FeeRecipient() (yokai.Address, error) {
	return m.feeRecipient.Get()
}

func (m *Marketplace) Admin() (yokai.Address, error) {
	return m.admin.Get()
}

// List escrows the asset and opens a listing for it at price.
func (m *Marketplace) List(env *xenv.Environment, assetID, price uint64) (*Listing, error) {
	var listing *Listing
	err := env.Atomic(func() error {
		if price == 0 {
			return reverts.InvalidParameter("price must be positive")
		}
		if rej := bundle.VerifyDeposit(env.Bundle(), MethodList, env.Caller(), m.custodyAddr, assetID); rej != nil {
			return rej.Revert()
		}
		listed, err := m.IsListed(assetID)
		if err != nil {
			return err
		}
		if listed {
			return reverts.InvalidState(fmt.Sprintf("asset #%d already listed", assetID))
		}

		listing = &Listing{
			AssetID:  assetID,
			Seller:   env.Caller(),
			Price:    price,
			ListedAt: env.Time(),
			IsActive: true,
		}
		if err := m.listings.Set(entity.Uint64Key(assetID), *listing); err != nil {
			return err
		}
		if _, err := m.totalListings.Add(1); err != nil {
			return err
		}
		return env.Settle(&custody.Transfer{
			AssetID: assetID,
			From:    env.Caller(),
			To:      m.custodyAddr,
			Amount:  yokai.NFTAmount,
		})
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("listed", "asset", assetID, "seller", env.Caller(), "price", price)
	return listing, nil
}

// Buy pays the seller and the platform fee out of the buyer's payment leg and
// releases the asset from escrow to the buyer.
func (m *Marketplace) Buy(env *xenv.Environment, assetID uint64) (*Sale, error) {
	var sale *Sale
	err := env.Atomic(func() error {
		listing, err := m.activeListing(assetID)
		if err != nil {
			return err
		}
		buyer := env.Caller()
		if rej := bundle.VerifyBuy(env.Bundle(), MethodBuy, buyer, listing.Seller, assetID, listing.Price); rej != nil {
			return rej.Revert()
		}

		percent, err := m.feePercent.Get()
		if err != nil {
			return err
		}
		fee, sellerAmount, err := economy.SplitFee(listing.Price, percent)
		if err != nil {
			return err
		}
		recipient, err := m.feeRecipient.Get()
		if err != nil {
			return err
		}

		listing.IsActive = false
		if err := m.listings.Set(entity.Uint64Key(assetID), *listing); err != nil {
			return err
		}

		transfers := []*custody.Transfer{
			{AssetID: custody.PaymentAssetID, From: buyer, To: listing.Seller, Amount: sellerAmount},
		}
		if fee > 0 {
			transfers = append(transfers, &custody.Transfer{
				AssetID: custody.PaymentAssetID, From: buyer, To: recipient, Amount: fee,
			})
		}
		transfers = append(transfers, &custody.Transfer{
			AssetID: assetID, From: m.custodyAddr, To: buyer, Amount: yokai.NFTAmount,
		})
		if err := env.Settle(transfers...); err != nil {
			return err
		}

		sale = &Sale{
			AssetID:      assetID,
			Seller:       listing.Seller,
			Buyer:        buyer,
			Price:        listing.Price,
			PlatformFee:  fee,
			SellerAmount: sellerAmount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("sold", "asset", assetID, "buyer", sale.Buyer, "price", sale.Price, "fee", sale.PlatformFee)
	return sale, nil
}

// Delist closes the seller's listing and returns the asset to the seller.
func (m *Marketplace) Delist(env *xenv.Environment, assetID uint64) error {
	err := env.Atomic(func() error {
		listing, err := m.activeListing(assetID)
		if err != nil {
			return err
		}
		if listing.Seller != env.Caller() {
			return reverts.NotAuthorized("only the seller can delist")
		}
		if rej := bundle.VerifyCall(env.Bundle(), MethodDelist, env.Caller()); rej != nil {
			return rej.Revert()
		}

		listing.IsActive = false
		if err := m.listings.Set(entity.Uint64Key(assetID), *listing); err != nil {
			return err
		}
		return env.Settle(&custody.Transfer{
			AssetID: assetID,
			From:    m.custodyAddr,
			To:      listing.Seller,
			Amount:  yokai.NFTAmount,
		})
	})
	if err != nil {
		return err
	}
	logger.Debug("delisted", "asset", assetID, "seller", env.Caller())
	return nil
}

func (m *Marketplace) requireAdmin(env *xenv.Environment, method string) error {
	admin, err := m.admin.Get()
	if err != nil {
		return err
	}
	if admin != env.Caller() {
		return reverts.NotAuthorized("caller is not the marketplace admin")
	}
	if rej := bundle.VerifyCall(env.Bundle(), method, env.Caller()); rej != nil {
		return rej.Revert()
	}
	return nil
}

// UpdatePlatformFee sets the fee percent. Admin only.
func (m *Marketplace) UpdatePlatformFee(env *xenv.Environment, percent uint64) error {
	return env.Atomic(func() error {
		if err := m.requireAdmin(env, MethodUpdatePlatformFee); err != nil {
			return err
		}
		if err := economy.CheckFeePercent(percent); err != nil {
			return err
		}
		return m.feePercent.Set(percent)
	})
}

// UpdateFeeRecipient hands the fee recipient role over. Only the current recipient may do it.
func (m *Marketplace) UpdateFeeRecipient(env *xenv.Environment, recipient yokai.Address) error {
	return env.Atomic(func() error {
		cur, err := m.feeRecipient.Get()
		if err != nil {
			return err
		}
		if cur != env.Caller() {
			return reverts.NotAuthorized("caller is not the fee recipient")
		}
		if rej := bundle.VerifyCall(env.Bundle(), MethodUpdateFeeRecipient, env.Caller()); rej != nil {
			return rej.Revert()
		}
		if recipient.IsZero() {
			return reverts.InvalidParameter("zero fee recipient")
		}
		return m.feeRecipient.Set(recipient)
	})
}

// UpdateAdmin hands the admin role over. Admin only.
func (m *Marketplace) UpdateAdmin(env *xenv.Environment, admin yokai.Address) error {
	return env.Atomic(func() error {
		if err := m.requireAdmin(env, MethodUpdateAdmin); err != nil {
			return err
		}
		if admin.IsZero() {
			return reverts.InvalidParameter("zero admin")
		}
		return m.admin.Set(admin)
	})
}
