// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bundle

import (
	"fmt"

	"github.com/yokaihunt/custody/reverts"
	"github.com/yokaihunt/custody/yokai"
)

// Reason tags why a bundle was rejected.
type Reason uint8

const (
	ReasonLegCount Reason = iota + 1
	ReasonLegType
	ReasonMethod
	ReasonSender
	ReasonReceiver
	ReasonAsset
	ReasonAmount
	ReasonInsufficientPayment
	ReasonCloseTo
	ReasonClawback
)

var reasonNames = map[Reason]string{
	ReasonLegCount:            "leg count",
	ReasonLegType:             "leg type",
	ReasonMethod:              "method",
	ReasonSender:              "sender",
	ReasonReceiver:            "receiver",
	ReasonAsset:               "asset",
	ReasonAmount:              "amount",
	ReasonInsufficientPayment: "insufficient payment",
	ReasonCloseTo:             "close-to set",
	ReasonClawback:            "clawback set",
}

func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("reason(%d)", uint8(r))
}

// Rejection describes the first mismatch between a bundle and the required shape.
// Index is the leg position, -1 for bundle-level mismatches.
type Rejection struct {
	Reason Reason
	Index  int
	Detail string
}

func (r *Rejection) Error() string {
	if r.Index < 0 {
		return fmt.Sprintf("bundle rejected: %v: %s", r.Reason, r.Detail)
	}
	return fmt.Sprintf("bundle rejected: leg %d: %v: %s", r.Index, r.Reason, r.Detail)
}

// Revert converts the rejection into a ledger revert. A short payment is
// InsufficientFunds, any other mismatch is MalformedBundle.
func (r *Rejection) Revert() *reverts.ErrRevert {
	if r.Reason == ReasonInsufficientPayment {
		return reverts.InsufficientFunds(r.Error())
	}
	return reverts.MalformedBundle(r.Error())
}

func reject(reason Reason, index int, format string, args ...any) *Rejection {
	return &Rejection{reason, index, fmt.Sprintf(format, args...)}
}

// Expect is the required shape of one leg. Zero-valued optional fields are not checked.
type Expect struct {
	Type      LegType
	Sender    yokai.Address
	Receiver  *yokai.Address
	AssetID   *uint64
	Amount    *uint64 // exact amount
	MinAmount *uint64 // lower bound, for payments
	Method    string
}

// Verify checks the bundle against the expected legs, position by position.
// Every leg must leave CloseTo and Clawback zero.
// It's pure and never mutates the bundle.
func Verify(b *Bundle, expected ...Expect) *Rejection {
	if b == nil {
		return reject(ReasonLegCount, -1, "no bundle")
	}
	if b.Len() != len(expected) {
		return reject(ReasonLegCount, -1, "want %d legs, got %d", len(expected), b.Len())
	}
	for i, exp := range expected {
		if rej := verifyLeg(b.body.Legs[i], i, &exp); rej != nil {
			return rej
		}
	}
	return nil
}

func verifyLeg(leg *Leg, i int, exp *Expect) *Rejection {
	if leg.Type != exp.Type {
		return reject(ReasonLegType, i, "want %v, got %v", exp.Type, leg.Type)
	}
	if exp.Method != "" && leg.Method != exp.Method {
		return reject(ReasonMethod, i, "want %q, got %q", exp.Method, leg.Method)
	}
	if leg.Sender != exp.Sender {
		return reject(ReasonSender, i, "want %v, got %v", exp.Sender, leg.Sender)
	}
	if exp.Receiver != nil && leg.Receiver != *exp.Receiver {
		return reject(ReasonReceiver, i, "want %v, got %v", *exp.Receiver, leg.Receiver)
	}
	if exp.AssetID != nil && leg.AssetID != *exp.AssetID {
		return reject(ReasonAsset, i, "want #%d, got #%d", *exp.AssetID, leg.AssetID)
	}
	if exp.Amount != nil && leg.Amount != *exp.Amount {
		return reject(ReasonAmount, i, "want %d, got %d", *exp.Amount, leg.Amount)
	}
	if exp.MinAmount != nil && leg.Amount < *exp.MinAmount {
		return reject(ReasonInsufficientPayment, i, "want at least %d, got %d", *exp.MinAmount, leg.Amount)
	}
	if !leg.CloseTo.IsZero() {
		return reject(ReasonCloseTo, i, "%v", leg.CloseTo)
	}
	if !leg.Clawback.IsZero() {
		return reject(ReasonClawback, i, "%v", leg.Clawback)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

// VerifyCall checks a bundle made of the control call alone.
func VerifyCall(b *Bundle, method string, caller yokai.Address) *Rejection {
	return Verify(b, Expect{Type: LegAppCall, Sender: caller, Method: method})
}

// VerifyDeposit checks the shape of list and stake: the control call followed by a
// transfer of exactly one unit of the asset from the caller into custody.
func VerifyDeposit(b *Bundle, method string, caller, custody yokai.Address, assetID uint64) *Rejection {
	return Verify(b,
		Expect{Type: LegAppCall, Sender: caller, Method: method},
		Expect{
			Type:     LegAssetTransfer,
			Sender:   caller,
			Receiver: &custody,
			AssetID:  &assetID,
			Amount:   ptr(yokai.NFTAmount),
		},
	)
}

// VerifyBuy checks the shape of buy: the control call from the buyer, a payment
// from the buyer to the seller of at least the price, and a transfer of exactly
// one unit of the asset from the seller to the buyer.
func VerifyBuy(b *Bundle, method string, buyer, seller yokai.Address, assetID, price uint64) *Rejection {
	return Verify(b,
		Expect{Type: LegAppCall, Sender: buyer, Method: method},
		Expect{
			Type:      LegPayment,
			Sender:    buyer,
			Receiver:  &seller,
			MinAmount: &price,
		},
		Expect{
			Type:     LegAssetTransfer,
			Sender:   seller,
			Receiver: &buyer,
			AssetID:  &assetID,
			Amount:   ptr(yokai.NFTAmount),
		},
	)
}
