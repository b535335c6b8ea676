// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package receipts

import (
	"net/http"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/yokaihunt/custody/api/utils"
	"github.com/yokaihunt/custody/bundle"
	"github.com/yokaihunt/custody/custody"
	"github.com/yokaihunt/custody/logdb"
	"github.com/yokaihunt/custody/yokai"
)

type Receipt struct {
	Seq       uint64              `json:"seq"`
	ID        yokai.Bytes32       `json:"id"`
	Ledger    string              `json:"ledger"`
	Operation string              `json:"operation"`
	AssetID   uint64              `json:"assetID"`
	Caller    yokai.Address       `json:"caller"`
	Timestamp uint64              `json:"timestamp"`
	Reward    uint64              `json:"reward"`
	Transfers []*custody.Transfer `json:"transfers"`
	Bundle    *bundle.Bundle      `json:"bundle,omitempty"`
}

// ConvertReceipt converts a stored receipt, decoding its bundle.
func ConvertReceipt(r *logdb.Receipt) (*Receipt, error) {
	receipt := &Receipt{
		Seq:       r.Seq,
		ID:        r.ID,
		Ledger:    r.Ledger,
		Operation: r.Operation,
		AssetID:   r.AssetID,
		Caller:    r.Caller,
		Timestamp: r.Timestamp,
		Reward:    r.Reward,
		Transfers: r.Transfers,
	}
	if receipt.Transfers == nil {
		receipt.Transfers = []*custody.Transfer{}
	}
	if len(r.Bundle) > 0 {
		var b bundle.Bundle
		if err := rlp.DecodeBytes(r.Bundle, &b); err != nil {
			return nil, err
		}
		receipt.Bundle = &b
	}
	return receipt, nil
}

// Result is the response of a committed call.
type Result struct {
	Receipt *Receipt `json:"receipt"`
	Output  any      `json:"output,omitempty"`
}

// NewResult converts the receipt of a call and its ledger output.
func NewResult(r *logdb.Receipt, output any) (*Result, error) {
	receipt, err := ConvertReceipt(r)
	if err != nil {
		return nil, err
	}
	return &Result{receipt, output}, nil
}

type Range struct {
	From *uint64 `json:"from"`
	To   *uint64 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type ReceiptFilter struct {
	AssetID   *uint64        `json:"assetID"`
	Caller    *yokai.Address `json:"caller"`
	Ledger    string         `json:"ledger"`
	Operation string         `json:"operation"`
	Range     *Range         `json:"range"`
	Options   *Options       `json:"options"`
	Order     logdb.Order    `json:"order"`
}

type TransferFilter struct {
	AssetID   *uint64        `json:"assetID"`
	Sender    *yokai.Address `json:"sender"`
	Recipient *yokai.Address `json:"recipient"`
	Range     *Range         `json:"range"`
	Options   *Options       `json:"options"`
	Order     logdb.Order    `json:"order"`
}

type FilteredTransfer struct {
	ReceiptID yokai.Bytes32 `json:"receiptID"`
	Seq       uint64        `json:"seq"`
	Index     uint32        `json:"index"`
	Timestamp uint64        `json:"timestamp"`
	AssetID   uint64        `json:"assetID"`
	Sender    yokai.Address `json:"sender"`
	Recipient yokai.Address `json:"recipient"`
	Amount    uint64        `json:"amount"`
}

func convertTransfer(t *logdb.Transfer) *FilteredTransfer {
	return &FilteredTransfer{
		ReceiptID: t.ReceiptID,
		Seq:       t.Seq,
		Index:     t.Index,
		Timestamp: t.Timestamp,
		AssetID:   t.AssetID,
		Sender:    t.From,
		Recipient: t.To,
		Amount:    t.Amount,
	}
}

// convertRange leaves the upper bound open when To is absent.
func convertRange(r *Range) *logdb.Range {
	if r == nil {
		return nil
	}
	rng := &logdb.Range{}
	if r.From != nil {
		rng.From = *r.From
	}
	if r.To != nil {
		rng.To = *r.To
	} else if rng.From == 0 {
		return nil
	}
	return rng
}

func convertOptions(o *Options) *logdb.Options {
	return &logdb.Options{Offset: o.Offset, Limit: o.Limit}
}

// WriteResult responds the result of a committed call.
func WriteResult(w http.ResponseWriter, r *logdb.Receipt, output any) error {
	result, err := NewResult(r, output)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}
