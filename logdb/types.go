// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"encoding/binary"

	"github.com/yokaihunt/custody/custody"
	"github.com/yokaihunt/custody/yokai"
)

// Receipt is the record of a committed mutating call.
type Receipt struct {
	Seq       uint64 // assigned on insert
	ID        yokai.Bytes32
	Ledger    string
	Operation string
	AssetID   uint64
	Caller    yokai.Address
	Timestamp uint64
	Reward    uint64 // whole units, claim and unstake only
	Transfers []*custody.Transfer
	Bundle    []byte // rlp encoded signed bundle
}

// Transfer is a custody movement that can be stored in db.
type Transfer struct {
	Seq       uint64
	Index     uint32
	ReceiptID yokai.Bytes32
	Timestamp uint64
	custody.Transfer
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is an inclusive timestamp range. To below From means unbounded.
type Range struct {
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// ReceiptFilter filter. An asset matches the receipt subject or any of its transfers.
type ReceiptFilter struct {
	AssetID   *uint64
	Caller    *yokai.Address
	Ledger    string
	Operation string
	AfterSeq  uint64 // only receipts inserted after this seq
	Range     *Range
	Options   *Options
	Order     Order //default asc
}

type TransferFilter struct {
	AssetID   *uint64
	Sender    *yokai.Address
	Recipient *yokai.Address
	Range     *Range
	Options   *Options
	Order     Order //default asc
}

// sqlite integers are signed, uint64 values are kept bit for bit.
func sqlInt(v uint64) int64 {
	return int64(v)
}

func amountBytes(v uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, v)
}

func bytesAmount(b []byte) uint64 {
	if len(b) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}
