// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/yokaihunt/custody/api/utils"
	"github.com/yokaihunt/custody/logdb"
	"github.com/yokaihunt/custody/yokai"
)

// ReceiptFilter selects the receipts pushed to a subscriber. Empty fields match everything.
type ReceiptFilter struct {
	AssetID *uint64
	Caller  *yokai.Address
	Ledger  string
}

func parseReceiptFilter(query url.Values) (*ReceiptFilter, error) {
	filter := &ReceiptFilter{Ledger: query.Get("ledger")}
	if s := query.Get("assetID"); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "assetID"))
		}
		filter.AssetID = &id
	}
	if s := query.Get("caller"); s != "" {
		caller, err := yokai.ParseAddress(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "caller"))
		}
		filter.Caller = &caller
	}
	return filter, nil
}

// Match reports whether the receipt passes the filter. An asset matches the
// asset a call targets and every asset it moves.
func (f *ReceiptFilter) Match(r *logdb.Receipt) bool {
	if f.Ledger != "" && f.Ledger != r.Ledger {
		return false
	}
	if f.Caller != nil && *f.Caller != r.Caller {
		return false
	}
	if f.AssetID == nil || r.AssetID == *f.AssetID {
		return true
	}
	for _, t := range r.Transfers {
		if t.AssetID == *f.AssetID {
			return true
		}
	}
	return false
}

func (f *ReceiptFilter) logFilter(afterSeq uint64, limit uint64) *logdb.ReceiptFilter {
	return &logdb.ReceiptFilter{
		AssetID:  f.AssetID,
		Caller:   f.Caller,
		Ledger:   f.Ledger,
		AfterSeq: afterSeq,
		Options:  &logdb.Options{Limit: limit},
	}
}
