// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package receipts

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	pkgerrors "github.com/pkg/errors"

	"github.com/yokaihunt/custody/api/utils"
	"github.com/yokaihunt/custody/logdb"
	"github.com/yokaihunt/custody/yokai"
)

type Receipts struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, limit uint64) *Receipts {
	return &Receipts{
		db,
		limit,
	}
}

func (r *Receipts) checkPage(rng *Range, options *Options) (*logdb.Options, error) {
	if rng != nil && rng.From != nil && rng.To != nil && *rng.From > *rng.To {
		return nil, utils.BadRequest(errors.New("range.to must be greater than or equal to range.from"))
	}
	if options == nil {
		// one above the limit to detect an oversized result
		return &logdb.Options{Limit: r.limit + 1}, nil
	}
	if options.Limit > r.limit {
		return nil, utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", r.limit))
	}
	if options.Offset > math.MaxInt64 {
		return nil, utils.BadRequest(fmt.Errorf("options.offset exceeds the maximum allowed value of %d", int64(math.MaxInt64)))
	}
	return convertOptions(options), nil
}

func (r *Receipts) handleGetReceipt(w http.ResponseWriter, req *http.Request) error {
	id, err := yokai.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(pkgerrors.WithMessage(err, "id"))
	}
	receipt, err := r.db.Get(req.Context(), id)
	if err != nil {
		if errors.Is(err, logdb.ErrNotFound) {
			return utils.NotFound(err)
		}
		return err
	}
	converted, err := ConvertReceipt(receipt)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, converted)
}

func (r *Receipts) handleFilterReceipts(w http.ResponseWriter, req *http.Request) error {
	var filter ReceiptFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(pkgerrors.WithMessage(err, "body"))
	}
	options, err := r.checkPage(filter.Range, filter.Options)
	if err != nil {
		return err
	}
	receipts, err := r.db.FilterReceipts(req.Context(), &logdb.ReceiptFilter{
		AssetID:   filter.AssetID,
		Caller:    filter.Caller,
		Ledger:    filter.Ledger,
		Operation: filter.Operation,
		Range:     convertRange(filter.Range),
		Options:   options,
		Order:     filter.Order,
	})
	if err != nil {
		return err
	}
	if uint64(len(receipts)) > r.limit {
		return utils.Forbidden(fmt.Errorf("the number of filtered receipts exceeds the maximum allowed value of %d, please use pagination", r.limit))
	}

	converted := make([]*Receipt, len(receipts))
	for i, receipt := range receipts {
		if converted[i], err = ConvertReceipt(receipt); err != nil {
			return err
		}
	}
	return utils.WriteJSON(w, converted)
}

func (r *Receipts) handleFilterTransfers(w http.ResponseWriter, req *http.Request) error {
	var filter TransferFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(pkgerrors.WithMessage(err, "body"))
	}
	options, err := r.checkPage(filter.Range, filter.Options)
	if err != nil {
		return err
	}
	transfers, err := r.db.FilterTransfers(req.Context(), &logdb.TransferFilter{
		AssetID:   filter.AssetID,
		Sender:    filter.Sender,
		Recipient: filter.Recipient,
		Range:     convertRange(filter.Range),
		Options:   options,
		Order:     filter.Order,
	})
	if err != nil {
		return err
	}
	if uint64(len(transfers)) > r.limit {
		return utils.Forbidden(fmt.Errorf("the number of filtered transfers exceeds the maximum allowed value of %d, please use pagination", r.limit))
	}

	converted := make([]*FilteredTransfer, len(transfers))
	for i, t := range transfers {
		converted[i] = convertTransfer(t)
	}
	return utils.WriteJSON(w, converted)
}

func (r *Receipts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /receipts").
		HandlerFunc(utils.WrapHandlerFunc(r.handleFilterReceipts))
	sub.Path("/transfers").
		Methods(http.MethodPost).
		Name("POST /receipts/transfers").
		HandlerFunc(utils.WrapHandlerFunc(r.handleFilterTransfers))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /receipts/{id}").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetReceipt))
}
