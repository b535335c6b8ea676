// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package market

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/yokaihunt/custody/api/receipts"
	"github.com/yokaihunt/custody/api/utils"
	"github.com/yokaihunt/custody/builtin/marketplace"
	"github.com/yokaihunt/custody/runtime"
)

type Market struct {
	exec *runtime.Executor
}

func New(exec *runtime.Executor) *Market {
	return &Market{exec}
}

func (m *Market) handleList(w http.ResponseWriter, req *http.Request) error {
	var body ListRequest
	if err := utils.ParseBody(req, &body); err != nil {
		return err
	}
	listing, receipt, err := m.exec.List(body.Bundle, body.AssetID, body.Price)
	if err != nil {
		return err
	}
	return receipts.WriteResult(w, receipt, listing)
}

func (m *Market) handleBuy(w http.ResponseWriter, req *http.Request) error {
	var body AssetRequest
	if err := utils.ParseBody(req, &body); err != nil {
		return err
	}
	sale, receipt, err := m.exec.Buy(body.Bundle, body.AssetID)
	if err != nil {
		return err
	}
	return receipts.WriteResult(w, receipt, sale)
}

func (m *Market) handleDelist(w http.ResponseWriter, req *http.Request) error {
	var body AssetRequest
	if err := utils.ParseBody(req, &body); err != nil {
		return err
	}
	receipt, err := m.exec.Delist(body.Bundle, body.AssetID)
	if err != nil {
		return err
	}
	return receipts.WriteResult(w, receipt, nil)
}

func (m *Market) handleUpdateFee(w http.ResponseWriter, req *http.Request) error {
	var body FeeRequest
	if err := utils.ParseBody(req, &body); err != nil {
		return err
	}
	receipt, err := m.exec.UpdatePlatformFee(body.Bundle, body.Percent)
	if err != nil {
		return err
	}
	return receipts.WriteResult(w, receipt, nil)
}

func parseAddressBody(req *http.Request) (*AddressRequest, error) {
	var body AddressRequest
	if err := utils.ParseBody(req, &body); err != nil {
		return nil, err
	}
	if body.Address == nil {
		return nil, utils.BadRequest(errors.New("body.address: required"))
	}
	return &body, nil
}

func (m *Market) handleUpdateFeeRecipient(w http.ResponseWriter, req *http.Request) error {
	body, err := parseAddressBody(req)
	if err != nil {
		return err
	}
	receipt, err := m.exec.UpdateFeeRecipient(body.Bundle, *body.Address)
	if err != nil {
		return err
	}
	return receipts.WriteResult(w, receipt, nil)
}

func (m *Market) handleUpdateAdmin(w http.ResponseWriter, req *http.Request) error {
	body, err := parseAddressBody(req)
	if err != nil {
		return err
	}
	receipt, err := m.exec.UpdateMarketAdmin(body.Bundle, *body.Address)
	if err != nil {
		return err
	}
	return receipts.WriteResult(w, receipt, nil)
}

func (m *Market) handleGetListing(w http.ResponseWriter, req *http.Request) error {
	assetID, err := utils.ParseUint64Var(req, "assetID")
	if err != nil {
		return err
	}
	var listing *marketplace.Listing
	if err := m.exec.View(func(l *runtime.Ledgers) (err error) {
		listing, err = l.Market.GetListing(assetID)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, listing)
}

func (m *Market) handleGetStats(w http.ResponseWriter, _ *http.Request) error {
	var stats Stats
	if err := m.exec.View(func(l *runtime.Ledgers) (err error) {
		if stats.TotalListings, err = l.Market.TotalListings(); err != nil {
			return
		}
		if stats.PlatformFee, err = l.Market.PlatformFee(); err != nil {
			return
		}
		if stats.FeeRecipient, err = l.Market.FeeRecipient(); err != nil {
			return
		}
		stats.Custody = l.Market.CustodyAddress()
		stats.Admin, err = l.Market.Admin()
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &stats)
}

func (m *Market) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/listings").
		Methods(http.MethodPost).
		Name("POST /market/listings").
		HandlerFunc(utils.WrapHandlerFunc(m.handleList))
	sub.Path("/listings/{assetID}").
		Methods(http.MethodGet).
		Name("GET /market/listings/{assetID}").
		HandlerFunc(utils.WrapHandlerFunc(m.handleGetListing))
	sub.Path("/buy").
		Methods(http.MethodPost).
		Name("POST /market/buy").
		HandlerFunc(utils.WrapHandlerFunc(m.handleBuy))
	sub.Path("/delist").
		Methods(http.MethodPost).
		Name("POST /market/delist").
		HandlerFunc(utils.WrapHandlerFunc(m.handleDelist))
	sub.Path("/fee").
		Methods(http.MethodPost).
		Name("POST /market/fee").
		HandlerFunc(utils.WrapHandlerFunc(m.handleUpdateFee))
	sub.Path("/fee-recipient").
		Methods(http.MethodPost).
		Name("POST /market/fee-recipient").
		HandlerFunc(utils.WrapHandlerFunc(m.handleUpdateFeeRecipient))
	sub.Path("/admin").
		Methods(http.MethodPost).
		Name("POST /market/admin").
		HandlerFunc(utils.WrapHandlerFunc(m.handleUpdateAdmin))
	sub.Path("/stats").
		Methods(http.MethodGet).
		Name("GET /market/stats").
		HandlerFunc(utils.WrapHandlerFunc(m.handleGetStats))
}
