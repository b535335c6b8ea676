// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/yokaihunt/custody/api/utils"
	"github.com/yokaihunt/custody/custody"
	"github.com/yokaihunt/custody/runtime"
	"github.com/yokaihunt/custody/yokai"
)

type Balance struct {
	Owner   yokai.Address `json:"owner"`
	AssetID uint64        `json:"assetID"`
	Amount  uint64        `json:"amount"`
}

type Vault struct {
	exec *runtime.Executor
}

func New(exec *runtime.Executor) *Vault {
	return &Vault{exec}
}

func (v *Vault) handleGetAsset(w http.ResponseWriter, req *http.Request) error {
	assetID, err := utils.ParseUint64Var(req, "assetID")
	if err != nil {
		return err
	}
	var spec *custody.AssetSpec
	if err := v.exec.View(func(l *runtime.Ledgers) (err error) {
		spec, err = l.Vault.Asset(assetID)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, spec)
}

func (v *Vault) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.ParseAddressVar(req, "address")
	if err != nil {
		return err
	}
	balance := Balance{Owner: owner}
	if _, ok := mux.Vars(req)["assetID"]; ok {
		if balance.AssetID, err = utils.ParseUint64Var(req, "assetID"); err != nil {
			return err
		}
	}
	if err := v.exec.View(func(l *runtime.Ledgers) (err error) {
		if balance.AssetID == custody.PaymentAssetID {
			balance.Amount, err = l.Vault.BalanceOf(owner)
		} else {
			balance.Amount, err = l.Vault.AssetBalance(balance.AssetID, owner)
		}
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &balance)
}

func (v *Vault) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/assets/{assetID}").
		Methods(http.MethodGet).
		Name("GET /vault/assets/{assetID}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetAsset))
	sub.Path("/balances/{address}").
		Methods(http.MethodGet).
		Name("GET /vault/balances/{address}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetBalance))
	sub.Path("/balances/{address}/{assetID}").
		Methods(http.MethodGet).
		Name("GET /vault/balances/{address}/{assetID}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetBalance))
}
