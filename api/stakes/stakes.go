// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/yokaihunt/custody/api/receipts"
	"github.com/yokaihunt/custody/api/utils"
	"github.com/yokaihunt/custody/builtin/staking"
	"github.com/yokaihunt/custody/runtime"
)

type Stakes struct {
	exec *runtime.Executor
}

func New(exec *runtime.Executor) *Stakes {
	return &Stakes{exec}
}

func (s *Stakes) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body StakeRequest
	if err := utils.ParseBody(req, &body); err != nil {
		return err
	}
	info, receipt, err := s.exec.Stake(body.Bundle, body.AssetID, body.YieldRate, body.Legendary)
	if err != nil {
		return err
	}
	return receipts.WriteResult(w, receipt, info)
}

func (s *Stakes) handleClaim(w http.ResponseWriter, req *http.Request) error {
	var body AssetRequest
	if err := utils.ParseBody(req, &body); err != nil {
		return err
	}
	payout, receipt, err := s.exec.Claim(body.Bundle, body.AssetID)
	if err != nil {
		return err
	}
	return receipts.WriteResult(w, receipt, payout)
}

func (s *Stakes) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	var body AssetRequest
	if err := utils.ParseBody(req, &body); err != nil {
		return err
	}
	payout, receipt, err := s.exec.Unstake(body.Bundle, body.AssetID)
	if err != nil {
		return err
	}
	return receipts.WriteResult(w, receipt, payout)
}

func (s *Stakes) handleSetRewardToken(w http.ResponseWriter, req *http.Request) error {
	var body AssetRequest
	if err := utils.ParseBody(req, &body); err != nil {
		return err
	}
	receipt, err := s.exec.SetRewardToken(body.Bundle, body.AssetID)
	if err != nil {
		return err
	}
	return receipts.WriteResult(w, receipt, nil)
}

func (s *Stakes) handleUpdateRates(w http.ResponseWriter, req *http.Request) error {
	var body RatesRequest
	if err := utils.ParseBody(req, &body); err != nil {
		return err
	}
	if body.Rates == nil {
		return utils.BadRequest(errors.New("body.rates: required"))
	}
	receipt, err := s.exec.UpdateYieldRates(body.Bundle, *body.Rates)
	if err != nil {
		return err
	}
	return receipts.WriteResult(w, receipt, body.Rates)
}

func (s *Stakes) handleUpdateAdmin(w http.ResponseWriter, req *http.Request) error {
	var body AddressRequest
	if err := utils.ParseBody(req, &body); err != nil {
		return err
	}
	if body.Address == nil {
		return utils.BadRequest(errors.New("body.address: required"))
	}
	receipt, err := s.exec.UpdateStakingAdmin(body.Bundle, *body.Address)
	if err != nil {
		return err
	}
	return receipts.WriteResult(w, receipt, nil)
}

func (s *Stakes) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	assetID, err := utils.ParseUint64Var(req, "assetID")
	if err != nil {
		return err
	}
	var info *staking.StakeInfo
	if err := s.exec.View(func(l *runtime.Ledgers) (err error) {
		info, err = l.Staking.GetStakeInfo(assetID)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, info)
}

func (s *Stakes) handleGetPending(w http.ResponseWriter, req *http.Request) error {
	assetID, err := utils.ParseUint64Var(req, "assetID")
	if err != nil {
		return err
	}
	pending := Pending{AssetID: assetID, At: s.exec.Now()}
	if err := s.exec.View(func(l *runtime.Ledgers) (err error) {
		pending.Reward, err = l.Staking.GetPendingYield(assetID, pending.At)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &pending)
}

func (s *Stakes) handleGetSettings(w http.ResponseWriter, _ *http.Request) error {
	var settings Settings
	if err := s.exec.View(func(l *runtime.Ledgers) (err error) {
		if settings.Rates, err = l.Staking.YieldRates(); err != nil {
			return
		}
		if settings.RewardToken, err = l.Staking.RewardToken(); err != nil {
			return
		}
		if settings.TotalStaked, err = l.Staking.TotalStaked(); err != nil {
			return
		}
		settings.Custody = l.Staking.CustodyAddress()
		settings.Admin, err = l.Staking.Admin()
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &settings)
}

func (s *Stakes) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /stakes").
		HandlerFunc(utils.WrapHandlerFunc(s.handleStake))
	sub.Path("/claim").
		Methods(http.MethodPost).
		Name("POST /stakes/claim").
		HandlerFunc(utils.WrapHandlerFunc(s.handleClaim))
	sub.Path("/unstake").
		Methods(http.MethodPost).
		Name("POST /stakes/unstake").
		HandlerFunc(utils.WrapHandlerFunc(s.handleUnstake))
	sub.Path("/reward-token").
		Methods(http.MethodPost).
		Name("POST /stakes/reward-token").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSetRewardToken))
	sub.Path("/rates").
		Methods(http.MethodPost).
		Name("POST /stakes/rates").
		HandlerFunc(utils.WrapHandlerFunc(s.handleUpdateRates))
	sub.Path("/admin").
		Methods(http.MethodPost).
		Name("POST /stakes/admin").
		HandlerFunc(utils.WrapHandlerFunc(s.handleUpdateAdmin))
	sub.Path("/settings").
		Methods(http.MethodGet).
		Name("GET /stakes/settings").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetSettings))
	sub.Path("/{assetID}").
		Methods(http.MethodGet).
		Name("GET /stakes/{assetID}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStake))
	sub.Path("/{assetID}/pending").
		Methods(http.MethodGet).
		Name("GET /stakes/{assetID}/pending").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetPending))
}
