// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/yokaihunt/custody/api/receipts"
	"github.com/yokaihunt/custody/api/utils"
	"github.com/yokaihunt/custody/builtin/registry"
	"github.com/yokaihunt/custody/runtime"
)

type Registry struct {
	exec *runtime.Executor
}

func New(exec *runtime.Executor) *Registry {
	return &Registry{exec}
}

func (r *Registry) handleRegisterLegendary(w http.ResponseWriter, req *http.Request) error {
	var body LegendaryRequest
	if err := utils.ParseBody(req, &body); err != nil {
		return err
	}
	receipt, err := r.exec.RegisterLegendary(body.Bundle, body.Species, body.AssetID)
	if err != nil {
		return err
	}
	return receipts.WriteResult(w, receipt, &Legendary{body.Species, body.AssetID})
}

func (r *Registry) handleRecordEvolution(w http.ResponseWriter, req *http.Request) error {
	var body EvolutionRequest
	if err := utils.ParseBody(req, &body); err != nil {
		return err
	}
	rec, receipt, err := r.exec.RecordEvolution(body.Bundle, body.Species, body.Stage, body.BurnedAssets, body.EvolvedAssetID)
	if err != nil {
		return err
	}
	return receipts.WriteResult(w, receipt, rec)
}

func (r *Registry) handleEvolve(w http.ResponseWriter, req *http.Request) error {
	var body EvolveRequest
	if err := utils.ParseBody(req, &body); err != nil {
		return err
	}
	if body.Asset == nil {
		return utils.BadRequest(errors.New("body.asset: required"))
	}
	rec, receipt, err := r.exec.Evolve(body.Bundle, body.Species, body.Stage, body.BurnedAssets, body.Asset)
	if err != nil {
		return err
	}
	return receipts.WriteResult(w, receipt, rec)
}

func (r *Registry) handleUpdateAdmin(w http.ResponseWriter, req *http.Request) error {
	var body AddressRequest
	if err := utils.ParseBody(req, &body); err != nil {
		return err
	}
	if body.Address == nil {
		return utils.BadRequest(errors.New("body.address: required"))
	}
	receipt, err := r.exec.UpdateRegistryAdmin(body.Bundle, *body.Address)
	if err != nil {
		return err
	}
	return receipts.WriteResult(w, receipt, nil)
}

func (r *Registry) handleGetLegendary(w http.ResponseWriter, req *http.Request) error {
	species := mux.Vars(req)["species"]
	legendary := Legendary{Species: species}
	if err := r.exec.View(func(l *runtime.Ledgers) (err error) {
		legendary.AssetID, err = l.Registry.GetLegendaryAssetID(species)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &legendary)
}

func (r *Registry) handleGetEvolution(w http.ResponseWriter, req *http.Request) error {
	assetID, err := utils.ParseUint64Var(req, "assetID")
	if err != nil {
		return err
	}
	var rec *registry.EvolutionRecord
	if err := r.exec.View(func(l *runtime.Ledgers) (err error) {
		rec, err = l.Registry.GetEvolution(assetID)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, rec)
}

func (r *Registry) handleGetBurns(w http.ResponseWriter, req *http.Request) error {
	stage, err := utils.ParseUint64Var(req, "stage")
	if err != nil {
		return err
	}
	if stage > math.MaxUint8 {
		return utils.BadRequest(errors.New("stage: out of range"))
	}
	return utils.WriteJSON(w, &Burns{uint8(stage), registry.RequiredBurns(uint8(stage))})
}

func (r *Registry) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/legendary").
		Methods(http.MethodPost).
		Name("POST /registry/legendary").
		HandlerFunc(utils.WrapHandlerFunc(r.handleRegisterLegendary))
	sub.Path("/legendary/{species}").
		Methods(http.MethodGet).
		Name("GET /registry/legendary/{species}").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetLegendary))
	sub.Path("/evolutions").
		Methods(http.MethodPost).
		Name("POST /registry/evolutions").
		HandlerFunc(utils.WrapHandlerFunc(r.handleRecordEvolution))
	sub.Path("/evolutions/{assetID}").
		Methods(http.MethodGet).
		Name("GET /registry/evolutions/{assetID}").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetEvolution))
	sub.Path("/evolve").
		Methods(http.MethodPost).
		Name("POST /registry/evolve").
		HandlerFunc(utils.WrapHandlerFunc(r.handleEvolve))
	sub.Path("/admin").
		Methods(http.MethodPost).
		Name("POST /registry/admin").
		HandlerFunc(utils.WrapHandlerFunc(r.handleUpdateAdmin))
	sub.Path("/burns/{stage}").
		Methods(http.MethodGet).
		Name("GET /registry/burns/{stage}").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetBurns))
}
