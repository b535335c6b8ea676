// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"errors"
	"fmt"

	"github.com/yokaihunt/custody/bundle"
	"github.com/yokaihunt/custody/custody"
	"github.com/yokaihunt/custody/entity"
	"github.com/yokaihunt/custody/log"
	"github.com/yokaihunt/custody/reverts"
	"github.com/yokaihunt/custody/state"
	"github.com/yokaihunt/custody/xenv"
	"github.com/yokaihunt/custody/yokai"
)

var logger = log.WithContext("pkg", "registry")

var (
	legendaryPos = entity.Position("legendary")
	speciesPos   = entity.Position("legendary-species")
	evolutionPos = entity.Position("evolution")
	adminPos     = entity.Position("admin")
)

// Registry keeps the write-once legendary and evolution records.
type Registry struct {
	legendary  *entity.Mapping[entity.StringKey, uint64]
	species    *entity.Mapping[entity.Uint64Key, string] // legendary asset to its species
	evolutions *entity.Mapping[entity.Uint64Key, EvolutionRecord]
	admin      *entity.Variable[yokai.Address]
}

// New create a new instance.
func New(state *state.State) *Registry {
	ctx := entity.NewContext("registry", state)
	return &Registry{
		legendary:  entity.NewMapping[entity.StringKey, uint64](ctx, legendaryPos),
		species:    entity.NewMapping[entity.Uint64Key, string](ctx, speciesPos),
		evolutions: entity.NewMapping[entity.Uint64Key, EvolutionRecord](ctx, evolutionPos),
		admin:      entity.NewVariable[yokai.Address](ctx, adminPos),
	}
}

// Initialize sets the admin once. Later calls are no-ops.
func (r *Registry) Initialize(admin yokai.Address) error {
	cur, err := r.admin.Get()
	if err != nil || !cur.IsZero() {
		return err
	}
	if admin.IsZero() {
		return reverts.InvalidParameter("zero admin")
	}
	return r.admin.Set(admin)
}

func (r *Registry) Admin() (yokai.Address, error) {
	return r.admin.Get()
}

// IsLegendaryMinted reports whether the species already has its legendary instance.
func (r *Registry) IsLegendaryMinted(species string) (bool, error) {
	return r.legendary.Has(entity.StringKey(species))
}

// GetLegendaryAssetID returns the asset id registered for the species.
func (r *Registry) GetLegendaryAssetID(species string) (uint64, error) {
	id, found, err := r.legendary.Get(entity.StringKey(species))
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, reverts.NotFound(fmt.Sprintf("no legendary %q", species))
	}
	return id, nil
}

// IsLegendaryAsset reports whether the asset is the registered legendary of a species.
func (r *Registry) IsLegendaryAsset(assetID uint64) (bool, error) {
	return r.species.Has(entity.Uint64Key(assetID))
}

// GetEvolution returns the provenance record of an evolved asset.
func (r *Registry) GetEvolution(evolvedAssetID uint64) (*EvolutionRecord, error) {
	rec, found, err := r.evolutions.Get(entity.Uint64Key(evolvedAssetID))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, reverts.NotFound(fmt.Sprintf("asset #%d not evolved", evolvedAssetID))
	}
	return &rec, nil
}

func (r *Registry) IsEvolved(evolvedAssetID uint64) (bool, error) {
	return r.evolutions.Has(entity.Uint64Key(evolvedAssetID))
}

func (r *Registry) requireAdmin(env *xenv.Environment, method string) error {
	admin, err := r.admin.Get()
	if err != nil {
		return err
	}
	if admin != env.Caller() {
		return reverts.NotAuthorized("caller is not the registry admin")
	}
	if rej := bundle.VerifyCall(env.Bundle(), method, env.Caller()); rej != nil {
		return rej.Revert()
	}
	return nil
}

// Register binds the species to its only legendary asset. Admin only.
func (r *Registry) Register(env *xenv.Environment, species string, assetID uint64) error {
	err := env.Atomic(func() error {
		if err := r.requireAdmin(env, MethodRegisterLegendary); err != nil {
			return err
		}
		if species == "" {
			return reverts.InvalidParameter("species required")
		}
		if err := r.legendary.Insert(entity.StringKey(species), assetID); err != nil {
			if errors.Is(err, entity.ErrExists) {
				return reverts.InvalidState(fmt.Sprintf("legendary %q already minted", species))
			}
			return err
		}
		if err := r.species.Insert(entity.Uint64Key(assetID), species); err != nil {
			if errors.Is(err, entity.ErrExists) {
				return reverts.InvalidState(fmt.Sprintf("asset #%d already legendary", assetID))
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Debug("legendary registered", "species", species, "asset", assetID)
	return nil
}

func (r *Registry) record(rec *EvolutionRecord) error {
	if rec.BaseSpecies == "" {
		return reverts.InvalidParameter("species required")
	}
	required := RequiredBurns(rec.Stage)
	if required == 0 {
		return reverts.InvalidParameter(fmt.Sprintf("stage %d not reachable by evolution", rec.Stage))
	}
	if uint64(len(rec.BurnedAssets)) != required {
		return reverts.InvalidParameter(fmt.Sprintf("stage %d burns %d assets, got %d", rec.Stage, required, len(rec.BurnedAssets)))
	}
	seen := make(map[uint64]struct{}, len(rec.BurnedAssets))
	for _, id := range rec.BurnedAssets {
		if id == rec.EvolvedAssetID {
			return reverts.InvalidParameter(fmt.Sprintf("asset #%d burned into itself", id))
		}
		if _, dup := seen[id]; dup {
			return reverts.InvalidParameter(fmt.Sprintf("asset #%d burned twice", id))
		}
		seen[id] = struct{}{}
	}
	if err := r.evolutions.Insert(entity.Uint64Key(rec.EvolvedAssetID), *rec); err != nil {
		if errors.Is(err, entity.ErrExists) {
			return reverts.InvalidState(fmt.Sprintf("asset #%d already evolved", rec.EvolvedAssetID))
		}
		return err
	}
	return nil
}

// RecordEvolution appends the provenance of an asset minted elsewhere. Admin only.
func (r *Registry) RecordEvolution(env *xenv.Environment, species string, stage uint8, burned []uint64, evolvedAssetID uint64) (*EvolutionRecord, error) {
	rec := &EvolutionRecord{
		BaseSpecies:    species,
		Stage:          stage,
		BurnedAssets:   append([]uint64(nil), burned...),
		EvolvedAssetID: evolvedAssetID,
		EvolvedAt:      env.Time(),
	}
	err := env.Atomic(func() error {
		if err := r.requireAdmin(env, MethodRecordEvolution); err != nil {
			return err
		}
		return r.record(rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Evolve mints the evolved asset through the custody service and records its provenance. Admin only.
func (r *Registry) Evolve(env *xenv.Environment, species string, stage uint8, burned []uint64, spec *custody.AssetSpec) (*EvolutionRecord, error) {
	var rec *EvolutionRecord
	err := env.Atomic(func() error {
		if err := r.requireAdmin(env, MethodEvolve); err != nil {
			return err
		}
		if err := spec.Validate(); err != nil {
			return err
		}
		id, err := env.Custody().CreateAsset(spec)
		if err != nil {
			return err
		}
		rec = &EvolutionRecord{
			BaseSpecies:    species,
			Stage:          stage,
			BurnedAssets:   append([]uint64(nil), burned...),
			EvolvedAssetID: id,
			EvolvedAt:      env.Time(),
		}
		return r.record(rec)
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("evolved", "species", species, "stage", stage, "asset", rec.EvolvedAssetID)
	return rec, nil
}

// UpdateAdmin hands the admin role over. Admin only.
func (r *Registry) UpdateAdmin(env *xenv.Environment, admin yokai.Address) error {
	return env.Atomic(func() error {
		if err := r.requireAdmin(env, MethodUpdateAdmin); err != nil {
			return err
		}
		if admin.IsZero() {
			return reverts.InvalidParameter("zero admin")
		}
		return r.admin.Set(admin)
	})
}
