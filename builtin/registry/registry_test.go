// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yokaihunt/custody/bundle"
	"github.com/yokaihunt/custody/custody"
	"github.com/yokaihunt/custody/lvldb"
	"github.com/yokaihunt/custody/reverts"
	"github.com/yokaihunt/custody/state"
	"github.com/yokaihunt/custody/xenv"
	"github.com/yokaihunt/custody/yokai"
)

var (
	admin    = yokai.BytesToAddress([]byte("admin"))
	stranger = yokai.BytesToAddress([]byte("stranger"))
)

type fixture struct {
	st    *state.State
	vault *custody.Vault
	r     *Registry
	now   uint64
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db, nil)
	f := &fixture{st: st, vault: custody.NewVault(st), r: New(st), now: 5000}
	require.NoError(t, f.r.Initialize(admin))
	return f
}

func (f *fixture) env(caller yokai.Address, method string) *xenv.Environment {
	return xenv.New(f.st, f.vault, &xenv.CallContext{
		Caller: caller,
		Time:   f.now,
		Bundle: bundle.New(f.now, bundle.AppCall(caller, method)),
	})
}

func TestRegisterLegendary(t *testing.T) {
	f := newFixture(t)

	minted, err := f.r.IsLegendaryMinted("kyubi")
	require.NoError(t, err)
	assert.False(t, minted)

	_, err = f.r.GetLegendaryAssetID("kyubi")
	assert.True(t, reverts.Is(err, reverts.KindNotFound))

	require.NoError(t, f.r.Register(f.env(admin, MethodRegisterLegendary), "kyubi", 1001))

	minted, _ = f.r.IsLegendaryMinted("kyubi")
	assert.True(t, minted)
	id, err := f.r.GetLegendaryAssetID("kyubi")
	require.NoError(t, err)
	assert.Equal(t, uint64(1001), id)

	err = f.r.Register(f.env(admin, MethodRegisterLegendary), "kyubi", 1002)
	assert.True(t, reverts.Is(err, reverts.KindInvalidState))
	id, _ = f.r.GetLegendaryAssetID("kyubi")
	assert.Equal(t, uint64(1001), id)

	require.NoError(t, f.r.Register(f.env(admin, MethodRegisterLegendary), "raiju", 1002))

	legendary, err := f.r.IsLegendaryAsset(1002)
	require.NoError(t, err)
	assert.True(t, legendary)
	legendary, _ = f.r.IsLegendaryAsset(1003)
	assert.False(t, legendary)

	// one asset can't be the legendary of two species
	err = f.r.Register(f.env(admin, MethodRegisterLegendary), "nue", 1001)
	assert.True(t, reverts.Is(err, reverts.KindInvalidState))
	minted, _ = f.r.IsLegendaryMinted("nue")
	assert.False(t, minted)
}

func TestRegisterRejections(t *testing.T) {
	f := newFixture(t)

	err := f.r.Register(f.env(stranger, MethodRegisterLegendary), "kyubi", 1001)
	assert.True(t, reverts.Is(err, reverts.KindNotAuthorized))

	err = f.r.Register(f.env(admin, MethodEvolve), "kyubi", 1001)
	assert.True(t, reverts.Is(err, reverts.KindMalformedBundle))

	err = f.r.Register(f.env(admin, MethodRegisterLegendary), "", 1001)
	assert.True(t, reverts.Is(err, reverts.KindInvalidParameter))

	minted, _ := f.r.IsLegendaryMinted("kyubi")
	assert.False(t, minted)
}

func TestRecordEvolution(t *testing.T) {
	f := newFixture(t)

	rec, err := f.r.RecordEvolution(f.env(admin, MethodRecordEvolution), "kappa", 1, []uint64{1001, 1002}, 1003)
	require.NoError(t, err)
	assert.Equal(t, &EvolutionRecord{BaseSpecies: "kappa", Stage: 1, BurnedAssets: []uint64{1001, 1002}, EvolvedAssetID: 1003, EvolvedAt: 5000}, rec)

	evolved, _ := f.r.IsEvolved(1003)
	assert.True(t, evolved)
	got, err := f.r.GetEvolution(1003)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	// write-once per evolved asset
	_, err = f.r.RecordEvolution(f.env(admin, MethodRecordEvolution), "oni", 1, []uint64{1004, 1005}, 1003)
	assert.True(t, reverts.Is(err, reverts.KindInvalidState))
	got, _ = f.r.GetEvolution(1003)
	assert.Equal(t, "kappa", got.BaseSpecies)
}

func TestRecordEvolutionRejections(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		caller yokai.Address
		stage  uint8
		burned []uint64
		kind   reverts.Kind
	}{
		{"not admin", stranger, 1, []uint64{1, 2}, reverts.KindNotAuthorized},
		{"stage zero", admin, 0, nil, reverts.KindInvalidParameter},
		{"stage three", admin, 3, []uint64{1, 2}, reverts.KindInvalidParameter},
		{"too few", admin, 2, []uint64{1, 2, 3}, reverts.KindInvalidParameter},
		{"too many", admin, 1, []uint64{1, 2, 3}, reverts.KindInvalidParameter},
		{"duplicate", admin, 1, []uint64{1, 1}, reverts.KindInvalidParameter},
		{"self", admin, 1, []uint64{1, 99}, reverts.KindInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.r.RecordEvolution(f.env(tt.caller, MethodRecordEvolution), "kappa", tt.stage, tt.burned, 99)
			assert.True(t, reverts.Is(err, tt.kind), "got %v", err)
		})
	}
	evolved, _ := f.r.IsEvolved(99)
	assert.False(t, evolved)
}

func TestRequiredBurns(t *testing.T) {
	assert.Equal(t, uint64(0), RequiredBurns(0))
	assert.Equal(t, uint64(2), RequiredBurns(1))
	assert.Equal(t, uint64(4), RequiredBurns(2))
	assert.Equal(t, uint64(0), RequiredBurns(3))
}

func TestEvolve(t *testing.T) {
	f := newFixture(t)

	spec := &custody.AssetSpec{Name: "Kappa II", Unit: "YOKAI", Total: 1, Creator: admin}
	rec, err := f.r.Evolve(f.env(admin, MethodEvolve), "kappa", 2, []uint64{1, 2, 3, 4}, spec)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), rec.Stage)

	asset, err := f.vault.Asset(rec.EvolvedAssetID)
	require.NoError(t, err)
	assert.Equal(t, "Kappa II", asset.Name)

	bal, err := f.vault.AssetBalance(rec.EvolvedAssetID, admin)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), bal)
}

func TestEvolveFailureMintsNothing(t *testing.T) {
	f := newFixture(t)

	before := f.st.Stage().Hash()
	spec := &custody.AssetSpec{Name: "Kappa II", Unit: "YOKAI", Total: 1, Creator: admin}
	_, err := f.r.Evolve(f.env(admin, MethodEvolve), "kappa", 2, []uint64{1, 2}, spec)
	assert.True(t, reverts.Is(err, reverts.KindInvalidParameter))
	assert.Equal(t, before, f.st.Stage().Hash())
}

func TestUpdateAdmin(t *testing.T) {
	f := newFixture(t)

	err := f.r.UpdateAdmin(f.env(stranger, MethodUpdateAdmin), stranger)
	assert.True(t, reverts.Is(err, reverts.KindNotAuthorized))

	require.NoError(t, f.r.UpdateAdmin(f.env(admin, MethodUpdateAdmin), stranger))
	cur, _ := f.r.Admin()
	assert.Equal(t, stranger, cur)
}
