// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yokaihunt/custody/lvldb"
	"github.com/yokaihunt/custody/reverts"
	"github.com/yokaihunt/custody/state"
	"github.com/yokaihunt/custody/yokai"
)

var (
	alice = yokai.Address{0xa}
	bob   = yokai.Address{0xb}
	vault = yokai.Address{0xc}
)

func newTestVault(t *testing.T) (*Vault, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.New(db, nil)
	return NewVault(st), st
}

func mintNFT(t *testing.T, v *Vault, owner yokai.Address) uint64 {
	id, err := v.CreateAsset(&AssetSpec{Name: "Kitsune", Unit: "YOKAI", Total: 1, Creator: owner})
	require.NoError(t, err)
	return id
}

func TestAssetSpecValidate(t *testing.T) {
	ok := AssetSpec{Name: "Kappa", Total: 1, Decimals: 0, Creator: alice}
	assert.NoError(t, ok.Validate())

	bad := []AssetSpec{
		{Total: 1, Creator: alice},
		{Name: "x", Creator: alice},
		{Name: "x", Total: 1, Decimals: 20, Creator: alice},
		{Name: "x", Total: 1},
	}
	for _, spec := range bad {
		assert.True(t, reverts.Is(spec.Validate(), reverts.KindInvalidParameter), "%+v", spec)
	}
}

func TestVaultCreateAsset(t *testing.T) {
	v, _ := newTestVault(t)

	id1 := mintNFT(t, v, alice)
	id2 := mintNFT(t, v, bob)
	assert.Equal(t, firstAssetID, id1)
	assert.Equal(t, id1+1, id2)

	bal, err := v.AssetBalance(id1, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), bal)

	spec, err := v.Asset(id2)
	require.NoError(t, err)
	assert.Equal(t, bob, spec.Creator)

	_, err = v.Asset(1)
	assert.True(t, reverts.Is(err, reverts.KindNotFound))
}

func TestVaultTransfers(t *testing.T) {
	v, _ := newTestVault(t)
	id := mintNFT(t, v, alice)
	require.NoError(t, v.Fund(bob, 100))

	require.NoError(t, v.TransferAsset(id, alice, vault, 1))
	require.NoError(t, v.TransferPayment(bob, alice, 40))

	for _, c := range []struct {
		asset uint64
		owner yokai.Address
		want  uint64
	}{
		{id, alice, 0},
		{id, vault, 1},
		{PaymentAssetID, bob, 60},
		{PaymentAssetID, alice, 40},
	} {
		bal, err := v.AssetBalance(c.asset, c.owner)
		require.NoError(t, err)
		assert.Equal(t, c.want, bal)
	}

	err := v.TransferAsset(id, alice, bob, 1)
	assert.True(t, reverts.Is(err, reverts.KindInsufficientFunds))

	err = v.TransferPayment(bob, alice, 61)
	assert.True(t, reverts.Is(err, reverts.KindInsufficientFunds))

	err = v.TransferAsset(999, alice, bob, 1)
	assert.True(t, reverts.Is(err, reverts.KindNotFound))
}

func TestVaultSettleAllOrNothing(t *testing.T) {
	v, _ := newTestVault(t)
	id := mintNFT(t, v, vault)
	require.NoError(t, v.Fund(bob, 100))

	// second payment overdraws, nothing may move
	err := v.Settle([]*Transfer{
		{AssetID: PaymentAssetID, From: bob, To: alice, Amount: 80},
		{AssetID: PaymentAssetID, From: bob, To: vault, Amount: 30},
		{AssetID: id, From: vault, To: bob, Amount: 1},
	})
	assert.True(t, reverts.Is(err, reverts.KindInsufficientFunds))

	bal, _ := v.BalanceOf(bob)
	assert.Equal(t, uint64(100), bal)
	held, _ := v.AssetBalance(id, vault)
	assert.Equal(t, uint64(1), held)

	require.NoError(t, v.Settle([]*Transfer{
		{AssetID: PaymentAssetID, From: bob, To: alice, Amount: 70},
		{AssetID: PaymentAssetID, From: bob, To: vault, Amount: 30},
		{AssetID: id, From: vault, To: bob, Amount: 1},
	}))
	bal, _ = v.BalanceOf(bob)
	assert.Equal(t, uint64(0), bal)
	held, _ = v.AssetBalance(id, bob)
	assert.Equal(t, uint64(1), held)

	assert.Error(t, v.Settle([]*Transfer{{AssetID: PaymentAssetID, From: bob, To: alice}}))
}

func TestVaultRevertsWithState(t *testing.T) {
	v, st := newTestVault(t)
	require.NoError(t, v.Fund(alice, 10))

	chk := st.NewCheckpoint()
	require.NoError(t, v.TransferPayment(alice, bob, 10))
	st.RevertTo(chk)

	bal, _ := v.BalanceOf(alice)
	assert.Equal(t, uint64(10), bal)
}

func TestSettleFallsBackToPrimitives(t *testing.T) {
	v, _ := newTestVault(t)
	require.NoError(t, v.Fund(alice, 10))

	// a Service that is not a Settler goes through the single transfer primitives
	svc := struct{ Service }{v}
	rec := NewRecorder(svc)
	require.NoError(t, rec.TransferPayment(alice, bob, 4))
	require.NoError(t, Settle(rec, []*Transfer{{AssetID: PaymentAssetID, From: alice, To: bob, Amount: 6}}))

	bal, _ := v.BalanceOf(bob)
	assert.Equal(t, uint64(10), bal)
	require.Len(t, rec.Transfers(), 2)
	assert.Equal(t, uint64(6), rec.Transfers()[1].Amount)

	assert.Error(t, rec.TransferPayment(alice, bob, 1))
	assert.Len(t, rec.Transfers(), 2, "failed transfers are not recorded")

	id, err := rec.CreateAsset(&AssetSpec{Name: "Oni", Total: 1, Creator: alice})
	require.NoError(t, err)
	assert.Equal(t, []uint64{id}, rec.Created())

	rec.Reset()
	assert.Empty(t, rec.Transfers())
}
