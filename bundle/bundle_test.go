// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bundle

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yokaihunt/custody/yokai"
)

func TestBundleSignAndOrigin(t *testing.T) {
	pk, err := crypto.GenerateKey()
	require.NoError(t, err)
	caller := yokai.Address(crypto.PubkeyToAddress(pk.PublicKey))

	b := New(1, AppCall(caller, "list"), AssetTransfer(7, caller, yokai.Address{0xc}, 1))

	_, err = b.Origin()
	assert.Error(t, err, "unsigned bundle has no origin")

	signed := MustSign(b, pk)
	origin, err := signed.Origin()
	require.NoError(t, err)
	assert.Equal(t, caller, origin)

	assert.Equal(t, b.SigningHash(), signed.SigningHash(), "signature is not part of the signing hash")
	assert.NotEqual(t, b.ID(), signed.ID())

	other := New(2, AppCall(caller, "list"), AssetTransfer(7, caller, yokai.Address{0xc}, 1))
	assert.NotEqual(t, b.SigningHash(), other.SigningHash(), "nonce is part of the signing hash")

	// tampering a leg changes the recovered origin
	tampered := New(1, AppCall(caller, "list"), AssetTransfer(8, caller, yokai.Address{0xc}, 1)).
		WithSignature(signed.Signature())
	recovered, err := tampered.Origin()
	if err == nil {
		assert.NotEqual(t, caller, recovered)
	}
}

func TestBundleLegsAreCopies(t *testing.T) {
	leg := Payment(yokai.Address{1}, yokai.Address{2}, 10)
	b := New(0, leg)
	leg.Amount = 99

	assert.Equal(t, uint64(10), b.Leg(0).Amount)
	b.Leg(0).Amount = 5
	assert.Equal(t, uint64(10), b.Legs()[0].Amount)
	assert.Nil(t, b.Leg(1))
	assert.Nil(t, b.Leg(-1))
}

func TestBundleEncoding(t *testing.T) {
	pk, _ := crypto.GenerateKey()
	caller := yokai.Address(crypto.PubkeyToAddress(pk.PublicKey))
	b := MustSign(New(3,
		AppCall(caller, "buy"),
		Payment(caller, yokai.Address{2}, 1_000_000),
		AssetTransfer(9, yokai.Address{2}, caller, 1),
	), pk)

	data, err := rlp.EncodeToBytes(b)
	require.NoError(t, err)
	var decoded Bundle
	require.NoError(t, rlp.DecodeBytes(data, &decoded))
	assert.Equal(t, b.ID(), decoded.ID())

	js, err := json.Marshal(b)
	require.NoError(t, err)
	var fromJSON Bundle
	require.NoError(t, json.Unmarshal(js, &fromJSON))
	assert.Equal(t, b.ID(), fromJSON.ID())
	assert.Equal(t, LegPayment, fromJSON.Leg(1).Type)

	origin, err := fromJSON.Origin()
	require.NoError(t, err)
	assert.Equal(t, caller, origin)

	assert.Error(t, json.Unmarshal([]byte(`{"legs":[{"type":"swap"}]}`), &fromJSON))
	assert.Error(t, json.Unmarshal([]byte(`{"legs":[null]}`), &fromJSON))
}

// malleate returns the high-s twin of a signature, which recovers the same key.
func malleate(sig []byte) []byte {
	n := crypto.S256().Params().N
	s := new(big.Int).Sub(n, new(big.Int).SetBytes(sig[32:64]))
	out := append([]byte(nil), sig...)
	s.FillBytes(out[32:64])
	out[64] ^= 1
	return out
}

func TestHighSSignatureRejected(t *testing.T) {
	pk, err := crypto.GenerateKey()
	require.NoError(t, err)
	caller := yokai.Address(crypto.PubkeyToAddress(pk.PublicKey))
	signed := MustSign(New(1, AppCall(caller, "list")), pk)

	twin := signed.WithSignature(malleate(signed.Signature()))
	_, err = twin.Origin()
	assert.Error(t, err)
	assert.Equal(t, yokai.Bytes32{}, twin.ID())
}

func TestIDBindsOrigin(t *testing.T) {
	pk1, _ := crypto.GenerateKey()
	pk2, _ := crypto.GenerateKey()
	b := New(1, AppCall(yokai.Address{1}, "list"))

	one, two := MustSign(b, pk1), MustSign(b, pk2)
	assert.NotEqual(t, one.ID(), two.ID())
	assert.Equal(t, one.ID(), MustSign(b, pk1).ID())
	assert.Equal(t, yokai.Bytes32{}, b.ID(), "unsigned bundle has no id")
}
