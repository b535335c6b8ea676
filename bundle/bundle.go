// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bundle

import (
	"encoding/json"
	"io"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/yokaihunt/custody/yokai"
)

// MaxLegs bounds the size of a bundle.
const MaxLegs = 16

// Bundle is a set of co-submitted operations, signed as a whole by the
// submitting caller. Legs are bound by position.
type Bundle struct {
	body body

	cache struct {
		signingHash atomic.Pointer[yokai.Bytes32]
		id          atomic.Pointer[yokai.Bytes32]
		origin      atomic.Pointer[yokai.Address]
	}
}

type body struct {
	Legs      []*Leg
	Nonce     uint64
	Signature []byte
}

// New creates an unsigned bundle. The nonce distinguishes otherwise equal bundles.
func New(nonce uint64, legs ...*Leg) *Bundle {
	cpy := make([]*Leg, 0, len(legs))
	for _, l := range legs {
		cpy = append(cpy, l.Copy())
	}
	return &Bundle{body: body{Legs: cpy, Nonce: nonce}}
}

// Len returns the count of legs.
func (b *Bundle) Len() int {
	return len(b.body.Legs)
}

// Leg returns a copy of the leg at index i, nil if out of range.
func (b *Bundle) Leg(i int) *Leg {
	if i < 0 || i >= len(b.body.Legs) {
		return nil
	}
	return b.body.Legs[i].Copy()
}

// Legs returns copies of all legs.
func (b *Bundle) Legs() []*Leg {
	legs := make([]*Leg, 0, len(b.body.Legs))
	for _, l := range b.body.Legs {
		legs = append(legs, l.Copy())
	}
	return legs
}

func (b *Bundle) Nonce() uint64 {
	return b.body.Nonce
}

// Signature returns the signature.
func (b *Bundle) Signature() []byte {
	return append([]byte(nil), b.body.Signature...)
}

// SigningHash returns hash of the bundle excluding the signature.
func (b *Bundle) SigningHash() (hash yokai.Bytes32) {
	if cached := b.cache.signingHash.Load(); cached != nil {
		return *cached
	}
	defer func() { b.cache.signingHash.Store(&hash) }()

	return yokai.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, []any{
			b.body.Legs,
			b.body.Nonce,
		})
	})
}

// ID returns the id of the signed bundle, derived from the signing hash and
// the origin. The zero id is returned if the origin can't be recovered.
func (b *Bundle) ID() (id yokai.Bytes32) {
	if cached := b.cache.id.Load(); cached != nil {
		return *cached
	}
	origin, err := b.Origin()
	if err != nil {
		return yokai.Bytes32{}
	}
	defer func() { b.cache.id.Store(&id) }()

	hash := b.SigningHash()
	return yokai.Blake2b(hash[:], origin[:])
}

// WithSignature creates a new bundle with signature set.
func (b *Bundle) WithSignature(sig []byte) *Bundle {
	newBundle := Bundle{body: b.body}
	newBundle.body.Signature = append([]byte(nil), sig...)
	return &newBundle
}

// Origin recovers the address that signed the bundle.
func (b *Bundle) Origin() (yokai.Address, error) {
	if cached := b.cache.origin.Load(); cached != nil {
		return *cached, nil
	}
	sig := b.body.Signature
	if len(sig) != crypto.SignatureLength {
		return yokai.Address{}, errors.New("invalid signature length")
	}
	// only the lower-s form is accepted, so a signature has a single encoding
	r, s := new(big.Int).SetBytes(sig[:32]), new(big.Int).SetBytes(sig[32:64])
	if !crypto.ValidateSignatureValues(sig[64], r, s, true) {
		return yokai.Address{}, errors.New("invalid signature values")
	}
	hash := b.SigningHash()
	pub, err := crypto.SigToPub(hash[:], b.body.Signature)
	if err != nil {
		return yokai.Address{}, errors.Wrap(err, "recover origin")
	}
	origin := yokai.Address(crypto.PubkeyToAddress(*pub))
	b.cache.origin.Store(&origin)
	return origin, nil
}

// EncodeRLP implements rlp.Encoder
func (b *Bundle) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &b.body)
}

// DecodeRLP implements rlp.Decoder
func (b *Bundle) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	if len(body.Legs) > MaxLegs {
		return errors.New("too many legs")
	}
	b.setBody(body)
	return nil
}

type jsonBundle struct {
	Legs      []*Leg        `json:"legs"`
	Nonce     uint64        `json:"nonce"`
	Signature hexutil.Bytes `json:"signature"`
}

func (b *Bundle) MarshalJSON() ([]byte, error) {
	return json.Marshal(&jsonBundle{b.body.Legs, b.body.Nonce, b.body.Signature})
}

func (b *Bundle) UnmarshalJSON(data []byte) error {
	var jb jsonBundle
	if err := json.Unmarshal(data, &jb); err != nil {
		return err
	}
	if len(jb.Legs) > MaxLegs {
		return errors.New("too many legs")
	}
	for i, l := range jb.Legs {
		if l == nil {
			return errors.Errorf("leg %d: null", i)
		}
	}
	b.setBody(body{jb.Legs, jb.Nonce, jb.Signature})
	return nil
}

func (b *Bundle) setBody(body body) {
	b.body = body
	b.cache.signingHash.Store(nil)
	b.cache.id.Store(nil)
	b.cache.origin.Store(nil)
}
