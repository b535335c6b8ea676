// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bundle

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// Sign signs a bundle with the caller's private key.
func Sign(b *Bundle, pk *ecdsa.PrivateKey) (*Bundle, error) {
	hash := b.SigningHash()
	sig, err := crypto.Sign(hash[:], pk)
	if err != nil {
		return nil, fmt.Errorf("unable to sign bundle: %w", err)
	}
	return b.WithSignature(sig), nil
}

// MustSign signs a bundle and panics on failure.
func MustSign(b *Bundle, pk *ecdsa.PrivateKey) *Bundle {
	signed, err := Sign(b, pk)
	if err != nil {
		panic(err)
	}
	return signed
}
