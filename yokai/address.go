// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package yokai

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/common"
)

const AddressLength = common.AddressLength

// Address identifies a player, the platform or a ledger escrow.
// The zero address stands for an absent optional field.
type Address common.Address

func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }
func (a Address) Bytes() []byte  { return a[:] }
func (a Address) IsZero() bool   { return a == Address{} }

func (a Address) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Address) UnmarshalText(text []byte) error {
	return decodeFixedHex(string(text), a[:])
}

// ParseAddress accepts 40 hex digits with an optional 0x prefix.
func ParseAddress(s string) (a Address, err error) {
	err = decodeFixedHex(s, a[:])
	return
}

func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// BytesToAddress left pads, or left crops, b to an address.
func BytesToAddress(b []byte) Address {
	return Address(common.BytesToAddress(b))
}
