// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entity

import "encoding/binary"

type Key interface {
	Bytes() []byte
}

// Uint64Key keys records by asset or app id.
type Uint64Key uint64

func (k Uint64Key) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(k))
}

// StringKey keys records by name.
type StringKey string

func (k StringKey) Bytes() []byte {
	return []byte(k)
}
