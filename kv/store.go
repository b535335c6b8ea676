// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv defines the byte level store the ledgers persist into.
package kv

type Getter interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Bulk buffers writes until Write applies them at once.
type Bulk interface {
	Putter
	Len() int
	Write() error
}

type Store interface {
	Getter
	Putter
	Bulk() Bulk
}

// GetOrNil is Get with absent keys mapped to a nil value.
func GetOrNil(g Getter, key []byte) ([]byte, error) {
	val, err := g.Get(key)
	if err != nil && g.IsNotFound(err) {
		return nil, nil
	}
	return val, err
}
