// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entity

import (
	"errors"

	"github.com/yokaihunt/custody/yokai"
)

// ErrExists is returned when inserting a key that already has a record.
var ErrExists = errors.New("record exists")

// Mapping is a typed key/value record store, similar to the mapping in Solidity.
// Values are stored as rlp. An absent key reads as the zero value.
type Mapping[K Key, V any] struct {
	context *Context
	basePos yokai.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos yokai.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) slot(key K) []byte {
	return m.context.slot(yokai.Blake2b(key.Bytes(), m.basePos.Bytes()))
}

// Get returns a copy of the record of key.
// The bool result reports whether the record exists.
func (m *Mapping[K, V]) Get(key K) (value V, found bool, err error) {
	found, err = m.context.state.DecodeRLP(m.slot(key), &value)
	return
}

// Has reports whether key has a record.
func (m *Mapping[K, V]) Has(key K) (bool, error) {
	return m.context.state.Has(m.slot(key))
}

// Set writes the record of key, replacing any existing one.
func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.state.EncodeRLP(m.slot(key), value)
}

// Insert writes the record of key only if there is none.
func (m *Mapping[K, V]) Insert(key K, value V) error {
	exists, err := m.Has(key)
	if err != nil {
		return err
	}
	if exists {
		return ErrExists
	}
	return m.Set(key, value)
}

// Delete removes the record of key.
func (m *Mapping[K, V]) Delete(key K) {
	m.context.state.Delete(m.slot(key))
}

var errOverflow = errors.New("counter overflow")
