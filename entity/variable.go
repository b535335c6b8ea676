// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entity

import (
	"github.com/yokaihunt/custody/yokai"
)

// Variable is a single typed record, like a contract global.
type Variable[V any] struct {
	context *Context
	pos     yokai.Bytes32
}

func NewVariable[V any](context *Context, pos yokai.Bytes32) *Variable[V] {
	return &Variable[V]{context: context, pos: pos}
}

// Get returns the value, or the zero value if never set.
func (v *Variable[V]) Get() (value V, err error) {
	_, err = v.context.state.DecodeRLP(v.context.slot(v.pos), &value)
	return
}

// GetOr returns the value, or def if never set.
func (v *Variable[V]) GetOr(def V) (V, error) {
	var value V
	found, err := v.context.state.DecodeRLP(v.context.slot(v.pos), &value)
	if err != nil || !found {
		return def, err
	}
	return value, nil
}

func (v *Variable[V]) Set(value V) error {
	return v.context.state.EncodeRLP(v.context.slot(v.pos), value)
}

// Counter is a uint64 variable with checked arithmetic.
type Counter struct {
	*Variable[uint64]
}

func NewCounter(context *Context, pos yokai.Bytes32) *Counter {
	return &Counter{NewVariable[uint64](context, pos)}
}

// Add adds delta and returns the new value.
func (c *Counter) Add(delta uint64) (uint64, error) {
	n, err := c.Get()
	if err != nil {
		return 0, err
	}
	if n+delta < n {
		return 0, errOverflow
	}
	n += delta
	return n, c.Set(n)
}

// Sub subtracts delta, flooring at zero, and returns the new value.
func (c *Counter) Sub(delta uint64) (uint64, error) {
	n, err := c.Get()
	if err != nil {
		return 0, err
	}
	if delta > n {
		n = 0
	} else {
		n -= delta
	}
	return n, c.Set(n)
}
