// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package entity

import (
	"github.com/yokaihunt/custody/state"
	"github.com/yokaihunt/custody/yokai"
)

// Context binds a record namespace to a state.
type Context struct {
	namespace string
	state     *state.State
}

func NewContext(namespace string, state *state.State) *Context {
	return &Context{
		namespace: namespace,
		state:     state,
	}
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) Namespace() string {
	return c.namespace
}

// slot returns the state key of a position in this namespace.
func (c *Context) slot(pos yokai.Bytes32) []byte {
	return append([]byte(c.namespace+"/"), pos[:]...)
}

// Position derives a position from a name.
func Position(name string) yokai.Bytes32 {
	return yokai.Blake2b([]byte(name))
}
