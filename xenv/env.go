// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/yokaihunt/custody/bundle"
	"github.com/yokaihunt/custody/custody"
	"github.com/yokaihunt/custody/state"
	"github.com/yokaihunt/custody/yokai"
)

// CallContext describes the call being executed.
type CallContext struct {
	Caller yokai.Address  // authenticated signer of the bundle
	Time   uint64         // unix seconds the call executes at
	Bundle *bundle.Bundle // nil for calls not carrying a bundle
}

// Environment an env to execute a ledger operation.
type Environment struct {
	state   *state.State
	custody custody.Service
	callCtx *CallContext
}

// New create a new env.
func New(state *state.State, custody custody.Service, callCtx *CallContext) *Environment {
	return &Environment{
		state:   state,
		custody: custody,
		callCtx: callCtx,
	}
}

func (env *Environment) State() *state.State       { return env.state }
func (env *Environment) Custody() custody.Service  { return env.custody }
func (env *Environment) CallContext() *CallContext { return env.callCtx }
func (env *Environment) Caller() yokai.Address     { return env.callCtx.Caller }
func (env *Environment) Time() uint64              { return env.callCtx.Time }
func (env *Environment) Bundle() *bundle.Bundle    { return env.callCtx.Bundle }

// Atomic runs fn inside a state checkpoint. Every change fn made, including
// custody movements kept in the same state, is reverted when fn fails or panics.
func (env *Environment) Atomic(fn func() error) (err error) {
	chk := env.state.NewCheckpoint()
	defer func() {
		if e := recover(); e != nil {
			env.state.RevertTo(chk)
			panic(e)
		}
		if err != nil {
			env.state.RevertTo(chk)
		}
	}()
	return fn()
}

// Settle moves custody through the env's service.
func (env *Environment) Settle(transfers ...*custody.Transfer) error {
	return custody.Settle(env.custody, transfers)
}
