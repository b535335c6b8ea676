// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/yokaihunt/custody/builtin/marketplace"
	"github.com/yokaihunt/custody/builtin/registry"
	"github.com/yokaihunt/custody/builtin/staking"
	"github.com/yokaihunt/custody/state"
)

// Builtin ledgers binding. Marketplace and Staking escrow assets at their own address.
var (
	Marketplace = &marketplaceContract{newContract("Marketplace")}
	Staking     = &stakingContract{newContract("Staking")}
	Registry    = &registryContract{newContract("Registry")}
)

type (
	marketplaceContract struct{ *contract }
	stakingContract     struct{ *contract }
	registryContract    struct{ *contract }
)

func (m *marketplaceContract) WithState(state *state.State) *marketplace.Marketplace {
	return marketplace.New(m.Address, state)
}

// WithState binds staking to the state, checking legendary stakes against the registry.
func (s *stakingContract) WithState(state *state.State) *staking.Staking {
	return staking.New(s.Address, state, Registry.WithState(state))
}

func (r *registryContract) WithState(state *state.State) *registry.Registry {
	return registry.New(state)
}
