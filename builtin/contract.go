// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import "github.com/yokaihunt/custody/yokai"

type contract struct {
	name    string
	Address yokai.Address
}

func newContract(name string) *contract {
	return &contract{
		name,
		yokai.BytesToAddress([]byte(name)),
	}
}

// Name returns the ledger name, used as operation label.
func (c *contract) Name() string {
	return c.name
}
