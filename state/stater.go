// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/yokaihunt/custody/cache"
	"github.com/yokaihunt/custody/kv"
)

// Stater is the state creator. States created by the same stater share a read cache.
type Stater struct {
	store kv.Store
	cache *cache.LRU[string, []byte]
}

// NewStater create a new stater. A cacheSize <= 0 disables the read cache.
func NewStater(store kv.Store, cacheSize int) *Stater {
	var c *cache.LRU[string, []byte]
	if cacheSize > 0 {
		c, _ = cache.NewLRU[string, []byte](cacheSize)
	}
	return &Stater{store, c}
}

// NewState create a new state object.
func (s *Stater) NewState() *State {
	return New(s.store, s.cache)
}
