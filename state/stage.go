// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"io"
	"sort"

	"github.com/pkg/errors"

	"github.com/yokaihunt/custody/kv"
	"github.com/yokaihunt/custody/yokai"
)

// Stage abstracts the net changes of a state.
type Stage struct {
	store   kv.Store
	changes map[string][]byte
}

func newStage(store kv.Store, changes map[string][]byte) *Stage {
	return &Stage{store, changes}
}

// Len returns the count of changed keys.
func (s *Stage) Len() int {
	return len(s.changes)
}

func (s *Stage) sortedKeys() []string {
	keys := make([]string, 0, len(s.changes))
	for k := range s.changes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Hash computes a digest over the sorted changes.
func (s *Stage) Hash() yokai.Bytes32 {
	return yokai.Blake2bFn(func(w io.Writer) {
		for _, k := range s.sortedKeys() {
			w.Write([]byte(k))
			w.Write([]byte{0})
			w.Write(s.changes[k])
		}
	})
}

// Commit writes the changes into the store in one batch.
func (s *Stage) Commit() error {
	bulk := s.store.Bulk()
	for _, k := range s.sortedKeys() {
		v := s.changes[k]
		var err error
		if len(v) == 0 {
			err = bulk.Delete([]byte(k))
		} else {
			err = bulk.Put([]byte(k), v)
		}
		if err != nil {
			return errors.Wrap(err, "stage")
		}
	}
	return errors.Wrap(bulk.Write(), "commit")
}
