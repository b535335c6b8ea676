// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/yokaihunt/custody/cache"
	"github.com/yokaihunt/custody/kv"
	"github.com/yokaihunt/custody/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// State is a revertable view of the kv store.
// A nil value stands for an absent key.
type State struct {
	store kv.Store
	cache *cache.LRU[string, []byte] // cache of committed values
	sm    *stackedmap.StackedMap[string, []byte]
}

// New create state object over the given store.
// The cache is optional.
func New(store kv.Store, c *cache.LRU[string, []byte]) *State {
	s := &State{store: store, cache: c}
	s.reset()
	return s
}

func (s *State) reset() {
	s.sm = stackedmap.New(s.load)
	// base level holds changes made outside of any checkpoint
	s.sm.Push()
}

// load implements stackedmap.MapGetter.
func (s *State) load(key string) ([]byte, bool, error) {
	if s.cache == nil {
		v, err := kv.GetOrNil(s.store, []byte(key))
		return v, true, err
	}
	v, _, err := s.cache.GetOrLoad(key, func(key string) ([]byte, error) {
		return kv.GetOrNil(s.store, []byte(key))
	})
	return v, true, err
}

// Get returns the raw value of key, nil if absent.
func (s *State) Get(key []byte) ([]byte, error) {
	v, _, err := s.sm.Get(string(key))
	if err != nil {
		return nil, &Error{err}
	}
	return v, nil
}

// Has returns whether key has a value.
func (s *State) Has(key []byte) (bool, error) {
	v, err := s.Get(key)
	if err != nil {
		return false, err
	}
	return len(v) > 0, nil
}

// Set sets the raw value of key. An empty value deletes the key.
func (s *State) Set(key, value []byte) {
	if len(value) == 0 {
		value = nil
	}
	s.sm.Put(string(key), value)
}

// Delete deletes key.
func (s *State) Delete(key []byte) {
	s.sm.Put(string(key), nil)
}

// EncodeStorage set value encoded by given enc method.
func (s *State) EncodeStorage(key []byte, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.Set(key, raw)
	return nil
}

// DecodeStorage get and decode value. dec receives nil for an absent key.
func (s *State) DecodeStorage(key []byte, dec func([]byte) error) error {
	raw, err := s.Get(key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// EncodeRLP stores val as rlp.
func (s *State) EncodeRLP(key []byte, val any) error {
	return s.EncodeStorage(key, func() ([]byte, error) {
		return rlp.EncodeToBytes(val)
	})
}

// DecodeRLP decodes the rlp value of key into val.
// It returns false without touching val if the key is absent.
func (s *State) DecodeRLP(key []byte, val any) (found bool, err error) {
	err = s.DecodeStorage(key, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		found = true
		return rlp.DecodeBytes(raw, val)
	})
	return
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	if revision < 1 {
		revision = 1
	}
	s.sm.PopTo(revision)
}

// Stage collects the pending changes.
func (s *State) Stage() *Stage {
	changes := make(map[string][]byte)
	s.sm.Journal(func(k string, v []byte) bool {
		changes[k] = v
		return true
	})
	return newStage(s.store, changes)
}

// Commit writes all pending changes to the store atomically and clears the journal.
func (s *State) Commit() (*Stage, error) {
	stage := s.Stage()
	if err := stage.Commit(); err != nil {
		return nil, &Error{err}
	}
	if s.cache != nil {
		for k, v := range stage.changes {
			s.cache.Add(k, v)
		}
		hit, miss := s.cache.Stats()
		metricCacheHitMiss().SetWithLabel(hit, map[string]string{"type": "hit"})
		metricCacheHitMiss().SetWithLabel(miss, map[string]string{"type": "miss"})
	}
	var deleted int64
	for _, v := range stage.changes {
		if v == nil {
			deleted++
		}
	}
	metricStateChanges().AddWithLabel(int64(len(stage.changes))-deleted, map[string]string{"kind": "set"})
	metricStateChanges().AddWithLabel(deleted, map[string]string{"kind": "delete"})
	s.reset()
	return stage, nil
}

// Discard drops all pending changes.
func (s *State) Discard() {
	s.reset()
}
