// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stackedmap layers write sets over a read source, so nested calls can
// be reverted one level at a time.
package stackedmap

// MapGetter reads the source below the bottom level.
type MapGetter[K comparable, V any] func(key K) (value V, exist bool, err error)

type entry[K comparable, V any] struct {
	key   K
	value V
}

type level[K comparable, V any] struct {
	latest  map[K]V
	journal []entry[K, V]
}

// StackedMap is a stack of write sets. Reads see the topmost write of a key,
// falling back to the source.
type StackedMap[K comparable, V any] struct {
	src    MapGetter[K, V]
	levels []*level[K, V]
}

func New[K comparable, V any](src MapGetter[K, V]) *StackedMap[K, V] {
	return &StackedMap[K, V]{src: src}
}

func (sm *StackedMap[K, V]) Depth() int {
	return len(sm.levels)
}

// Push opens a level and returns the depth it can be reverted to.
func (sm *StackedMap[K, V]) Push() int {
	sm.levels = append(sm.levels, &level[K, V]{latest: make(map[K]V)})
	return len(sm.levels) - 1
}

// Pop drops the top level with all its writes.
func (sm *StackedMap[K, V]) Pop() {
	sm.PopTo(len(sm.levels) - 1)
}

// PopTo drops levels until depth remain.
func (sm *StackedMap[K, V]) PopTo(depth int) {
	if depth < 0 {
		depth = 0
	}
	for i := depth; i < len(sm.levels); i++ {
		sm.levels[i] = nil
	}
	if depth < len(sm.levels) {
		sm.levels = sm.levels[:depth]
	}
}

// Get returns the topmost value of key. exist comes from the source when no
// level wrote the key.
func (sm *StackedMap[K, V]) Get(key K) (value V, exist bool, err error) {
	for i := len(sm.levels) - 1; i >= 0; i-- {
		if v, ok := sm.levels[i].latest[key]; ok {
			return v, true, nil
		}
	}
	return sm.src(key)
}

// Put writes into the top level. It panics with no level pushed.
func (sm *StackedMap[K, V]) Put(key K, value V) {
	top := sm.levels[len(sm.levels)-1]
	top.latest[key] = value
	top.journal = append(top.journal, entry[K, V]{key, value})
}

// Journal replays every write still on the stack, bottom level first, until
// fn returns false.
func (sm *StackedMap[K, V]) Journal(fn func(key K, value V) bool) {
	for _, lvl := range sm.levels {
		for _, e := range lvl.journal {
			if !fn(e.key, e.value) {
				return
			}
		}
	}
}
