// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cache holds the typed read caches in front of the ledger store and
// the receipt stream.
package cache

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"
)

// LRU is a size bounded cache. Loads of the same missing key share one call.
type LRU[K comparable, V any] struct {
	entries   *lru.Cache
	loads     singleflight.Group
	hit, miss atomic.Int64
}

// NewLRU fails unless size is positive.
func NewLRU[K comparable, V any](size int) (*LRU[K, V], error) {
	entries, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{entries: entries}, nil
}

func (l *LRU[K, V]) Get(key K) (v V, ok bool) {
	cached, ok := l.entries.Get(key)
	if !ok {
		l.miss.Add(1)
		return v, false
	}
	l.hit.Add(1)
	return cached.(V), true
}

func (l *LRU[K, V]) Add(key K, value V) { l.entries.Add(key, value) }
func (l *LRU[K, V]) Remove(key K)       { l.entries.Remove(key) }
func (l *LRU[K, V]) Purge()             { l.entries.Purge() }
func (l *LRU[K, V]) Len() int           { return l.entries.Len() }

// Stats returns the hits and misses of Get since creation.
func (l *LRU[K, V]) Stats() (hit, miss int64) {
	return l.hit.Load(), l.miss.Load()
}

// GetOrLoad returns the cached value, or caches what load returns. A failed
// load caches nothing. loaded reports whether this call ran load.
func (l *LRU[K, V]) GetOrLoad(key K, load func(K) (V, error)) (v V, loaded bool, err error) {
	if v, ok := l.Get(key); ok {
		return v, false, nil
	}
	var ran bool
	res, err, _ := l.loads.Do(fmt.Sprint(key), func() (any, error) {
		ran = true
		v, err := load(key)
		if err != nil {
			return nil, err
		}
		l.entries.Add(key, v)
		return v, nil
	})
	if err != nil {
		return v, ran, err
	}
	return res.(V), ran, nil
}
