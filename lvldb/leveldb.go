// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb is the goleveldb backed kv store holding the ledger state.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/yokaihunt/custody/kv"
)

const minCapacity = 16

// Options tunes a persistent store. CacheSize is in MiB.
type Options struct {
	CacheSize              int
	OpenFilesCacheCapacity int
}

func (o Options) leveldb() *opt.Options {
	cache := max(o.CacheSize, minCapacity)
	return &opt.Options{
		OpenFilesCacheCapacity: max(o.OpenFilesCacheCapacity, minCapacity),
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		// the memdb is doubled while it is being flushed
		WriteBuffer: cache / 4 * opt.MiB,
		Filter:      filter.NewBloomFilter(10),
	}
}

// LevelDB implements kv.Store. Single writes are buffered by the OS, bulk
// writes are synced.
type LevelDB struct {
	db  *leveldb.DB
	stg storage.Storage // not closed by the db, holds the file lock
}

var _ kv.Store = (*LevelDB)(nil)

// New opens the store at path, creating it if missing.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrapf(err, "open storage %s", path)
	}
	return open(stg, opts)
}

// NewMem opens a store living in memory only.
func NewMem() (*LevelDB, error) {
	return open(storage.NewMemStorage(), Options{})
}

func open(stg storage.Storage, opts Options) (*LevelDB, error) {
	db, err := leveldb.Open(stg, opts.leveldb())
	if err != nil {
		stg.Close()
		return nil, errors.Wrap(err, "open leveldb")
	}
	return &LevelDB{db, stg}, nil
}

func (l *LevelDB) Get(key []byte) ([]byte, error) { return l.db.Get(key, nil) }
func (l *LevelDB) Has(key []byte) (bool, error)   { return l.db.Has(key, nil) }
func (l *LevelDB) Put(key, value []byte) error    { return l.db.Put(key, value, nil) }
func (l *LevelDB) Delete(key []byte) error        { return l.db.Delete(key, nil) }
func (l *LevelDB) IsNotFound(err error) bool      { return errors.Is(err, leveldb.ErrNotFound) }
func (l *LevelDB) Bulk() kv.Bulk                  { return &batch{l.db, new(leveldb.Batch)} }

// Close closes the db, then releases its storage.
func (l *LevelDB) Close() error {
	err := l.db.Close()
	if cerr := l.stg.Close(); err == nil {
		err = cerr
	}
	return err
}

// Stats returns the leveldb compaction and table report.
func (l *LevelDB) Stats() (string, error) {
	return l.db.GetProperty("leveldb.stats")
}

type batch struct {
	db *leveldb.DB
	b  *leveldb.Batch
}

func (b *batch) Put(key, value []byte) error {
	b.b.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}

func (b *batch) Len() int { return b.b.Len() }

// Write applies the buffered writes atomically and empties the batch.
func (b *batch) Write() error {
	if b.b.Len() == 0 {
		return nil
	}
	if err := b.db.Write(b.b, &opt.WriteOptions{Sync: true}); err != nil {
		return errors.Wrap(err, "write batch")
	}
	b.b.Reset()
	return nil
}
