// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Bucket is a key prefix carving a namespace out of a store.
type Bucket string

// Key returns k inside the bucket. The result never aliases k.
func (b Bucket) Key(k []byte) []byte {
	key := make([]byte, 0, len(b)+len(k))
	return append(append(key, b...), k...)
}

// NewStore scopes every access to src under the bucket.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{bucketPutter{b, src}, src}
}

type bucketPutter struct {
	bucket Bucket
	dst    Putter
}

func (p bucketPutter) Put(key, val []byte) error { return p.dst.Put(p.bucket.Key(key), val) }
func (p bucketPutter) Delete(key []byte) error   { return p.dst.Delete(p.bucket.Key(key)) }

type bucketStore struct {
	bucketPutter
	src Store
}

func (s *bucketStore) Get(key []byte) ([]byte, error) { return s.src.Get(s.bucket.Key(key)) }
func (s *bucketStore) Has(key []byte) (bool, error)   { return s.src.Has(s.bucket.Key(key)) }
func (s *bucketStore) IsNotFound(err error) bool      { return s.src.IsNotFound(err) }

func (s *bucketStore) Bulk() Bulk {
	bulk := s.src.Bulk()
	return &bucketBulk{bucketPutter{s.bucket, bulk}, bulk}
}

type bucketBulk struct {
	bucketPutter
	bulk Bulk
}

func (b *bucketBulk) Len() int     { return b.bulk.Len() }
func (b *bucketBulk) Write() error { return b.bulk.Write() }
