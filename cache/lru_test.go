// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yokaihunt/custody/cache"
)

func TestLRU(t *testing.T) {
	_, err := cache.NewLRU[string, int](0)
	assert.Error(t, err)

	c, err := cache.NewLRU[string, int](2)
	require.NoError(t, err)
	c.Add("listing/1", 1)
	c.Add("listing/2", 2)
	c.Add("listing/3", 3)
	assert.Equal(t, 2, c.Len())

	_, ok := c.Get("listing/1")
	assert.False(t, ok, "oldest entry evicted")
	v, ok := c.Get("listing/3")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	c.Remove("listing/3")
	_, ok = c.Get("listing/3")
	assert.False(t, ok)

	hit, miss := c.Stats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(2), miss)

	c.Purge()
	assert.Zero(t, c.Len())
}

func TestGetOrLoad(t *testing.T) {
	c, err := cache.NewLRU[int, string](16)
	require.NoError(t, err)

	var calls atomic.Int32
	load := func(int) (string, error) {
		calls.Add(1)
		return "stake", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _, err := c.GetOrLoad(1, load)
			assert.NoError(t, err)
			assert.Equal(t, "stake", v)
		}()
	}
	wg.Wait()
	loaded := calls.Load()
	assert.GreaterOrEqual(t, loaded, int32(1))

	v, ran, err := c.GetOrLoad(1, load)
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, "stake", v)
	assert.Equal(t, loaded, calls.Load())

	boom := errors.New("boom")
	_, ran, err = c.GetOrLoad(2, func(int) (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	assert.True(t, ran)
	_, ok := c.Get(2)
	assert.False(t, ok, "failed load not cached")

	_, ran, err = c.GetOrLoad(3, load)
	require.NoError(t, err)
	assert.True(t, ran)
}
