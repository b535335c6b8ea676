// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yokaihunt/custody/lvldb"
)

func newTestState(t *testing.T) (*State, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStater(db, 64).NewState(), db
}

func TestStateGetSet(t *testing.T) {
	st, db := newTestState(t)

	v, err := st.Get([]byte("k"))
	require.NoError(t, err)
	assert.Nil(t, v)

	st.Set([]byte("k"), []byte("v"))
	has, err := st.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, has)

	// not yet persisted
	_, err = db.Get([]byte("k"))
	assert.True(t, db.IsNotFound(err))

	st.Delete([]byte("k"))
	has, err = st.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestStateRevert(t *testing.T) {
	st, _ := newTestState(t)

	st.Set([]byte("a"), []byte("1"))

	chk := st.NewCheckpoint()
	st.Set([]byte("a"), []byte("2"))
	st.Set([]byte("b"), []byte("3"))

	inner := st.NewCheckpoint()
	st.Delete([]byte("a"))
	st.RevertTo(inner)

	v, _ := st.Get([]byte("a"))
	assert.Equal(t, []byte("2"), v)

	st.RevertTo(chk)
	v, _ = st.Get([]byte("a"))
	assert.Equal(t, []byte("1"), v)
	v, _ = st.Get([]byte("b"))
	assert.Nil(t, v)
}

func TestStateCommit(t *testing.T) {
	st, db := newTestState(t)
	require.NoError(t, db.Put([]byte("old"), []byte("x")))

	st.Set([]byte("a"), []byte("1"))
	st.NewCheckpoint()
	st.Set([]byte("b"), []byte("2"))
	st.Delete([]byte("old"))

	stage, err := st.Commit()
	require.NoError(t, err)
	assert.Equal(t, 3, stage.Len())
	assert.False(t, stage.Hash().IsZero())

	v, err := db.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v)
	_, err = db.Get([]byte("old"))
	assert.True(t, db.IsNotFound(err))

	// journal cleared, reads come from the store or cache
	v, err = st.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)
	assert.Equal(t, 0, st.Stage().Len())

	// a fresh state sharing nothing sees the same data
	fresh := New(db, nil)
	v, err = fresh.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v)
}

func TestStateRLP(t *testing.T) {
	st, _ := newTestState(t)

	type record struct {
		A uint64
		B string
	}

	var out record
	found, err := st.DecodeRLP([]byte("r"), &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, st.EncodeRLP([]byte("r"), &record{7, "x"}))
	found, err = st.DecodeRLP([]byte("r"), &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, record{7, "x"}, out)

	st.Set([]byte("bad"), []byte{0xff, 0xff})
	_, err = st.DecodeRLP([]byte("bad"), &out)
	assert.Error(t, err)
}

func TestStageHashDeterministic(t *testing.T) {
	a, _ := newTestState(t)
	b, _ := newTestState(t)

	a.Set([]byte("x"), []byte("1"))
	a.Set([]byte("y"), []byte("2"))
	b.Set([]byte("y"), []byte("2"))
	b.Set([]byte("x"), []byte("1"))

	assert.Equal(t, a.Stage().Hash(), b.Stage().Hash())
	b.Set([]byte("x"), []byte("3"))
	assert.NotEqual(t, a.Stage().Hash(), b.Stage().Hash())
}
