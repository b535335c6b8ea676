// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yokaihunt/custody/builtin/registry"
	"github.com/yokaihunt/custody/test/testledger"
	"github.com/yokaihunt/custody/yokai"
)

func TestHealth_Committed(t *testing.T) {
	h := New()
	id := yokai.Bytes32{0x01, 0x02, 0x03}

	h.Committed(id, true)

	if h.lastReceipt == nil || *h.lastReceipt != id {
		t.Errorf("expected lastReceipt to be %v, got %v", id, h.lastReceipt)
	}
	if time.Since(h.lastCommit) > time.Second {
		t.Errorf("lastCommit timestamp is not recent")
	}

	h.Initialized(true)

	status, err := h.Status()
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.Equal(t, &id, status.CallIngestion.LastReceipt)
	assert.NotNil(t, status.CallIngestion.LastCommitTimestamp)
}

func TestHealth_Initialized(t *testing.T) {
	h := New()

	status, err := h.Status()
	require.NoError(t, err)
	assert.False(t, status.Healthy)
	assert.Nil(t, status.CallIngestion.LastCommitTimestamp)

	h.Initialized(true)
	status, err = h.Status()
	require.NoError(t, err)
	assert.True(t, status.Healthy)

	h.Initialized(false)
	status, err = h.Status()
	require.NoError(t, err)
	assert.False(t, status.Healthy)
}

func TestHealth_UnloggedReceipts(t *testing.T) {
	h := New()
	h.Initialized(true)

	h.Committed(yokai.Bytes32{1}, false)
	h.Committed(yokai.Bytes32{2}, false)
	status, err := h.Status()
	require.NoError(t, err)
	assert.False(t, status.Healthy)
	assert.Equal(t, uint64(2), status.CallIngestion.UnloggedReceiptsInARow)

	h.Committed(yokai.Bytes32{3}, true)
	status, err = h.Status()
	require.NoError(t, err)
	assert.True(t, status.Healthy)
}

func TestHealth_Track(t *testing.T) {
	l, err := testledger.New(1_700_000_000)
	require.NoError(t, err)
	defer l.Close()

	h := New()
	done := make(chan struct{})
	defer close(done)
	go h.Track(l.Exec, true, done)

	admin := testledger.DevAccounts()[0]
	// the subscription starts asynchronously, keep committing until one receipt is seen
	n := 0
	require.Eventually(t, func() bool {
		n++
		_, err := l.Exec.RegisterLegendary(l.Call(admin, registry.MethodRegisterLegendary), fmt.Sprintf("species-%d", n), uint64(n))
		require.NoError(t, err)
		status, err := h.Status()
		return err == nil && status.CallIngestion.LastReceipt != nil
	}, 2*time.Second, 20*time.Millisecond)
}
