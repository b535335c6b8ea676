// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"

	"github.com/yokaihunt/custody/logdb"
	"github.com/yokaihunt/custody/runtime"
	"github.com/yokaihunt/custody/yokai"
)

type CallIngestion struct {
	LastReceipt            *yokai.Bytes32 `json:"lastReceipt"`
	LastCommitTimestamp    *time.Time     `json:"lastCommitTimestamp"`
	UnloggedReceiptsInARow uint64         `json:"unloggedReceiptsInARow"`
}

type Status struct {
	Healthy       bool           `json:"healthy"`
	CallIngestion *CallIngestion `json:"callIngestion"`
	Initialized   bool           `json:"initialized"`
}

// Health tracks the committed calls. The service is healthy once the ledgers are
// initialized and as long as committed receipts reach the receipt log.
type Health struct {
	lock        sync.RWMutex
	lastCommit  time.Time
	lastReceipt *yokai.Bytes32
	unlogged    uint64
	initialized bool
}

func New() *Health {
	return &Health{}
}

// Committed records a committed call. logged is false when its receipt missed the log.
func (h *Health) Committed(id yokai.Bytes32, logged bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.lastCommit = time.Now()
	h.lastReceipt = &id
	if logged {
		h.unlogged = 0
	} else {
		h.unlogged++
	}
}

func (h *Health) Initialized(initialized bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.initialized = initialized
}

func (h *Health) Status() (*Status, error) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	ingestion := &CallIngestion{
		LastReceipt:            h.lastReceipt,
		UnloggedReceiptsInARow: h.unlogged,
	}
	if h.lastReceipt != nil {
		lastCommit := h.lastCommit
		ingestion.LastCommitTimestamp = &lastCommit
	}

	return &Status{
		Healthy:       h.initialized && h.unlogged == 0,
		CallIngestion: ingestion,
		Initialized:   h.initialized,
	}, nil
}

// Track follows the receipts of exec until done is closed. With logEnabled, a
// receipt without seq was not written to the receipt log.
func (h *Health) Track(exec *runtime.Executor, logEnabled bool, done <-chan struct{}) {
	ch := make(chan *logdb.Receipt, 16)
	sub := exec.SubscribeReceipts(ch)
	defer sub.Unsubscribe()

	for {
		select {
		case r := <-ch:
			h.Committed(r.ID, !logEnabled || r.Seq != 0)
		case <-sub.Err():
			return
		case <-done:
			return
		}
	}
}
