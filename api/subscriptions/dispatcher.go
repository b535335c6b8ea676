// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"sync"

	"github.com/yokaihunt/custody/logdb"
	"github.com/yokaihunt/custody/runtime"
)

// dispatcher fans committed receipts out to the websocket listeners.
type dispatcher struct {
	exec      *runtime.Executor
	listeners map[chan *logdb.Receipt]struct{}
	mu        sync.RWMutex
}

func newDispatcher(exec *runtime.Executor) *dispatcher {
	return &dispatcher{
		exec:      exec,
		listeners: make(map[chan *logdb.Receipt]struct{}),
	}
}

func (d *dispatcher) Subscribe(ch chan *logdb.Receipt) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.listeners[ch] = struct{}{}
}

func (d *dispatcher) Unsubscribe(ch chan *logdb.Receipt) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.listeners, ch)
}

func (d *dispatcher) DispatchLoop(done <-chan struct{}) {
	receiptCh := make(chan *logdb.Receipt, 16)
	sub := d.exec.SubscribeReceipts(receiptCh)
	defer sub.Unsubscribe()

	for {
		select {
		case receipt := <-receiptCh:
			d.mu.RLock()
			func() {
				for lsn := range d.listeners {
					select {
					case lsn <- receipt:
					case <-done:
						return
					default: // a listener too slow to keep up misses the receipt
					}
				}
			}()
			d.mu.RUnlock()
		case <-sub.Err():
			return
		case <-done:
			return
		}
	}
}
