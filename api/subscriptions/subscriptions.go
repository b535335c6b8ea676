// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/yokaihunt/custody/api/receipts"
	"github.com/yokaihunt/custody/api/utils"
	"github.com/yokaihunt/custody/cache"
	"github.com/yokaihunt/custody/log"
	"github.com/yokaihunt/custody/logdb"
	"github.com/yokaihunt/custody/runtime"
	"github.com/yokaihunt/custody/yokai"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10

	receiptChanSize = 64

	maxMessageCacheSize = 1000
)

type Subscriptions struct {
	backtraceLimit uint64
	logDB          *logdb.LogDB
	upgrader       *websocket.Upgrader
	dispatcher     *dispatcher
	messages       *cache.LRU[yokai.Bytes32, []byte]
	done           chan struct{}
	wg             sync.WaitGroup
}

// New creates the receipt stream. Subscribers resuming from a position may
// replay at most backtraceLimit stored receipts.
// Encoded messages are shared by all subscribers through a cache of
// cacheSize entries, clamped to [1, maxMessageCacheSize].
func New(exec *runtime.Executor, logDB *logdb.LogDB, allowedOrigins []string, backtraceLimit uint64, cacheSize uint32) *Subscriptions {
	messages, _ := cache.NewLRU[yokai.Bytes32, []byte](int(min(max(cacheSize, 1), maxMessageCacheSize)))
	sub := &Subscriptions{
		backtraceLimit: backtraceLimit,
		logDB:          logDB,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},
		dispatcher: newDispatcher(exec),
		messages:   messages,
		done:       make(chan struct{}),
	}
	sub.wg.Go(func() { sub.dispatcher.DispatchLoop(sub.done) })
	return sub
}

func (s *Subscriptions) parsePosition(req *http.Request) (uint64, bool, error) {
	posStr := req.URL.Query().Get("pos")
	if posStr == "" {
		return 0, false, nil
	}
	pos, err := strconv.ParseUint(posStr, 10, 64)
	if err != nil {
		return 0, false, utils.BadRequest(errors.WithMessage(err, "pos"))
	}
	if s.logDB == nil {
		return 0, false, utils.Forbidden(errors.New("pos: receipt log disabled"))
	}
	return pos, true, nil
}

// backlog returns the stored receipts after pos.
func (s *Subscriptions) backlog(ctx context.Context, filter *ReceiptFilter, pos uint64) ([]*logdb.Receipt, error) {
	stored, err := s.logDB.FilterReceipts(ctx, filter.logFilter(pos, s.backtraceLimit+1))
	if err != nil {
		return nil, err
	}
	if uint64(len(stored)) > s.backtraceLimit {
		return nil, utils.Forbidden(fmt.Errorf("pos: more than %d receipts behind", s.backtraceLimit))
	}
	return stored, nil
}

func (s *Subscriptions) message(r *logdb.Receipt) ([]byte, error) {
	msg, _, err := s.messages.GetOrLoad(r.ID, func(yokai.Bytes32) ([]byte, error) {
		converted, err := receipts.ConvertReceipt(r)
		if err != nil {
			return nil, err
		}
		return json.Marshal(converted)
	})
	return msg, err
}

func (s *Subscriptions) handleReceipts(w http.ResponseWriter, req *http.Request) error {
	filter, err := parseReceiptFilter(req.URL.Query())
	if err != nil {
		return err
	}
	pos, resume, err := s.parsePosition(req)
	if err != nil {
		return err
	}

	s.wg.Add(1)
	defer s.wg.Done()

	// subscribe before reading the backlog so nothing falls in between
	ch := make(chan *logdb.Receipt, receiptChanSize)
	s.dispatcher.Subscribe(ch)
	defer s.dispatcher.Unsubscribe(ch)

	var pending []*logdb.Receipt
	if resume {
		if pending, err = s.backlog(req.Context(), filter, pos); err != nil {
			return err
		}
	}

	conn, closed, err := s.setupConn(w, req)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}

	err = s.pipe(conn, filter, pos, pending, ch, closed)
	s.closeConn(conn, err)
	return nil
}

func (s *Subscriptions) setupConn(w http.ResponseWriter, req *http.Request) (*websocket.Conn, chan struct{}, error) {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return nil, nil, err
	}

	closed := make(chan struct{})
	// start read loop to handle close event
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket read err", "err", err)
				return
			}
		}
	}()
	return conn, closed, nil
}

func (s *Subscriptions) closeConn(conn *websocket.Conn, err error) {
	var closeMsg []byte
	if err != nil {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
	} else {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	}

	if err := conn.WriteMessage(websocket.CloseMessage, closeMsg); err != nil {
		logger.Debug("write close message", "err", err)
	}

	if err := conn.Close(); err != nil {
		logger.Debug("close websocket", "err", err)
	}
}

// pipe writes the backlog, then every live receipt passing the filter. Live
// receipts already covered by the backlog are skipped.
func (s *Subscriptions) pipe(conn *websocket.Conn, filter *ReceiptFilter, replayed uint64, pending []*logdb.Receipt, ch <-chan *logdb.Receipt, closed <-chan struct{}) error {
	write := func(r *logdb.Receipt) error {
		msg, err := s.message(r)
		if err != nil {
			return err
		}
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return err
		}
		return conn.WriteMessage(websocket.TextMessage, msg)
	}

	for _, r := range pending {
		if err := write(r); err != nil {
			return err
		}
		replayed = max(replayed, r.Seq)
	}

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()
	for {
		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case r := <-ch:
			// seq is zero when the receipt missed the log
			if r.Seq != 0 && r.Seq <= replayed {
				continue
			}
			if !filter.Match(r) {
				continue
			}
			if err := write(r); err != nil {
				return err
			}
		case <-pingTicker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// Close stops all streams and waits for them to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/receipts").
		Methods(http.MethodGet).
		Name("WS /subscriptions/receipts").
		HandlerFunc(utils.WrapHandlerFunc(s.handleReceipts))
}
