// Copyright (c) 2025 The Saffron Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/saffron-finance/sfi-farm/api/utils"
	"github.com/saffron-finance/sfi-farm/chain"
	"github.com/saffron-finance/sfi-farm/log"
	"github.com/saffron-finance/sfi-farm/metrics"
	"github.com/saffron-finance/sfi-farm/sfi"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
)

var (
	logger            = log.WithContext("pkg", "subscriptions")
	metricActiveCount = metrics.LazyLoadGaugeVec("api_active_websocket_count", []string{"subject"})
)

type msgReader interface {
	Read() (msgs [][]byte, hasMore bool, err error)
}

type Subscriptions struct {
	backtraceLimit uint64
	chain          *chain.Chain
	upgrader       *websocket.Upgrader
	blockCache     *messageCache
	done           chan struct{}
	wg             sync.WaitGroup
}

// New creates the subscriptions api. A subscription may start at most
// backtraceLimit blocks behind the best block.
func New(chain *chain.Chain, allowedOrigins []string, backtraceLimit uint64) *Subscriptions {
	return &Subscriptions{
		backtraceLimit: backtraceLimit,
		chain:          chain,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == strings.ToLower(origin) {
						return true
					}
				}
				return false
			},
		},
		blockCache: newMessageCache(backtraceLimit),
		done:       make(chan struct{}),
	}
}

// parsePosition reads the pos query param, the block the client already has.
// It defaults to the best block.
func (s *Subscriptions) parsePosition(posStr string) (uint64, error) {
	best := s.chain.BestBlock().Number
	if posStr == "" {
		return best, nil
	}
	pos, err := utils.ParseUint64("pos", posStr)
	if err != nil {
		return 0, err
	}
	if pos > best {
		return 0, utils.BadRequest(errors.New("pos: beyond best block"))
	}
	if best-pos > s.backtraceLimit {
		return 0, utils.Forbidden(errors.New("pos: backtrace limit exceeded"))
	}
	return pos, nil
}

func (s *Subscriptions) parseEventFilter(req *http.Request) (*EventFilter, error) {
	query := req.URL.Query()
	filter := &EventFilter{Name: query.Get("name")}
	if addr := query.Get("address"); addr != "" {
		address, err := utils.ParseAddress("address", addr)
		if err != nil {
			return nil, err
		}
		filter.Address = &address
	}
	topics := []**sfi.Bytes32{&filter.Topic0, &filter.Topic1, &filter.Topic2, &filter.Topic3}
	for i, name := range []string{"t0", "t1", "t2", "t3"} {
		str := query.Get(name)
		if str == "" {
			continue
		}
		topic, err := sfi.ParseBytes32(str)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, name))
		}
		*topics[i] = &topic
	}
	return filter, nil
}

func (s *Subscriptions) handleSubject(w http.ResponseWriter, req *http.Request) error {
	s.wg.Add(1)
	defer s.wg.Done()

	subject := mux.Vars(req)["subject"]
	pos, err := s.parsePosition(req.URL.Query().Get("pos"))
	if err != nil {
		return err
	}

	var reader msgReader
	switch subject {
	case "block":
		reader = newBlockReader(s.chain, s.blockCache, pos)
	case "event":
		filter, err := s.parseEventFilter(req)
		if err != nil {
			return err
		}
		reader = newEventReader(s.chain, pos, filter)
	default:
		return utils.NotFound(errors.New("subject"))
	}

	conn, closed, err := s.setupConn(w, req)
	// the conn is hijacked from here on, so no error may be returned below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}

	metricActiveCount().AddWithLabel(1, map[string]string{"subject": subject})
	defer metricActiveCount().AddWithLabel(-1, map[string]string{"subject": subject})

	err = s.pipe(conn, reader, closed)
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
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket read err", "err", err)
				close(closed)
				break
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

func (s *Subscriptions) pipe(conn *websocket.Conn, reader msgReader, closed chan struct{}) error {
	ticker := s.chain.NewTicker()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		msgs, hasMore, err := reader.Read()
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
		}
		if hasMore {
			continue
		}
		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case <-ticker:
			ticker = s.chain.NewTicker()
		case <-ping.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// Close ends all open subscriptions and waits for them to return.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{subject}").
		Methods(http.MethodGet).
		Name("WS /subscriptions/{subject}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubject))
}
