// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vechain/tierstake/api/events"
	"github.com/vechain/tierstake/api/utils"
	"github.com/vechain/tierstake/eventdb"
	"github.com/vechain/tierstake/log"
	"github.com/vechain/tierstake/metrics"
	"github.com/vechain/tierstake/pool"
	"github.com/vechain/tierstake/types"
)

var (
	logger = log.WithContext("pkg", "subscriptions")

	metricActiveCount = metrics.LazyLoadGaugeVec("api_active_websocket_count", []string{"subject"})
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 7 / 10
	backlogSize  = 64
	maxReadBytes = 512
)

type Subscriptions struct {
	engine   *pool.Engine
	upgrader *websocket.Upgrader
}

// New creates the subscription handlers. Origins follow the same rules as the
// CORS settings of the api: "*" allows any origin.
func New(engine *pool.Engine, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		engine: engine,
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
	}
}

// eventFilter narrows a stream to one account and a set of kinds.
type eventFilter struct {
	account *types.Address
	kinds   map[string]bool
}

func parseEventFilter(req *http.Request) (*eventFilter, error) {
	query := req.URL.Query()
	f := &eventFilter{}
	if s := query.Get("account"); s != "" {
		addr, err := types.ParseAddress(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "account"))
		}
		f.account = addr
	}
	if s := query.Get("kinds"); s != "" {
		f.kinds = make(map[string]bool)
		for _, kind := range strings.Split(s, ",") {
			if kind = strings.TrimSpace(kind); kind != "" {
				f.kinds[kind] = true
			}
		}
	}
	return f, nil
}

func (f *eventFilter) match(ev *eventdb.Event) bool {
	if f.account != nil && *f.account != ev.Account {
		return false
	}
	if len(f.kinds) > 0 && !f.kinds[ev.Kind] {
		return false
	}
	return true
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	filter, err := parseEventFilter(req)
	if err != nil {
		return err
	}

	// subscribed before the handshake completes, so a client sees every
	// operation committed after its dial returns
	ch := make(chan []*eventdb.Event, backlogSize)
	sub := s.engine.SubscribeEvents(ch)
	defer sub.Unsubscribe()

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has already responded
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	defer conn.Close()

	metricActiveCount().AddWithLabel(1, map[string]string{"subject": "events"})
	defer metricActiveCount().AddWithLabel(-1, map[string]string{"subject": "events"})

	// clients send nothing but control frames, reading is only to see them go
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(maxReadBytes)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case evs := <-ch:
			for _, ev := range evs {
				if !filter.match(ev) {
					continue
				}
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(events.ConvertEvent(ev)); err != nil {
					logger.Debug("write event failed", "err", err)
					return nil
				}
			}
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return nil
			}
		case <-sub.Err():
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "pool shutting down")
			conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return nil
		case <-closed:
			return nil
		}
	}
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS /subscriptions/events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
