// internal/handlers/events_ws.go
package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/jason-s-yu/roshambo/internal/game"
	"github.com/jason-s-yu/roshambo/internal/middleware"
	"github.com/sirupsen/logrus"
)

const (
	eventsSubprotocol = "events"
	subscriberBuffer  = 64
)

// Subscriber receives encoded events matching its filters. An empty filter matches everything.
type Subscriber struct {
	out    chan []byte
	gameID string
	roomID string
}

// Events yields encoded events. It is closed on Unsubscribe or when the hub drops a slow subscriber.
func (s *Subscriber) Events() <-chan []byte {
	return s.out
}

func (s *Subscriber) wants(ev game.GameEvent) bool {
	if s.gameID != "" && s.gameID != ev.GameID {
		return false
	}
	if s.roomID != "" && s.roomID != ev.RoomID {
		return false
	}
	return true
}

// EventHub fans committed game events out to WebSocket subscribers.
// A subscriber whose buffer is full is dropped rather than blocking publishers.
type EventHub struct {
	mu     sync.Mutex
	subs   map[*Subscriber]struct{}
	logger logrus.FieldLogger
}

func NewEventHub(logger logrus.FieldLogger) *EventHub {
	return &EventHub{
		subs:   make(map[*Subscriber]struct{}),
		logger: logger,
	}
}

// Subscribe registers a feed narrowed to gameID and roomID, either of which may be empty.
func (h *EventHub) Subscribe(gameID, roomID string) *Subscriber {
	s := &Subscriber{
		out:    make(chan []byte, subscriberBuffer),
		gameID: gameID,
		roomID: roomID,
	}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Unsubscribe removes s and closes its channel. Repeated calls are no-ops.
func (h *EventHub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.out)
	}
}

// Count reports the number of live subscribers.
func (h *EventHub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *EventHub) Publish(ev game.GameEvent) {
	data := game.EventBytes(ev)

	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		if !s.wants(ev) {
			continue
		}
		select {
		case s.out <- data:
		default:
			h.logger.WithField("type", ev.Type).Warn("event subscriber too slow, dropping it")
			delete(h.subs, s)
			close(s.out)
		}
	}
}

// EventsWSHandler streams game events. Optional ?game_id= and ?room_id= narrow the feed.
func EventsWSHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := requireCaller(w, r)
		if !ok {
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{eventsSubprotocol},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			gs.Logger.WithError(err).Warn("websocket accept")
			return
		}
		defer c.Close(websocket.StatusInternalError, "internal error")

		if c.Subprotocol() != eventsSubprotocol {
			c.Close(BadSubprotocolError, "client must use the 'events' subprotocol")
			return
		}

		logger := gs.Logger.WithFields(logrus.Fields{
			"account":    caller,
			"request_id": middleware.RequestID(r.Context()),
		})
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		q := r.URL.Query()
		sub := gs.Events.Subscribe(q.Get("game_id"), q.Get("room_id"))
		defer gs.Events.Unsubscribe(sub)

		// clients never send; CloseRead handles control frames and cancels ctx on close
		ctx := c.CloseRead(r.Context())
		err = writePump(ctx, c, sub)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, err)
	}
}

func writePump(ctx context.Context, c *websocket.Conn, sub *Subscriber) error {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case msg, ok := <-sub.Events():
			if !ok {
				c.Close(SlowConsumerError, "event stream fell behind")
				return nil
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := c.Write(writeCtx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				return err
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				return err
			}
		}
	}
}
