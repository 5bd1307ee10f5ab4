// Package realtime доставляет уведомления и события обновления открытым
// websocket-соединениям пользователя.
package realtime

import (
	"sync"
	"time"

	"habitTracker/internal/changefeed"
	"habitTracker/internal/logger"
	"habitTracker/internal/store"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const sendBuffer = 16

type EventType string

const (
	EventNotification EventType = "notification"
	EventRefresh      EventType = "refresh"
)

type Event struct {
	Type         EventType             `json:"type"`
	Notification *store.Notification   `json:"notification,omitempty"`
	Collection   changefeed.Collection `json:"collection,omitempty"`
	Timestamp    time.Time             `json:"timestamp"`
}

// Conn - то, что нужно хабу от websocket-соединения
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

type Client struct {
	owner uuid.UUID
	conn  Conn
	send  chan Event
	done  chan struct{}
	once  sync.Once
}

type Hub struct {
	mtx      sync.RWMutex
	clients  map[uuid.UUID]map[*Client]struct{}
	now      func() time.Time
	upgrader websocket.Upgrader
}

// NewHub: allowedOrigins - источники, которым разрешено открывать websocket ("*" - любым).
func NewHub(allowedOrigins ...string) *Hub {
	return &Hub{
		clients:  make(map[uuid.UUID]map[*Client]struct{}),
		now:      time.Now,
		upgrader: newUpgrader(allowedOrigins),
	}
}

// Register добавляет соединение и запускает для него писателя.
func (h *Hub) Register(owner uuid.UUID, conn Conn) *Client {
	c := &Client{
		owner: owner,
		conn:  conn,
		send:  make(chan Event, sendBuffer),
		done:  make(chan struct{}),
	}

	h.mtx.Lock()
	if h.clients[owner] == nil {
		h.clients[owner] = make(map[*Client]struct{})
	}
	h.clients[owner][c] = struct{}{}
	h.mtx.Unlock()

	go h.writeLoop(c)

	logger.Info("Realtime: Соединение открыто", zap.String("user_id", owner.String()))
	return c
}

func (h *Hub) Unregister(c *Client) {
	h.mtx.Lock()
	if conns, ok := h.clients[c.owner]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.clients, c.owner)
		}
	}
	h.mtx.Unlock()

	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
		logger.Info("Realtime: Соединение закрыто", zap.String("user_id", c.owner.String()))
	})
}

func (h *Hub) writeLoop(c *Client) {
	for {
		select {
		case <-c.done:
			return
		case evt := <-c.send:
			if err := c.conn.WriteJSON(evt); err != nil {
				logger.Warn("Realtime: Ошибка отправки события",
					zap.String("user_id", c.owner.String()),
					zap.Error(err))
				h.Unregister(c)
				return
			}
		}
	}
}

func (h *Hub) broadcast(owner uuid.UUID, evt Event) {
	h.mtx.RLock()
	defer h.mtx.RUnlock()

	for c := range h.clients[owner] {
		select {
		case c.send <- evt:
		default:
			logger.Warn("Realtime: Очередь соединения переполнена, событие пропущено",
				zap.String("user_id", owner.String()),
				zap.String("type", string(evt.Type)))
		}
	}
}

func (h *Hub) Notify(owner uuid.UUID, n store.Notification) {
	h.broadcast(owner, Event{Type: EventNotification, Notification: &n, Timestamp: h.now().UTC()})
}

func (h *Hub) Refreshed(owner uuid.UUID, collection changefeed.Collection) {
	h.broadcast(owner, Event{Type: EventRefresh, Collection: collection, Timestamp: h.now().UTC()})
}

func (h *Hub) Connections(owner uuid.UUID) int {
	h.mtx.RLock()
	defer h.mtx.RUnlock()
	return len(h.clients[owner])
}

// Close закрывает все соединения.
func (h *Hub) Close() {
	h.mtx.RLock()
	all := make([]*Client, 0)
	for _, conns := range h.clients {
		for c := range conns {
			all = append(all, c)
		}
	}
	h.mtx.RUnlock()

	for _, c := range all {
		h.Unregister(c)
	}
}

var _ store.Notifier = (*Hub)(nil)
