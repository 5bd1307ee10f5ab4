// Package changefeed раздаёт уведомления об изменениях коллекций подписчикам-владельцам.
package changefeed

import (
	"sync"

	"habitTracker/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Collection string

const (
	CollectionTasks Collection = "tasks"
	CollectionBlogs Collection = "blogs"
)

type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
)

type Change struct {
	Collection Collection `json:"collection"`
	OwnerID    uuid.UUID  `json:"owner_id"`
	Op         Op         `json:"op"`
	ID         uuid.UUID  `json:"id"`
}

// Publisher - то, куда хранилище сообщает об изменениях.
type Publisher interface {
	Publish(Change)
}

type subKey struct {
	collection Collection
	owner      uuid.UUID
}

type Hub struct {
	mtx    sync.RWMutex
	nextID uint64
	subs   map[subKey]map[uint64]func(Change)
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[subKey]map[uint64]func(Change)),
	}
}

type Subscription struct {
	hub  *Hub
	key  subKey
	id   uint64
	once sync.Once
}

// Subscribe регистрирует onChange для изменений коллекции конкретного владельца.
func (h *Hub) Subscribe(collection Collection, owner uuid.UUID, onChange func(Change)) *Subscription {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	key := subKey{collection: collection, owner: owner}
	h.nextID++
	id := h.nextID

	if h.subs[key] == nil {
		h.subs[key] = make(map[uint64]func(Change))
	}
	h.subs[key][id] = onChange

	return &Subscription{hub: h, key: key, id: id}
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mtx.Lock()
		defer s.hub.mtx.Unlock()

		delete(s.hub.subs[s.key], s.id)
		if len(s.hub.subs[s.key]) == 0 {
			delete(s.hub.subs, s.key)
		}
	})
}

// Publish синхронно вызывает всех подписчиков вне блокировки хаба.
func (h *Hub) Publish(change Change) {
	h.mtx.RLock()
	handlers := make([]func(Change), 0, len(h.subs[subKey{change.Collection, change.OwnerID}]))
	for _, fn := range h.subs[subKey{change.Collection, change.OwnerID}] {
		handlers = append(handlers, fn)
	}
	h.mtx.RUnlock()

	logger.Debug("Changefeed: Изменение коллекции",
		zap.String("collection", string(change.Collection)),
		zap.String("op", string(change.Op)),
		zap.String("owner_id", change.OwnerID.String()),
		zap.Int("subscribers", len(handlers)))

	for _, fn := range handlers {
		fn(change)
	}
}

func (h *Hub) Subscribers(collection Collection, owner uuid.UUID) int {
	h.mtx.RLock()
	defer h.mtx.RUnlock()
	return len(h.subs[subKey{collection, owner}])
}
