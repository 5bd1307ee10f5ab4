package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"habitTracker/internal/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sessionKeyPrefix = "session:"

var ErrSessionNotFound = errors.New("сессия не найдена")

// SessionStore хранит выданные сессии, чтобы выход из системы отзывал токен.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, userID uuid.UUID, ttl time.Duration) error
	Lookup(ctx context.Context, sessionID string) (uuid.UUID, error)
	Revoke(ctx context.Context, sessionID string) error
}

type memorySession struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// не чаще этого Save вычищает просроченные сессии
const memorySweepInterval = time.Minute

type MemorySessions struct {
	mtx       sync.Mutex
	sessions  map[string]memorySession
	now       func() time.Time
	lastSweep time.Time
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

func (s *MemorySessions) Save(ctx context.Context, sessionID string, userID uuid.UUID, ttl time.Duration) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= memorySweepInterval {
		s.sweep(now)
	}
	s.sessions[sessionID] = memorySession{userID: userID, expiresAt: now.Add(ttl)}
	return nil
}

func (s *MemorySessions) sweep(now time.Time) {
	for id, session := range s.sessions {
		if !now.Before(session.expiresAt) {
			delete(s.sessions, id)
		}
	}
	s.lastSweep = now
}

func (s *MemorySessions) Lookup(ctx context.Context, sessionID string) (uuid.UUID, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return uuid.Nil, ErrSessionNotFound
	}
	if !s.now().Before(session.expiresAt) {
		delete(s.sessions, sessionID)
		return uuid.Nil, ErrSessionNotFound
	}
	return session.userID, nil
}

func (s *MemorySessions) Revoke(ctx context.Context, sessionID string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

type RedisSessions struct {
	client *redis.Client
}

func NewRedisSessions(client *redis.Client) *RedisSessions {
	return &RedisSessions{client: client}
}

// NewRedisClient подключается к redis и проверяет соединение.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("разбор адреса redis: %w", err)
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.MaxRetries = 3
	opt.DialTimeout = 5 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("проверка соединения redis: %w", err)
	}

	logger.Info("Auth: Подключение к redis установлено", zap.String("addr", opt.Addr))
	return client, nil
}

func (s *RedisSessions) Save(ctx context.Context, sessionID string, userID uuid.UUID, ttl time.Duration) error {
	if err := s.client.Set(ctx, sessionKeyPrefix+sessionID, userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("сохранение сессии: %w", err)
	}
	return nil
}

func (s *RedisSessions) Lookup(ctx context.Context, sessionID string) (uuid.UUID, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrSessionNotFound
		}
		return uuid.Nil, fmt.Errorf("получение сессии: %w", err)
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("сессия %s: %w", sessionID, err)
	}
	return userID, nil
}

func (s *RedisSessions) Revoke(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("удаление сессии: %w", err)
	}
	return nil
}
