package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"habitTracker/internal/changefeed"
	"habitTracker/internal/logger"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Source - хранилище, умеющее слушать канал уведомлений (postgres LISTEN).
type Source interface {
	Listen(ctx context.Context, channel string, onNotify func(payload string)) error
}

// ChangeListener переносит уведомления базы об изменении строк в changefeed.
// Оборванное соединение переподключается с экспоненциальной задержкой.
type ChangeListener struct {
	source    Source
	publisher changefeed.Publisher
	channel   string

	initialInterval time.Duration
	maxInterval     time.Duration

	received atomic.Int64
	skipped  atomic.Int64
}

func NewChangeListener(source Source, publisher changefeed.Publisher, channel string) *ChangeListener {
	return &ChangeListener{
		source:          source,
		publisher:       publisher,
		channel:         channel,
		initialInterval: 500 * time.Millisecond,
		maxInterval:     30 * time.Second,
	}
}

// Start блокируется до отмены ctx.
func (w *ChangeListener) Start(ctx context.Context) error {
	logger.Info("Worker: Слушатель изменений запущен", zap.String("channel", w.channel))

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = w.initialInterval
	policy.MaxInterval = w.maxInterval
	policy.MaxElapsedTime = 0

	operation := func() error {
		err := w.source.Listen(ctx, w.channel, func(payload string) {
			policy.Reset()
			w.handle(payload)
		})
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		if err == nil {
			err = errors.New("прослушивание завершилось без ошибки")
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		logger.Warn("Worker: Соединение слушателя потеряно, переподключение",
			zap.Error(err),
			zap.Duration("retry_in", wait))
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(policy, ctx), notify)

	logger.Info("Worker: Слушатель изменений останавливается",
		zap.Int64("received", w.received.Load()),
		zap.Int64("skipped", w.skipped.Load()))

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("слушатель изменений: %w", err)
	}
	return nil
}

func (w *ChangeListener) handle(payload string) {
	change, err := decodeChange(payload)
	if err != nil {
		w.skipped.Add(1)
		logger.Warn("Worker: Пропущено уведомление", zap.Error(err), zap.String("payload", payload))
		return
	}

	w.received.Add(1)
	logger.Debug("Worker: Изменение получено",
		zap.String("collection", string(change.Collection)),
		zap.String("op", string(change.Op)),
		zap.String("owner_id", change.OwnerID.String()))

	w.publisher.Publish(change)
}

func decodeChange(payload string) (changefeed.Change, error) {
	var change changefeed.Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		return changefeed.Change{}, fmt.Errorf("разбор уведомления: %w", err)
	}

	switch change.Collection {
	case changefeed.CollectionTasks, changefeed.CollectionBlogs:
	default:
		return changefeed.Change{}, fmt.Errorf("неизвестная коллекция %q", change.Collection)
	}
	if change.OwnerID == uuid.Nil {
		return changefeed.Change{}, errors.New("уведомление без владельца")
	}
	return change, nil
}
