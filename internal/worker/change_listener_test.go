package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"habitTracker/internal/changefeed"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mtx     sync.Mutex
	changes []changefeed.Change
}

func (p *recordingPublisher) Publish(c changefeed.Change) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.changes = append(p.changes, c)
}

func (p *recordingPublisher) count() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return len(p.changes)
}

// flakySource падает первые failures раз, затем отдаёт payloads и ждёт отмены.
type flakySource struct {
	mtx      sync.Mutex
	calls    int
	failures int
	payloads []string
	channels []string
}

func (s *flakySource) Listen(ctx context.Context, channel string, onNotify func(string)) error {
	s.mtx.Lock()
	s.calls++
	call := s.calls
	s.channels = append(s.channels, channel)
	s.mtx.Unlock()

	if call <= s.failures {
		return errors.New("connection reset")
	}
	for _, p := range s.payloads {
		onNotify(p)
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *flakySource) callCount() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.calls
}

func newTestListener(source Source, publisher changefeed.Publisher) *ChangeListener {
	w := NewChangeListener(source, publisher, "row_changes")
	w.initialInterval = time.Millisecond
	w.maxInterval = 5 * time.Millisecond
	return w
}

func TestChangeListener_PublishesChanges(t *testing.T) {
	owner := uuid.New()
	id := uuid.New()
	source := &flakySource{
		payloads: []string{
			`{"collection":"tasks","owner_id":"` + owner.String() + `","op":"INSERT","id":"` + id.String() + `"}`,
			`{"collection":"blogs","owner_id":"` + owner.String() + `","op":"DELETE","id":"` + id.String() + `"}`,
		},
	}
	publisher := &recordingPublisher{}
	w := newTestListener(source, publisher)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.Eventually(t, func() bool { return publisher.count() == 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("слушатель не остановился")
	}

	assert.Equal(t, changefeed.Change{
		Collection: changefeed.CollectionTasks,
		OwnerID:    owner,
		Op:         changefeed.OpInsert,
		ID:         id,
	}, publisher.changes[0])
	assert.Equal(t, changefeed.CollectionBlogs, publisher.changes[1].Collection)
	assert.Equal(t, []string{"row_changes"}, source.channels)
}

func TestChangeListener_Reconnects(t *testing.T) {
	owner := uuid.New()
	source := &flakySource{
		failures: 3,
		payloads: []string{`{"collection":"tasks","owner_id":"` + owner.String() + `","op":"UPDATE","id":"` + uuid.NewString() + `"}`},
	}
	publisher := &recordingPublisher{}
	w := newTestListener(source, publisher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Start(ctx) }()

	require.Eventually(t, func() bool { return publisher.count() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 4, source.callCount())
}

func TestChangeListener_SkipsMalformed(t *testing.T) {
	source := &flakySource{
		payloads: []string{
			`not json`,
			`{"collection":"users","owner_id":"` + uuid.NewString() + `","op":"INSERT"}`,
			`{"collection":"tasks","op":"INSERT"}`,
		},
	}
	publisher := &recordingPublisher{}
	w := newTestListener(source, publisher)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.Eventually(t, func() bool { return w.skipped.Load() == 3 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, 0, publisher.count())
	assert.Equal(t, int64(0), w.received.Load())
}

func TestDecodeChange(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{name: "задача", payload: `{"collection":"tasks","owner_id":"` + uuid.NewString() + `","op":"INSERT","id":"` + uuid.NewString() + `"}`},
		{name: "битый JSON", payload: `{`, wantErr: true},
		{name: "неизвестная коллекция", payload: `{"collection":"users","owner_id":"` + uuid.NewString() + `"}`, wantErr: true},
		{name: "без владельца", payload: `{"collection":"blogs"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeChange(tt.payload)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
