package changefeed_test

import (
	"sync"
	"testing"

	"habitTracker/internal/changefeed"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHub_PublishReachesOwnerOnly(t *testing.T) {
	hub := changefeed.NewHub()
	owner := uuid.New()
	stranger := uuid.New()

	var got []changefeed.Change
	hub.Subscribe(changefeed.CollectionTasks, owner, func(c changefeed.Change) {
		got = append(got, c)
	})
	strangerCalls := 0
	hub.Subscribe(changefeed.CollectionTasks, stranger, func(changefeed.Change) {
		strangerCalls++
	})
	blogCalls := 0
	hub.Subscribe(changefeed.CollectionBlogs, owner, func(changefeed.Change) {
		blogCalls++
	})

	change := changefeed.Change{Collection: changefeed.CollectionTasks, OwnerID: owner, Op: changefeed.OpInsert, ID: uuid.New()}
	hub.Publish(change)

	assert.Equal(t, []changefeed.Change{change}, got)
	assert.Zero(t, strangerCalls)
	assert.Zero(t, blogCalls)
}

func TestSubscription_Close(t *testing.T) {
	hub := changefeed.NewHub()
	owner := uuid.New()

	calls := 0
	sub := hub.Subscribe(changefeed.CollectionBlogs, owner, func(changefeed.Change) { calls++ })
	assert.Equal(t, 1, hub.Subscribers(changefeed.CollectionBlogs, owner))

	sub.Close()
	sub.Close()

	hub.Publish(changefeed.Change{Collection: changefeed.CollectionBlogs, OwnerID: owner, Op: changefeed.OpDelete})
	assert.Zero(t, calls)
	assert.Zero(t, hub.Subscribers(changefeed.CollectionBlogs, owner))
}

// TestHub_SubscriberMayUnsubscribeDuringPublish проверяет отсутствие дедлока
func TestHub_SubscriberMayUnsubscribeDuringPublish(t *testing.T) {
	hub := changefeed.NewHub()
	owner := uuid.New()

	var sub *changefeed.Subscription
	sub = hub.Subscribe(changefeed.CollectionTasks, owner, func(changefeed.Change) {
		sub.Close()
	})

	hub.Publish(changefeed.Change{Collection: changefeed.CollectionTasks, OwnerID: owner})
	assert.Zero(t, hub.Subscribers(changefeed.CollectionTasks, owner))
}

func TestHub_ConcurrentPublish(t *testing.T) {
	hub := changefeed.NewHub()
	owner := uuid.New()

	var mtx sync.Mutex
	calls := 0
	hub.Subscribe(changefeed.CollectionTasks, owner, func(changefeed.Change) {
		mtx.Lock()
		calls++
		mtx.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Publish(changefeed.Change{Collection: changefeed.CollectionTasks, OwnerID: owner})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, calls)
}
