package inmemory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"habitTracker/internal/changefeed"
	"habitTracker/internal/models/blog"
	"habitTracker/internal/models/task"
	"habitTracker/internal/models/user"
	"habitTracker/internal/repository"
	"habitTracker/internal/repository/inmemory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingFeed struct {
	mtx     sync.Mutex
	changes []changefeed.Change
}

func (f *recordingFeed) Publish(c changefeed.Change) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.changes = append(f.changes, c)
}

func newTask(owner uuid.UUID, name string) *task.Task {
	return &task.Task{
		ID:       uuid.New(),
		UserID:   owner,
		Name:     name,
		Status:   task.StatusNotStarted,
		GoalType: task.GoalDaily,
		DueDate:  time.Now().Add(12 * time.Hour),
	}
}

// TestTaskStorage_Create тестирует создание задачи
func TestTaskStorage_Create(t *testing.T) {
	ctx := context.Background()
	feed := &recordingFeed{}
	storage := inmemory.NewTaskStorage(feed)
	owner := uuid.New()

	taskToCreate := newTask(owner, "Morning meditation")
	err := storage.Create(ctx, taskToCreate)
	require.NoError(t, err)
	assert.False(t, taskToCreate.CreatedAt.IsZero())

	retrieved, err := storage.GetByID(ctx, owner, taskToCreate.ID)
	require.NoError(t, err)
	assert.Equal(t, "Morning meditation", retrieved.Name)

	require.Len(t, feed.changes, 1)
	assert.Equal(t, changefeed.Change{
		Collection: changefeed.CollectionTasks,
		OwnerID:    owner,
		Op:         changefeed.OpInsert,
		ID:         taskToCreate.ID,
	}, feed.changes[0])

	err = storage.Create(ctx, taskToCreate)
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

// TestTaskStorage_OwnerScoping тестирует, что чужие задачи недоступны
func TestTaskStorage_OwnerScoping(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage(nil)
	owner := uuid.New()
	stranger := uuid.New()

	mine := newTask(owner, "Mine")
	require.NoError(t, storage.Create(ctx, mine))
	require.NoError(t, storage.Create(ctx, newTask(stranger, "Theirs")))

	_, err := storage.GetByID(ctx, stranger, mine.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	hijack := mine.Clone()
	hijack.Name = "Hijacked"
	err = storage.Update(ctx, stranger, hijack)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = storage.Delete(ctx, stranger, mine.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	list, err := storage.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Mine", list[0].Name)
}

// TestTaskStorage_Update тестирует обновление задачи
func TestTaskStorage_Update(t *testing.T) {
	ctx := context.Background()
	feed := &recordingFeed{}
	storage := inmemory.NewTaskStorage(feed)
	owner := uuid.New()

	original := newTask(owner, "Workout")
	require.NoError(t, storage.Create(ctx, original))
	createdAt := original.CreatedAt

	changed := original.Clone()
	changed.Status = task.StatusComplete
	changed.CreatedAt = time.Time{}
	require.NoError(t, storage.Update(ctx, owner, changed))
	assert.Equal(t, createdAt, changed.CreatedAt)

	retrieved, err := storage.GetByID(ctx, owner, original.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusComplete, retrieved.Status)
	assert.Equal(t, createdAt, retrieved.CreatedAt)

	require.Len(t, feed.changes, 2)
	assert.Equal(t, changefeed.OpUpdate, feed.changes[1].Op)
}

// TestTaskStorage_ReturnsCopies тестирует изоляцию выдаваемых значений
func TestTaskStorage_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage(nil)
	owner := uuid.New()

	original := newTask(owner, "Read")
	require.NoError(t, storage.Create(ctx, original))

	original.Name = "changed outside"
	got, err := storage.GetByID(ctx, owner, original.ID)
	require.NoError(t, err)
	assert.Equal(t, "Read", got.Name)

	got.Name = "changed again"
	again, err := storage.GetByID(ctx, owner, original.ID)
	require.NoError(t, err)
	assert.Equal(t, "Read", again.Name)
}

// TestTaskStorage_Delete тестирует удаление
func TestTaskStorage_Delete(t *testing.T) {
	ctx := context.Background()
	feed := &recordingFeed{}
	storage := inmemory.NewTaskStorage(feed)
	owner := uuid.New()

	first := newTask(owner, "first")
	second := newTask(owner, "second")
	require.NoError(t, storage.Create(ctx, first))
	require.NoError(t, storage.Create(ctx, second))

	require.NoError(t, storage.Delete(ctx, owner, first.ID))

	_, err := storage.GetByID(ctx, owner, first.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	list, err := storage.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)

	assert.Equal(t, changefeed.OpDelete, feed.changes[len(feed.changes)-1].Op)

	err = storage.Delete(ctx, owner, first.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestTaskStorage_ListKeepsOrder тестирует порядок создания
func TestTaskStorage_ListKeepsOrder(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage(nil)
	owner := uuid.New()

	for i := 0; i < 5; i++ {
		require.NoError(t, storage.Create(ctx, newTask(owner, fmt.Sprintf("task-%d", i))))
	}

	list, err := storage.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 5)
	for i, got := range list {
		assert.Equal(t, fmt.Sprintf("task-%d", i), got.Name)
	}

	empty, err := storage.ListByOwner(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

// TestTaskStorage_ConcurrentAccess тестирует конкурентный доступ
func TestTaskStorage_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage(nil)
	owner := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, storage.Create(ctx, newTask(owner, fmt.Sprintf("task-%d", i))))
		}(i)
		go func() {
			defer wg.Done()
			_, err := storage.ListByOwner(ctx, owner)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	list, err := storage.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 20)
}

// TestBlogStorage_CRUD тестирует жизненный цикл записи дневника
func TestBlogStorage_CRUD(t *testing.T) {
	ctx := context.Background()
	feed := &recordingFeed{}
	storage := inmemory.NewBlogStorage(feed)
	owner := uuid.New()

	entry := &blog.Blog{ID: uuid.New(), UserID: owner, Title: "First day", Content: "Felt good about the plan."}
	require.NoError(t, storage.Create(ctx, entry))
	assert.False(t, entry.CreatedAt.IsZero())
	assert.Equal(t, entry.CreatedAt, entry.UpdatedAt)

	later := entry.CreatedAt.Add(time.Hour)
	patch := &blog.Blog{ID: entry.ID, Title: "First day, edited", Content: "Felt even better later.", UpdatedAt: later}
	require.NoError(t, storage.Update(ctx, owner, patch))
	assert.Equal(t, owner, patch.UserID)
	assert.Equal(t, entry.CreatedAt, patch.CreatedAt)

	got, err := storage.GetByID(ctx, owner, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "First day, edited", got.Title)
	assert.Equal(t, later, got.UpdatedAt)

	_, err = storage.GetByID(ctx, uuid.New(), entry.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, storage.Delete(ctx, uuid.New(), entry.ID), repository.ErrNotFound)
	require.NoError(t, storage.Delete(ctx, owner, entry.ID))

	_, err = storage.GetByID(ctx, owner, entry.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.Len(t, feed.changes, 3)
	assert.Equal(t, []changefeed.Op{changefeed.OpInsert, changefeed.OpUpdate, changefeed.OpDelete},
		[]changefeed.Op{feed.changes[0].Op, feed.changes[1].Op, feed.changes[2].Op})
	assert.Equal(t, changefeed.CollectionBlogs, feed.changes[0].Collection)
}

// TestBlogStorage_ListNewestFirst тестирует сортировку
func TestBlogStorage_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewBlogStorage(nil)
	owner := uuid.New()

	titles := []string{"one", "two", "three"}
	for _, title := range titles {
		require.NoError(t, storage.Create(ctx, &blog.Blog{ID: uuid.New(), UserID: owner, Title: title, Content: "0123456789"}))
	}
	require.NoError(t, storage.Create(ctx, &blog.Blog{ID: uuid.New(), UserID: uuid.New(), Title: "foreign", Content: "0123456789"}))

	list, err := storage.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "three", list[0].Title)
	assert.Equal(t, "two", list[1].Title)
	assert.Equal(t, "one", list[2].Title)
}

// TestUserStorage тестирует хранение пользователей
func TestUserStorage(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewUserStorage()

	u := &user.User{ID: uuid.New(), Email: "  Alex@Example.com ", Name: "alex", PasswordHash: "hash", Settings: user.DefaultSettings()}
	require.NoError(t, storage.Create(ctx, u))
	assert.Equal(t, "alex@example.com", u.Email)
	assert.False(t, u.CreatedAt.IsZero())

	byEmail, err := storage.GetByEmail(ctx, "ALEX@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := storage.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash", byID.PasswordHash)

	dup := &user.User{ID: uuid.New(), Email: "alex@example.com"}
	assert.ErrorIs(t, storage.Create(ctx, dup), repository.ErrDuplicate)

	_, err = storage.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = storage.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
