package store

import (
	"sync"

	"habitTracker/internal/changefeed"
	"habitTracker/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Subscriber - источник уведомлений об изменениях коллекций
type Subscriber interface {
	Subscribe(collection changefeed.Collection, owner uuid.UUID, onChange func(changefeed.Change)) *changefeed.Subscription
}

type userStores struct {
	tasks *TaskStore
	blogs *BlogStore
}

// Registry владеет хранилищами пользователей: создаёт их лениво, подписывает на
// изменения и закрывает подписки при выходе пользователя.
type Registry struct {
	tasks    TaskService
	blogs    BlogService
	feed     Subscriber
	notifier Notifier

	mtx   sync.Mutex
	users map[uuid.UUID]*userStores
}

// NewRegistry: feed и notifier могут быть nil.
func NewRegistry(tasks TaskService, blogs BlogService, feed Subscriber, notifier Notifier) *Registry {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Registry{
		tasks:    tasks,
		blogs:    blogs,
		feed:     feed,
		notifier: notifier,
		users:    make(map[uuid.UUID]*userStores),
	}
}

// Tasks возвращает хранилище задач владельца. Для анонимного пользователя -
// одноразовое пустое хранилище.
func (r *Registry) Tasks(owner uuid.UUID) *TaskStore {
	if owner == uuid.Nil {
		return newTaskStore(uuid.Nil, r.tasks, r.notifier)
	}
	return r.get(owner).tasks
}

func (r *Registry) Blogs(owner uuid.UUID) *BlogStore {
	if owner == uuid.Nil {
		return newBlogStore(uuid.Nil, r.blogs, r.notifier)
	}
	return r.get(owner).blogs
}

func (r *Registry) get(owner uuid.UUID) *userStores {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if stores, ok := r.users[owner]; ok {
		return stores
	}

	stores := &userStores{
		tasks: newTaskStore(owner, r.tasks, r.notifier),
		blogs: newBlogStore(owner, r.blogs, r.notifier),
	}
	if r.feed != nil {
		stores.tasks.sub = r.feed.Subscribe(changefeed.CollectionTasks, owner, stores.tasks.onChange)
		stores.blogs.sub = r.feed.Subscribe(changefeed.CollectionBlogs, owner, stores.blogs.onChange)
	}
	r.users[owner] = stores

	logger.Debug("Store: Созданы хранилища пользователя", zap.String("user_id", owner.String()))
	return stores
}

// Drop закрывает подписки и забывает кэш владельца.
func (r *Registry) Drop(owner uuid.UUID) {
	r.mtx.Lock()
	stores, ok := r.users[owner]
	delete(r.users, owner)
	r.mtx.Unlock()

	if !ok {
		return
	}
	stores.close()
	logger.Debug("Store: Хранилища пользователя удалены", zap.String("user_id", owner.String()))
}

func (r *Registry) Close() {
	r.mtx.Lock()
	users := r.users
	r.users = make(map[uuid.UUID]*userStores)
	r.mtx.Unlock()

	for _, stores := range users {
		stores.close()
	}
}

func (r *Registry) Len() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return len(r.users)
}

func (u *userStores) close() {
	if u.tasks.sub != nil {
		u.tasks.sub.Close()
	}
	if u.blogs.sub != nil {
		u.blogs.sub.Close()
	}
}
