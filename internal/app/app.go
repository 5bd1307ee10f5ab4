package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"habitTracker/internal/auth"
	"habitTracker/internal/changefeed"
	"habitTracker/internal/config"
	"habitTracker/internal/handlers"
	"habitTracker/internal/logger"
	"habitTracker/internal/middleware"
	"habitTracker/internal/realtime"
	"habitTracker/internal/repository/inmemory"
	"habitTracker/internal/repository/postgres"
	"habitTracker/internal/schedule"
	"habitTracker/internal/service"
	"habitTracker/internal/store"
	"habitTracker/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type repositories struct {
	tasks service.TaskRepository
	blogs service.BlogRepository
	users auth.UserRepository
}

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	feed      *changefeed.Hub
	hub       *realtime.Hub
	registry  *store.Registry
	listener  *worker.ChangeListener // nil для inmemory
	shutdowns []func()               // функции для graceful shutdown, выполняются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	loc, err := a.config.Location()
	if err != nil {
		return nil, err
	}

	a.feed = changefeed.NewHub()

	repos, err := a.initRepositories(ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := a.initSessions(ctx)
	if err != nil {
		return nil, err
	}

	taskService := service.NewTaskService(repos.tasks, schedule.NewResolver(loc))
	blogService := service.NewBlogService(repos.blogs)
	authService := auth.NewService(repos.users, sessions, auth.NewTokenIssuer(a.config.Auth.JWTSecret, a.config.Auth.TokenTTL))

	a.hub = realtime.NewHub(a.config.Server.AllowedOrigins...)
	a.registry = store.NewRegistry(taskService, blogService, a.feed, a.hub)

	handler := handlers.NewHandler(a.registry, authService, taskService, a.hub, a.config.Repository.Type)
	a.router = a.newRouter(handler, authService)

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      otelhttp.NewHandler(a.router, "habit-tracker"),
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	logger.Info("Приложение инициализировано",
		zap.String("repository", a.config.Repository.Type),
		zap.String("timezone", loc.String()),
		zap.Bool("redis_sessions", a.config.Auth.RedisURL != ""))

	return a, nil
}

func (a *App) initRepositories(ctx context.Context) (*repositories, error) {
	switch a.config.Repository.Type {
	case config.RepositoryPostgres:
		if a.config.Database.Migrate {
			if err := postgres.Migrate(a.config.Database.URL); err != nil {
				return nil, fmt.Errorf("миграции: %w", err)
			}
		}

		storage, err := postgres.New(ctx, a.config.Database.URL, postgres.PoolConfig{
			MaxConns:    a.config.Database.MaxConnections,
			MinConns:    a.config.Database.MinConnections,
			IdleTimeout: a.config.Database.IdleTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("подключение к postgres: %w", err)
		}
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("Закрытие пула соединений postgres...")
			storage.Close()
		})

		// в postgres изменения приходят через LISTEN, поэтому их видят и другие процессы
		a.listener = worker.NewChangeListener(storage, a.feed, postgres.ChangesChannel)

		return &repositories{
			tasks: storage.Tasks(),
			blogs: storage.Blogs(),
			users: storage.Users(),
		}, nil
	default:
		return &repositories{
			tasks: inmemory.NewTaskStorage(a.feed),
			blogs: inmemory.NewBlogStorage(a.feed),
			users: inmemory.NewUserStorage(),
		}, nil
	}
}

func (a *App) initSessions(ctx context.Context) (auth.SessionStore, error) {
	if a.config.Auth.RedisURL == "" {
		return auth.NewMemorySessions(), nil
	}

	client, err := auth.NewRedisClient(ctx, a.config.Auth.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("подключение к redis: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Закрытие соединения с redis...")
		if err := client.Close(); err != nil {
			logger.Error("Ошибка закрытия redis", err)
		}
	})
	return auth.NewRedisSessions(client), nil
}

func (a *App) newRouter(handler *handlers.Handler, authenticator middleware.Authenticator) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimit(a.config.Server.RateLimit))

	handler.Routes(r, middleware.Authenticate(authenticator), middleware.Timeout(a.config.Server.RequestTimeout))
	return r
}

// Router нужен тестам, чтобы ходить в приложение без сети.
func (a *App) Router() http.Handler {
	return a.router
}

// Run блокируется до отмены ctx или падения сервера, затем выполняет graceful shutdown.
func (a *App) Run(ctx context.Context) error {
	defer a.shutdown()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http сервер: %w", err)
		}
		return nil
	})

	if a.listener != nil {
		g.Go(func() error {
			return a.listener.Start(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Остановка сервера...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()

		a.hub.Close()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка http сервера: %w", err)
		}
		a.registry.Close()
		return nil
	})

	return g.Wait()
}

func (a *App) shutdown() {
	start := time.Now()
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	logger.Info("Приложение остановлено", zap.Duration("ms", time.Since(start)))
}
