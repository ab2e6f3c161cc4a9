package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"todo_backend/internal/app/router"
	"todo_backend/internal/config"
	authadapters "todo_backend/internal/feature/auth/adapters"
	authhandler "todo_backend/internal/feature/auth/transport/handler"
	authusecase "todo_backend/internal/feature/auth/usecase"
	todohandler "todo_backend/internal/feature/todos/transport/handler"
	todousecase "todo_backend/internal/feature/todos/usecase"
	"todo_backend/internal/platform/db"
	jwtmw "todo_backend/internal/platform/jwt"
	"todo_backend/internal/platform/mqtt"
	platformredis "todo_backend/internal/platform/redis"
)

// App holds the wired HTTP router and the resources it owns.
type App struct {
	Router   *gin.Engine
	DB       *gorm.DB
	Sessions authusecase.SessionRepository

	closers []func()
}

// Close releases every resource opened by Build, in reverse order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// NewRedis connects to Redis when REDIS_HOST is set. It returns nil when Redis
// is disabled or unreachable; callers then fall back to the database.
func NewRedis(cfg platformredis.Config) *redis.Client {
	if !cfg.Enabled() {
		return nil
	}
	rdb, err := platformredis.NewRedisClient(cfg)
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		return nil
	}
	return rdb
}

// Build opens the database, Redis and MQTT connections described by the
// environment and wires every feature into a router.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{}

	database, err := OpenDatabase(db.LoadConfigFromEnv())
	if err != nil {
		return nil, err
	}
	app.DB = database
	app.closers = append(app.closers, func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	rdb := NewRedis(platformredis.LoadConfig())
	if rdb != nil {
		app.closers = append(app.closers, func() {
			if err := rdb.Close(); err != nil {
				slog.Error("Failed to close Redis client", "error", err)
			}
		})
	}

	events, closeEvents := NewEventPublisher(mqtt.LoadConfig())
	app.closers = append(app.closers, closeEvents)

	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set. Set a strong secret in production.")
	}

	// Repository
	app.Sessions = NewSessionRepository(rdb, database)
	users := authadapters.NewUserRepository(database)
	todos := NewTodoRepository(database, rdb, cfg.TodoCacheTTL)

	// Usecase
	authUC := authusecase.NewAuthUsecase(users, app.Sessions, jwtmw.NewGenerator(cfg.JWTSecret, cfg.JWTExpiration), authusecase.Config{
		RefreshTTL:  cfg.RefreshTTL,
		MaxSessions: cfg.MaxSessions,
	})
	todoUC := todousecase.NewTodoUsecase(todos, events)

	// ルータ生成
	app.Router = router.NewRouter(router.Handlers{
		Auth:     authhandler.NewAuthHandler(authUC),
		Todos:    todohandler.NewTodoHandler(todoUC),
		Subtasks: NewSubtaskHandler(ctx, cfg.AI),
		Counter:  todos,
	}, router.Options{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: router.AllowedOrigins(cfg.FrontendURL, cfg.ALBDNSName),
	})
	return app, nil
}

// RunSessionCleanup removes expired sessions every interval until ctx is done.
func RunSessionCleanup(ctx context.Context, sessions authusecase.SessionRepository, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.DeleteExpired(ctx)
			if err != nil {
				slog.Warn("session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("expired sessions removed", "count", n)
			}
		}
	}
}
