package di

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	todoadapters "todo_backend/internal/feature/todos/adapters"
	"todo_backend/internal/feature/todos/usecase"
	"todo_backend/internal/platform/cache"
	"todo_backend/internal/platform/mqtt"
)

// NewTodoRepository creates the GORM todo repository wrapped in the Redis
// list cache. A nil rdb leaves the cache disabled.
func NewTodoRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration) usecase.TodoRepository {
	return cache.NewCachingTodoRepository(rdb, ttl, todoadapters.NewTodoRepository(db), cache.DefaultNamespace)
}

// NewEventPublisher connects to the MQTT broker when one is configured.
// It returns nil publisher and a no-op close when MQTT is disabled or unreachable,
// so todo mutations never depend on the broker.
func NewEventPublisher(cfg mqtt.Config) (usecase.EventPublisher, func()) {
	if cfg.Broker == "" {
		return nil, func() {}
	}
	pub, err := mqtt.Connect(cfg)
	if err != nil {
		slog.Warn("MQTT unavailable. Running without todo events.", "broker", cfg.Broker, "error", err)
		return nil, func() {}
	}
	return pub, pub.Close
}
