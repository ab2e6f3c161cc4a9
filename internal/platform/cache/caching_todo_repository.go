// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"todo_backend/internal/feature/todos/domain/entity"
	"todo_backend/internal/feature/todos/usecase"
)

const (
	// DefaultTTL is used when the configured TTL is zero or negative.
	DefaultTTL = 5 * time.Minute
	// DefaultNamespace prefixes every cache key.
	DefaultNamespace = "todos"
)

// CachingTodoRepository decorates a TodoRepository with a Redis cache of
// each user's todo list. Every query endpoint starts from ListByUser, so
// caching that one call covers list, search, statistics and export.
//
// Lists are stored under "<ns>:user:<id>:v<gen>", where gen is a per-user
// counter at "<ns>:user:<id>:gen" that every write increments. A read that
// loaded the database before a concurrent write can only fill the previous
// generation's key, which no later read looks at.
type CachingTodoRepository struct {
	inner     usecase.TodoRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.TodoRepository = (*CachingTodoRepository)(nil)

// NewCachingTodoRepository decorates a TodoRepository with Redis caching.
// A nil rdb disables caching and every call goes straight to inner.
func NewCachingTodoRepository(rdb *redis.Client, ttl time.Duration, inner usecase.TodoRepository, namespace string) *CachingTodoRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &CachingTodoRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// ListByUser returns the user's todos, checking the cache first.
func (c *CachingTodoRepository) ListByUser(ctx context.Context, userID uint) ([]entity.Todo, error) {
	if c.rdb == nil {
		return c.inner.ListByUser(ctx, userID)
	}

	gen, err := c.rdb.Get(ctx, c.genKey(userID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return c.inner.ListByUser(ctx, userID)
	}
	key := c.listKey(userID, gen)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Todo
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

// Create stores the todo and invalidates the owner's list.
func (c *CachingTodoRepository) Create(ctx context.Context, t *entity.Todo) error {
	if err := c.inner.Create(ctx, t); err != nil {
		return err
	}
	c.invalidate(ctx, t.UserID)
	return nil
}

// FindByID is not cached.
func (c *CachingTodoRepository) FindByID(ctx context.Context, id uint) (*entity.Todo, error) {
	return c.inner.FindByID(ctx, id)
}

// Update saves the todo and invalidates the owner's list.
func (c *CachingTodoRepository) Update(ctx context.Context, t *entity.Todo) error {
	if err := c.inner.Update(ctx, t); err != nil {
		return err
	}
	c.invalidate(ctx, t.UserID)
	return nil
}

// Delete removes the todo and invalidates the owner's list.
func (c *CachingTodoRepository) Delete(ctx context.Context, userID, id uint) error {
	if err := c.inner.Delete(ctx, userID, id); err != nil {
		return err
	}
	c.invalidate(ctx, userID)
	return nil
}

// DeleteAllByUser removes the user's todos and invalidates their list.
func (c *CachingTodoRepository) DeleteAllByUser(ctx context.Context, userID uint) (int64, error) {
	n, err := c.inner.DeleteAllByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	c.invalidate(ctx, userID)
	return n, nil
}

// CountAll is not cached.
func (c *CachingTodoRepository) CountAll(ctx context.Context) (int64, error) {
	return c.inner.CountAll(ctx)
}

// invalidate moves the user to a new cache generation. Best effort: a failed
// increment leaves a stale entry until the TTL expires.
func (c *CachingTodoRepository) invalidate(ctx context.Context, userID uint) {
	if c.rdb == nil {
		return
	}
	_ = c.rdb.Incr(ctx, c.genKey(userID)).Err()
}

// genKey is the key of the user's cache generation counter.
func (c *CachingTodoRepository) genKey(userID uint) string {
	return fmt.Sprintf("%s:user:%d:gen", c.namespace, userID)
}

// listKey is the key of the user's cached todo list for one generation.
func (c *CachingTodoRepository) listKey(userID uint, gen int64) string {
	return fmt.Sprintf("%s:user:%d:v%d", c.namespace, userID, gen)
}
