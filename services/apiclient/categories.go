package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cokothon/models"

	"github.com/bytedance/sonic"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CategoryAPI groups the /categories endpoints.
type CategoryAPI struct {
	c     *Client
	cache CategoryCache
}

// List returns every category, from the cache when one is configured.
func (a *CategoryAPI) List(ctx context.Context, creds *Credentials) ([]models.Category, error) {
	if a.cache != nil {
		if cats, ok := a.cache.Get(ctx); ok {
			return cats, nil
		}
	}
	env, err := do[[]models.Category](ctx, a.c, creds, call{method: http.MethodGet, route: "/categories", path: "/categories"})
	if err != nil {
		return nil, err
	}
	if a.cache != nil {
		if err := a.cache.Set(ctx, env.Data); err != nil {
			a.c.logger.Warn("category cache write failed", zap.Error(err))
		}
	}
	return env.Data, nil
}

func (a *CategoryAPI) Get(ctx context.Context, creds *Credentials, id int64) (*models.Category, error) {
	env, err := do[*models.Category](ctx, a.c, creds, call{method: http.MethodGet, route: "/categories/{id}", path: fmt.Sprintf("/categories/%d", id)})
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, &APIError{Status: http.StatusNotFound}
	}
	return env.Data, nil
}

// Invalidate drops the cached category list so post counts are refetched.
// Cache failures are logged, never returned.
func (a *CategoryAPI) Invalidate(ctx context.Context) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Invalidate(ctx); err != nil {
		a.c.logger.Warn("category cache invalidation failed", zap.Error(err))
	}
}

// CategoryCache stores the category list shared by all sessions.
type CategoryCache interface {
	Get(ctx context.Context) ([]models.Category, bool)
	Set(ctx context.Context, categories []models.Category) error
	Invalidate(ctx context.Context) error
}

type RedisCategoryCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisCategoryCache(client *redis.Client, key string, ttl time.Duration) *RedisCategoryCache {
	return &RedisCategoryCache{client: client, key: key, ttl: ttl}
}

// Get treats every Redis failure as a miss.
func (c *RedisCategoryCache) Get(ctx context.Context) ([]models.Category, bool) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		return nil, false
	}
	var cats []models.Category
	if err := sonic.ConfigStd.Unmarshal(data, &cats); err != nil {
		return nil, false
	}
	return cats, true
}

func (c *RedisCategoryCache) Set(ctx context.Context, categories []models.Category) error {
	b, err := sonic.ConfigStd.Marshal(categories)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key, b, c.ttl).Err()
}

func (c *RedisCategoryCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
