package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vhoudet/videos-ms-go/internal/port"
	"github.com/vhoudet/videos-ms-go/internal/uuid"
)

// detailsTTL caps how long a terminal-state payload may be served without
// re-reading the database.
const detailsTTL = 10 * time.Minute

type Cache struct {
	client *redis.Client
}

// compile-time check: *Cache must satisfy port.Cache
var _ port.Cache = (*Cache)(nil)

func NewCache(addr, password string) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	return &Cache{client: rdb}
}

func (c *Cache) GetVideoDetails(ctx context.Context, id uuid.UUID) (*port.GetVideoOutput, error) {
	log.Printf("getting entry in cache for video #%s...", id)

	val, err := c.client.Get(ctx, getCacheKey(id.String())).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var out port.GetVideoOutput
	if err := json.Unmarshal([]byte(val), &out); err != nil {
		return nil, fmt.Errorf("unmarshal failed: %w", err)
	}

	return &out, nil
}

func (c *Cache) SetVideoDetails(ctx context.Context, id uuid.UUID, out *port.GetVideoOutput) error {
	log.Printf("creating entry in cache for video #%s, at status %q...", id, out.Status)

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	if err := c.client.Set(ctx, getCacheKey(id.String()), data, detailsTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *Cache) DeleteVideoDetails(ctx context.Context, id uuid.UUID) error {
	log.Printf("deleting entry in cache for video #%s...", id)

	if err := c.client.Del(ctx, getCacheKey(id.String())).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func getCacheKey(id string) string {
	return "video:" + id
}
