// Package cache wraps Redis as a read-through query cache. Keys are
// namespaced by collection so writes can invalidate one collection's
// entries without touching the rest.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"EstateHub/config"
)

const DefaultTTL = 5 * time.Minute

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// NewFromEnv builds a cache from REDIS_ADDR, REDIS_PASSWORD and
// CACHE_TTL_MINUTES.
func NewFromEnv() *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     config.EnvOr("REDIS_ADDR", "localhost:6379"),
		Password: config.EnvOr("REDIS_PASSWORD", ""),
		DB:       0,
	})
	ttl := time.Duration(config.EnvIntOr("CACHE_TTL_MINUTES", 5)) * time.Minute
	return New(client, ttl)
}

// Key derives a stable cache key from a collection name and the query
// parameters that shaped the read.
func Key(collection string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for i, k := range keys {
		if i > 0 {
			builder.WriteString(":")
		}
		builder.WriteString(k)
		builder.WriteString("=")
		builder.WriteString(params[k])
	}

	hash := md5.Sum([]byte(builder.String()))
	return collection + ":" + hex.EncodeToString(hash[:])
}

// Get reports whether a fresh entry exists for the query and, if so,
// unmarshals it into dest.
func (c *Cache) Get(ctx context.Context, collection string, params map[string]string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, Key(collection, params)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal([]byte(data), dest)
}

func (c *Cache) Set(ctx context.Context, collection string, params map[string]string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(collection, params), data, c.ttl).Err()
}

// Clear removes every entry for the given collections, or every entry in
// the cache when called with none.
func (c *Cache) Clear(ctx context.Context, collections ...string) error {
	patterns := []string{"*"}
	if len(collections) > 0 {
		patterns = make([]string, len(collections))
		for i, col := range collections {
			patterns[i] = col + ":*"
		}
	}

	for _, pattern := range patterns {
		iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
		for iter.Next(ctx) {
			if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
				return err
			}
		}
		if err := iter.Err(); err != nil {
			return err
		}
	}
	return nil
}
