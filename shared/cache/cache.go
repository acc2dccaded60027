package cache

//go:generate go run go.uber.org/mock/mockgen -source=./cache.go -destination=./mocks/cache_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wsb/infras/otel"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	otelScopeName         = "cache"
	otelCacheKeyAttribute = "cache.key"
	otelCacheTagAttribute = "cache.tags"
	Nil                   = redis.Nil

	tagKeyPrefix = "tag:"
	tagTTL       = 24 * time.Hour
	scanBatch    = 100
)

// RedisCache stores JSON encoded values. Keys may be registered under tags so
// that every key derived from the same entity can be dropped at once.
type RedisCache interface {
	Save(ctx context.Context, key string, value any, duration int, tags ...string) (err error)
	Get(ctx context.Context, key string, value any) (err error)
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context, prefix string) error
	Invalidate(ctx context.Context, tags ...string) (removed int, err error)
	Increment(ctx context.Context, key string, windowSeconds int) (count int64, err error)
}

type redisCache struct {
	client *redis.Client
	otel   otel.Otel
}

func NewRedisCache(client *redis.Client, ot otel.Otel) RedisCache {
	return &redisCache{
		client: client,
		otel:   ot,
	}
}

func TagKey(tag string) string {
	return tagKeyPrefix + tag
}

// Clear implements RedisCache. It deletes every key starting with prefix.
func (cache *redisCache) Clear(ctx context.Context, prefix string) (err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Clear")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelCacheKeyAttribute, prefix)

	iter := cache.client.Scan(ctx, 0, prefix+"*", scanBatch).Iterator()

	keys := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err = iter.Err(); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Str("RedisCache", "Clear").Msg("failed to scan cache")

		return fmt.Errorf("failed to scan cache keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err = cache.client.Del(ctx, keys...).Err(); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Str("RedisCache", "Clear").Msg("failed to clear cache")

		return fmt.Errorf("failed to clear cache keys: %w", err)
	}

	log.Debug().Str("prefix", prefix).Int("deleted", len(keys)).Msg("cleared cache prefix")

	return nil
}

// Increment implements RedisCache. The window starts with the first hit.
func (cache *redisCache) Increment(ctx context.Context, key string, windowSeconds int) (count int64, err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Increment")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelCacheKeyAttribute, key)

	count, err = cache.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}

	if count == 1 {
		if err = cache.client.Expire(ctx, key, time.Duration(windowSeconds)*time.Second).Err(); err != nil {
			return count, fmt.Errorf("failed to set counter window: %w", err)
		}
	}

	return count, nil
}

// Save implements RedisCache. Tag sets outlive the keys they index; stale
// members are harmless since deleting a missing key is a no-op.
func (cache *redisCache) Save(ctx context.Context, key string, value any, duration int, tags ...string) (err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Save")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelCacheKeyAttribute, key)
	scope.SetAttribute(otelCacheTagAttribute, tags)

	var strValue []byte
	switch v := value.(type) {
	case string:
		strValue = []byte(v)
	default:
		strValue, err = json.Marshal(v)
		if err != nil {
			log.Error().Err(err).Str("key", key).Str("RedisCache", "Save").Msg("failed to marshal cache")

			return fmt.Errorf("failed to marshal cache value: %w", err)
		}
	}

	ttl := time.Second * time.Duration(duration)

	_, err = cache.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, strValue, ttl)

		for _, tag := range tags {
			pipe.SAdd(ctx, TagKey(tag), key)

			pipe.Expire(ctx, TagKey(tag), max(ttl, tagTTL))
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Str("RedisCache", "Save").Msg("failed to set cache")

		return fmt.Errorf("failed to set cache value: %w", err)
	}

	log.Debug().Str("RedisCache", "Save").Str("key", key).Msg("success to set cache")

	return nil
}

// Get implements RedisCache. A missing or expired key returns Nil unwrapped.
// Strings are stored raw, so a *string destination receives the bytes as is.
func (cache *redisCache) Get(ctx context.Context, key string, value any) (err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Get")
	defer scope.End()

	scope.SetAttribute(otelCacheKeyAttribute, key)

	raw, err := cache.client.Get(ctx, key).Bytes()
	if errors.Is(err, Nil) {
		return Nil //nolint:wrapcheck
	}

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", key).Str("RedisCache", "Get").Msg("failed to get cache")

		return fmt.Errorf("failed to get cache value: %w", err)
	}

	if str, ok := value.(*string); ok {
		*str = string(raw)

		return nil
	}

	if err = json.Unmarshal(raw, value); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", key).Str("RedisCache", "Get").Msg("failed to unmarshal cache")

		return fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return nil
}

// Delete implements RedisCache. Missing keys are ignored.
func (cache *redisCache) Delete(ctx context.Context, keys ...string) (err error) {
	if len(keys) == 0 {
		return nil
	}

	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelCacheKeyAttribute, keys)

	if err = cache.client.Del(ctx, keys...).Err(); err != nil {
		log.Error().Err(err).Strs("keys", keys).Str("RedisCache", "Delete").Msg("failed to delete cache")

		return fmt.Errorf("failed to delete cache values: %w", err)
	}

	return nil
}

// Invalidate implements RedisCache. It drops every key registered under the
// tags together with the tag sets themselves.
func (cache *redisCache) Invalidate(ctx context.Context, tags ...string) (removed int, err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Invalidate")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelCacheTagAttribute, tags)

	for _, tag := range tags {
		keys, err := cache.client.SMembers(ctx, TagKey(tag)).Result()
		if err != nil {
			log.Error().Err(err).Str("tag", tag).Str("RedisCache", "Invalidate").Msg("failed to read tag")

			return removed, fmt.Errorf("failed to read cache tag: %w", err)
		}

		count, err := cache.client.Del(ctx, append(keys, TagKey(tag))...).Result()
		if err != nil {
			log.Error().Err(err).Str("tag", tag).Str("RedisCache", "Invalidate").Msg("failed to del tagged cache")

			return removed, fmt.Errorf("failed to delete tagged cache values: %w", err)
		}

		removed += len(keys)

		log.Debug().Str("tag", tag).Int64("deleted", count).Msg("invalidated cache tag")
	}

	return removed, nil
}
