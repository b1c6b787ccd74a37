package redisstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Abhijitam01/drawr/internal/domain"
	"github.com/Abhijitam01/drawr/internal/repository"
)

// RedisSceneCache implements repository.SceneCache. Each room's shape list is
// one JSON string; a set indexes which rooms are cached so a sweep can find them.
// A per-room counter holds the generation; Set watches it.
type RedisSceneCache struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisSceneCache(client *redis.Client, keyPrefix string) *RedisSceneCache {
	if client == nil {
		panic("redis client cannot be nil for RedisSceneCache")
	}
	if keyPrefix == "" {
		keyPrefix = "drawr:"
	}
	return &RedisSceneCache{client: client, keyPrefix: keyPrefix}
}

func (r *RedisSceneCache) sceneKey(roomID string) string {
	return fmt.Sprintf("%sroom:%s:shapes", r.keyPrefix, roomID)
}

func (r *RedisSceneCache) genKey(roomID string) string {
	return fmt.Sprintf("%sroom:%s:gen", r.keyPrefix, roomID)
}

func (r *RedisSceneCache) indexKey() string {
	return r.keyPrefix + "rooms:cached"
}

func (r *RedisSceneCache) Get(ctx context.Context, roomID string) ([]domain.Shape, error) {
	key := r.sceneKey(roomID)
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis: get scene for room %s from %s: %w", roomID, key, err)
	}
	var shapes []domain.Shape
	if err := json.Unmarshal(raw, &shapes); err != nil {
		return nil, fmt.Errorf("redis: decode scene for room %s: %w", roomID, err)
	}
	return shapes, nil
}

func (r *RedisSceneCache) Generation(ctx context.Context, roomID string) (int64, error) {
	gen, err := r.client.Get(ctx, r.genKey(roomID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis: get scene generation for room %s: %w", roomID, err)
	}
	return gen, nil
}

func (r *RedisSceneCache) Set(ctx context.Context, roomID string, gen int64, shapes []domain.Shape, ttl time.Duration) error {
	if shapes == nil {
		shapes = []domain.Shape{}
	}
	payload, err := json.Marshal(shapes)
	if err != nil {
		return fmt.Errorf("redis: encode scene for room %s: %w", roomID, err)
	}

	genKey := r.genKey(roomID)
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return repository.ErrStaleScene
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.sceneKey(roomID), payload, ttl)
			pipe.SAdd(ctx, r.indexKey(), roomID)
			return nil
		})
		return err
	}, genKey)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrStaleScene), errors.Is(err, redis.TxFailedErr):
		return repository.ErrStaleScene
	default:
		return fmt.Errorf("redis: set scene for room %s: %w", roomID, err)
	}
}

func (r *RedisSceneCache) Invalidate(ctx context.Context, roomID string) error {
	pipe := r.client.TxPipeline()
	pipe.Incr(ctx, r.genKey(roomID))
	pipe.Del(ctx, r.sceneKey(roomID))
	pipe.SRem(ctx, r.indexKey(), roomID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: invalidate scene for room %s: %w", roomID, err)
	}
	return nil
}

// CachedRooms may include rooms whose entry already expired; Invalidate on
// them only cleans the index.
func (r *RedisSceneCache) CachedRooms(ctx context.Context) ([]string, error) {
	rooms, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list cached rooms: %w", err)
	}
	return rooms, nil
}
