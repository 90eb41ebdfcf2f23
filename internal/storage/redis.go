package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/user/lightbox-fetcher/pkg/utils"
)

const fetchedKeyPrefix = "fetched:"

// RedisStore remembers which links were saved recently.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string) *RedisStore {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisStore{client: rdb}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func fetchedKey(link string) string {
	return fmt.Sprintf("%s%s", fetchedKeyPrefix, utils.HashURL(link))
}

// MarkFetched stores the saved file name for link with a TTL. The TTL must
// be positive; redis would otherwise keep the key forever.
func (s *RedisStore) MarkFetched(ctx context.Context, link, fileName string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("invalid ttl %s for fetched key", ttl)
	}
	return s.client.Set(ctx, fetchedKey(link), fileName, ttl).Err()
}

// RecentlyFetched returns the file name saved for link within the TTL.
func (s *RedisStore) RecentlyFetched(ctx context.Context, link string) (string, bool, error) {
	fileName, err := s.client.Get(ctx, fetchedKey(link)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return fileName, true, nil
}

// Forget drops the cache entry for link.
func (s *RedisStore) Forget(ctx context.Context, link string) error {
	return s.client.Del(ctx, fetchedKey(link)).Err()
}
