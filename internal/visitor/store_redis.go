package visitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKeyPrefix namespaces visitor records
const RedisKeyPrefix = "muahib_visitor_info:"

// RedisStore keeps visitor state as JSON strings in redis
type RedisStore struct {
	client redis.Cmdable
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Load(ctx context.Context, key string) (*Info, error) {
	data, err := s.client.Get(ctx, RedisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read visitor info: %w", err)
	}

	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to decode visitor info: %w", err)
	}
	return &info, nil
}

func (s *RedisStore) Save(ctx context.Context, key string, info *Info) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to encode visitor info: %w", err)
	}
	if err := s.client.Set(ctx, RedisKeyPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write visitor info: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, RedisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete visitor info: %w", err)
	}
	return nil
}
