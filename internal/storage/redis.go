package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vladislavprovich/nft-indexer/internal/service"
)

const keyPrefix = "nft:query:"

// RedisStore keeps results as JSON; every Save refreshes the TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ QueryStore = (*RedisStore)(nil)

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, result *service.QueryResult) error {
	if result == nil || result.ID == "" {
		return errors.New("query result without id")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal query %s: %w", result.ID, err)
	}

	if err = s.rdb.Set(ctx, keyPrefix+result.ID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save query %s: %w", result.ID, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*service.QueryResult, error) {
	payload, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get query %s: %w", id, err)
	}

	var result service.QueryResult
	if err = json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("unmarshal query %s: %w", id, err)
	}
	return &result, nil
}
