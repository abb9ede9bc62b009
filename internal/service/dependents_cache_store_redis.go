package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDependentsCacheStore shares advisory results across replicas. Data
// keys carry the TTL; a per-team index set tracks live keys so a team's
// entries can be dropped together on any flag write.
type RedisDependentsCacheStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisDependentsCacheStore(client redis.UniversalClient, prefix string) *RedisDependentsCacheStore {
	if prefix == "" {
		prefix = "flag_dependents_cache"
	}
	return &RedisDependentsCacheStore{client: client, prefix: prefix}
}

func (s *RedisDependentsCacheStore) Get(ctx context.Context, teamID, flagID uint) ([]byte, bool, error) {
	if s.client == nil {
		return nil, false, nil
	}
	val, err := s.client.Get(ctx, dependentsCacheKey(s.prefix, teamID, flagID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (s *RedisDependentsCacheStore) Set(ctx context.Context, teamID, flagID uint, value []byte, ttl time.Duration) error {
	if s.client == nil || ttl <= 0 {
		return nil
	}
	dataKey := dependentsCacheKey(s.prefix, teamID, flagID)
	indexKey := s.teamIndexKey(teamID)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, dataKey, value, ttl)
	pipe.SAdd(ctx, indexKey, dataKey)
	pipe.Expire(ctx, indexKey, ttl+time.Minute)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisDependentsCacheStore) InvalidateTeam(ctx context.Context, teamID uint) error {
	if s.client == nil {
		return nil
	}
	indexKey := s.teamIndexKey(teamID)
	keys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	pipe := s.client.TxPipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, indexKey)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisDependentsCacheStore) teamIndexKey(teamID uint) string {
	return fmt.Sprintf("%s:index:team:%d", s.prefix, teamID)
}
