package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// deleteChunk bounds the number of keys sent in one DEL.
const deleteChunk = 500

type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) SortedRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return s.client.ZRange(ctx, key, start, stop).Result()
}

func (s *RedisStore) SortedUnion(ctx context.Context, keys ...string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringSliceCmd, 0, len(keys))
	for _, key := range keys {
		cmds = append(cmds, pipe.ZRange(ctx, key, 0, -1))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	seen := make(map[string]struct{})
	var out []string
	for _, cmd := range cmds {
		for _, m := range cmd.Val() {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *RedisStore) SortedCard(ctx context.Context, key string) (int64, error) {
	return s.client.ZCard(ctx, key).Result()
}

func (s *RedisStore) SortedAdd(ctx context.Context, key string, score float64, member string) error {
	return s.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err()
}

func (s *RedisStore) SortedRemove(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	return s.client.ZRem(ctx, key, toAny(members)...).Err()
}

func (s *RedisStore) SortedRemoveFromKeys(ctx context.Context, keys []string, member string) error {
	if len(keys) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()
	for _, key := range keys {
		pipe.ZRem(ctx, key, member)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) SortedRemoveBulk(ctx context.Context, pairs []KeyMember) error {
	if len(pairs) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()
	for _, p := range pairs {
		pipe.ZRem(ctx, p.Key, p.Member)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) SetMembers(ctx context.Context, key string) ([]string, error) {
	return s.client.SMembers(ctx, key).Result()
}

func (s *RedisStore) SetCard(ctx context.Context, key string) (int64, error) {
	return s.client.SCard(ctx, key).Result()
}

func (s *RedisStore) SetAdd(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	return s.client.SAdd(ctx, key, toAny(members)...).Err()
}

func (s *RedisStore) SetRemove(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	return s.client.SRem(ctx, key, toAny(members)...).Err()
}

func (s *RedisStore) SetRemoveFromKeys(ctx context.Context, keys []string, member string) error {
	if len(keys) == 0 {
		return nil
	}
	pipe := s.client.Pipeline()
	for _, key := range keys {
		pipe.SRem(ctx, key, member)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) GetObject(ctx context.Context, key string) (map[string]string, error) {
	return s.client.HGetAll(ctx, key).Result()
}

func (s *RedisStore) GetObjects(ctx context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, 0, len(keys))
	for _, key := range keys {
		cmds = append(cmds, pipe.HGetAll(ctx, key))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	out := make([]map[string]string, 0, len(cmds))
	for _, cmd := range cmds {
		out = append(out, cmd.Val())
	}
	return out, nil
}

func (s *RedisStore) SetObjectField(ctx context.Context, key, field string, value any) error {
	return s.client.HSet(ctx, key, field, value).Err()
}

func (s *RedisStore) DeleteObjectFields(ctx context.Context, key string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return s.client.HDel(ctx, key, fields...).Err()
}

func (s *RedisStore) IncrObjectField(ctx context.Context, key, field string, by int64) (int64, error) {
	return s.client.HIncrBy(ctx, key, field, by).Result()
}

func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisStore) DeleteAll(ctx context.Context, keys ...string) error {
	for len(keys) > 0 {
		n := min(len(keys), deleteChunk)
		if err := s.client.Del(ctx, keys[:n]...).Err(); err != nil {
			return err
		}
		keys = keys[n:]
	}
	return nil
}

func toAny(members []string) []any {
	out := make([]any, len(members))
	for i, m := range members {
		out[i] = m
	}
	return out
}
