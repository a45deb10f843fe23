package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type defaultRepo struct {
	rdb *redis.Client
}

func newDefaultRepo(rdb *redis.Client) Default {
	return &defaultRepo{
		rdb: rdb,
	}
}

func (r *defaultRepo) LPushJSON(ctx context.Context, key string, value interface{}) error {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return r.rdb.LPush(ctx, key, valueJSON).Err()
}

func (r *defaultRepo) BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd {
	return r.rdb.BRPop(ctx, timeout, keys...)
}

func (r *defaultRepo) LLen(ctx context.Context, key string) *redis.IntCmd {
	return r.rdb.LLen(ctx, key)
}

// Pop blocks up to timeout for the next element of key and decodes it.
// It returns redis.Nil when nothing arrived in time.
func Pop[T any](r Default, ctx context.Context, key string, timeout time.Duration) (*T, error) {
	values, err := r.BRPop(ctx, timeout, key).Result()
	if err != nil {
		return nil, err
	}

	// BRPOP replies with [key, value]
	if len(values) != 2 {
		return nil, errors.New("unexpected BRPOP reply")
	}

	var result T
	if err := json.Unmarshal([]byte(values[1]), &result); err != nil {
		return nil, err
	}

	return &result, nil
}
