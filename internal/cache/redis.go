package cache

import (
	"context"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var _ StatusCache = (*RedisStatusCache)(nil)

type RedisStatusCache struct {
	kv *Redis
}

func NewRedisStatusCache(kv *Redis) *RedisStatusCache {
	return &RedisStatusCache{kv: kv}
}

func (r *RedisStatusCache) SetStatus(ctx context.Context, token string, status *Status) error {
	return r.kv.Set(ctx, statusKey(token), status, StatusTTL)
}

func (r *RedisStatusCache) GetStatus(ctx context.Context, token string) (*Status, error) {
	var status Status
	ok, err := r.kv.Get(ctx, statusKey(token), &status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	return &status, nil
}

func (r *RedisStatusCache) CountStat(ctx context.Context, token, protocol, result string) error {
	return r.kv.client.ZAdd(ctx, statsKey(protocol, result), redis.Z{
		Score:  float64(time.Now().Unix()),
		Member: token,
	}).Err()
}

func (r *RedisStatusCache) TrimStats(ctx context.Context, before time.Time) (int64, error) {
	var removed int64
	max := "(" + strconv.FormatInt(before.Unix(), 10)

	iter := r.kv.client.Scan(ctx, 0, statsPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		n, err := r.kv.client.ZRemRangeByScore(ctx, key, "-inf", max).Result()
		if err != nil {
			return removed, err
		}
		if n > 0 {
			logrus.Infof("trimmed %d entries from %s", n, key)
		}
		removed += n
	}

	return removed, iter.Err()
}
