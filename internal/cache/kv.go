package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Redis is a json key value store on top of a redis client. The caller owns
// the client lifecycle.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr, password string, db int) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		Protocol: 2,
	})

	return &Redis{client: client}
}

func NewRedisFromClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Client() *redis.Client {
	return r.client
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Set stores v as json under k, expiring after ttl.
func (r *Redis) Set(ctx context.Context, k string, v any, ttl time.Duration) error {
	value, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return r.client.SetEx(ctx, k, value, ttl).Err()
}

// Get decodes the json stored under k into v. ok is false when k is missing.
func (r *Redis) Get(ctx context.Context, k string, v any) (bool, error) {
	res := r.client.Get(ctx, k)
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return false, nil
		}
		return false, res.Err()
	}

	buf, err := res.Bytes()
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(buf, v); err != nil {
		return false, err
	}

	return true, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
