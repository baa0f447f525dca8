// Package broker implements the shared queue and expiring key/value store
// the delivery dispatcher correlates tasks across processes with. Redis is
// the only state genuinely shared across the fleet; correctness relies on
// unique task ids plus TTL expiry, never on locks.
package broker

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisQueue is an ordered task queue on a Redis list.
type RedisQueue struct {
	rdb       *redis.Client
	queueName string
}

func NewRedisQueue(rdb *redis.Client, queueName string) *RedisQueue {
	return &RedisQueue{rdb: rdb, queueName: queueName}
}

func (q *RedisQueue) Push(ctx context.Context, payload []byte) error {
	return q.rdb.LPush(ctx, q.queueName, payload).Err()
}

// TryPop removes the oldest task without blocking; the consumer loop runs on
// a timer tick rather than a blocking pop so it can observe shutdown.
func (q *RedisQueue) TryPop(ctx context.Context) ([]byte, bool, error) {
	res, err := q.rdb.RPop(ctx, q.queueName).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return res, true, nil
}

func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.queueName).Result()
}

// RedisResultStore is an expiring key/value store for delivery results.
type RedisResultStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisResultStore(rdb *redis.Client, prefix string) *RedisResultStore {
	if prefix == "" {
		prefix = "rosterboard:results:"
	}
	return &RedisResultStore{rdb: rdb, prefix: prefix}
}

func (s *RedisResultStore) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return s.rdb.Set(ctx, s.prefix+key, payload, ttl).Err()
}

func (s *RedisResultStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	res, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return res, true, nil
}

func (s *RedisResultStore) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.prefix+key).Err()
}
