package db

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

const (
	ClassifyQueueKey = "mergerscan:queue:classify"
	ResearchQueueKey = "mergerscan:queue:research"
)

func ConnectRedis(ctx context.Context, redisURL string) error {
	if redisURL == "" {
		return errors.New("REDIS_URL environment variable is not set")
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	Redis = redis.NewClient(opt)

	_, err = Redis.Ping(ctx).Result()
	return err
}

func CloseRedis() {
	if Redis != nil {
		Redis.Close()
	}
}

// RedisQueue is a FIFO work queue of item ids on Redis lists: LPUSH on the
// producer side, RPOP on the consumer side.
type RedisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

func (q *RedisQueue) Push(ctx context.Context, queueKey string, data ...string) error {
	if len(data) == 0 {
		return nil
	}
	values := make([]interface{}, len(data))
	for i, d := range data {
		values[i] = d
	}
	return q.client.LPush(ctx, queueKey, values...).Err()
}

// Drain takes up to max entries without blocking. An empty queue is not an error.
func (q *RedisQueue) Drain(ctx context.Context, queueKey string, max int) ([]string, error) {
	result, err := q.client.RPopCount(ctx, queueKey, max).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return result, err
}

func (q *RedisQueue) Len(ctx context.Context, queueKey string) (int64, error) {
	return q.client.LLen(ctx, queueKey).Result()
}
