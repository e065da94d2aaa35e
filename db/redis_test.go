package db

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/assert/v2"
	"github.com/redis/go-redis/v9"
)

func newTestQueue(t *testing.T) *RedisQueue {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisQueue(client)
}

func TestRedisQueue_FIFO(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t)

	assert.Equal(t, nil, q.Push(ctx, ClassifyQueueKey, "1", "2"))
	assert.Equal(t, nil, q.Push(ctx, ClassifyQueueKey, "3"))

	n, err := q.Len(ctx, ClassifyQueueKey)
	assert.Equal(t, nil, err)
	assert.Equal(t, int64(3), n)

	got, err := q.Drain(ctx, ClassifyQueueKey, 10)
	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"1", "2", "3"}, got)
}

func TestRedisQueue_DrainEmpty(t *testing.T) {
	q := newTestQueue(t)

	got, err := q.Drain(context.Background(), ResearchQueueKey, 5)

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(got))
}

func TestRedisQueue_DrainRespectsMax(t *testing.T) {
	ctx := context.Background()
	q := newTestQueue(t)
	q.Push(ctx, ResearchQueueKey, "a", "b", "c")

	got, err := q.Drain(ctx, ResearchQueueKey, 2)
	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"a", "b"}, got)

	n, _ := q.Len(ctx, ResearchQueueKey)
	assert.Equal(t, int64(1), n)
}

func TestRedisQueue_PushNothing(t *testing.T) {
	q := newTestQueue(t)
	assert.Equal(t, nil, q.Push(context.Background(), ClassifyQueueKey))
}
