package queue

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisQueue is a list-backed transport (LPUSH to publish, BRPOP to
// consume). Popping removes the message, so Delete is a no-op and there is
// no redelivery to suppress.
type RedisQueue struct {
	rdb       *redis.Client
	queueName string
}

func NewRedisQueue(rdb *redis.Client, queueName string) *RedisQueue {
	return &RedisQueue{rdb: rdb, queueName: queueName}
}

func (q *RedisQueue) Receive(ctx context.Context) ([]Message, error) {
	res, err := q.rdb.BRPop(ctx, 5*time.Second, q.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	if len(res) < 2 {
		return nil, nil
	}

	return []Message{{Body: []byte(res[1])}}, nil
}

func (q *RedisQueue) Delete(ctx context.Context, handle string) error {
	return nil
}

func (q *RedisQueue) Publish(ctx context.Context, body []byte) error {
	return q.rdb.LPush(ctx, q.queueName, body).Err()
}

func (q *RedisQueue) Close() error {
	return q.rdb.Close()
}
