package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Message represents work to be processed. Body is expected to be JSON.
type Message struct {
	Type string          `json:"type"`
	Body json.RawMessage `json:"body"`
}

// Queue is the abstraction over different backends.
type Queue interface {
	Publish(ctx context.Context, msg Message) error
	Consume(ctx context.Context) (<-chan Message, error)
}

// ErrClosed is returned when publishing to a closed in-memory queue.
var ErrClosed = errors.New("queue closed")

// InMemory is a minimal channel-backed queue for single-process deployments and tests.
type InMemory struct {
	ch   chan Message
	done chan struct{}
	once sync.Once
}

// NewInMemory creates a bounded in-memory queue.
func NewInMemory(size int) *InMemory {
	return &InMemory{ch: make(chan Message, size), done: make(chan struct{})}
}

// Publish enqueues a message.
func (q *InMemory) Publish(ctx context.Context, msg Message) error {
	select {
	case <-q.done:
		return ErrClosed
	default:
	}
	select {
	case q.ch <- msg:
		return nil
	case <-q.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops new publishes. Consumers receive what is still buffered and
// then see their channel closed.
func (q *InMemory) Close() {
	q.once.Do(func() { close(q.done) })
}

// Len reports how many messages are buffered.
func (q *InMemory) Len() int {
	return len(q.ch)
}

// Consume returns a channel for workers. It closes when ctx is done or, after
// Close, once the buffer is empty.
func (q *InMemory) Consume(ctx context.Context) (<-chan Message, error) {
	out := make(chan Message)
	forward := func(msg Message) bool {
		select {
		case out <- msg:
			return true
		case <-ctx.Done():
			return false
		}
	}
	go func() {
		defer close(out)
		for {
			select {
			case msg := <-q.ch:
				if !forward(msg) {
					return
				}
			case <-q.done:
				for {
					select {
					case msg := <-q.ch:
						if !forward(msg) {
							return
						}
					default:
						return
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// RedisQueue implements a simple Redis list-backed queue.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue builds a queue using LPUSH/BRPOP semantics.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	if key == "" {
		key = "connect:activity"
	}
	return &RedisQueue{client: client, key: key}
}

// Publish enqueues a message.
func (q *RedisQueue) Publish(ctx context.Context, msg Message) error {
	raw, err := serialize(msg)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, raw).Err()
}

// Depth reports how many messages are waiting.
func (q *RedisQueue) Depth(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

// Consume streams messages using BRPOP.
func (q *RedisQueue) Consume(ctx context.Context) (<-chan Message, error) {
	out := make(chan Message)
	go func() {
		defer close(out)
		for {
			res, err := q.client.BRPop(ctx, 5*time.Second, q.key).Result()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if !errors.Is(err, redis.Nil) {
					time.Sleep(time.Second)
				}
				continue
			}
			if len(res) == 2 {
				select {
				case out <- deserialize(res[1]):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// serialize wraps the message in a {"type","body"} envelope.
func serialize(msg Message) (string, error) {
	if len(msg.Body) == 0 {
		msg.Body = json.RawMessage("null")
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// deserialize reads an envelope. Anything else is handed on as a bare body.
func deserialize(s string) Message {
	var msg Message
	if err := json.Unmarshal([]byte(s), &msg); err != nil || msg.Type == "" {
		return Message{Body: []byte(s)}
	}
	return msg
}
