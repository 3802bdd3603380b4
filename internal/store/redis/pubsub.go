package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gosuda/todo/internal/domain"
)

// DefaultChannel is the pub/sub channel task events go to unless configured.
const DefaultChannel = "todo:tasks"

// Publisher fans committed task events out over Redis pub/sub. Nothing is
// stored in Redis; subscribers that are not listening miss the event.
type Publisher struct {
	client  *redis.Client
	channel string
	timeout time.Duration
}

func New(ctx context.Context, addr, password string, db int, channel string, timeout time.Duration) (*Publisher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  timeout,
		WriteTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	if channel == "" {
		channel = DefaultChannel
	}

	return &Publisher{client: client, channel: channel, timeout: timeout}, nil
}

func (p *Publisher) Close() error {
	if err := p.client.Close(); err != nil {
		return fmt.Errorf("redis.Publisher.Close: %w", err)
	}
	return nil
}

func (p *Publisher) Channel() string { return p.channel }

// Publish JSON-encodes ev and sends it to the configured channel.
func (p *Publisher) Publish(ctx context.Context, ev domain.TaskEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("redis.Publisher.Publish: encode: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis.Publisher.Publish: %w", err)
	}
	return nil
}
