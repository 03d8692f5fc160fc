package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gokatarajesh/trivia-api/internal/trivia"
	ws "github.com/gokatarajesh/trivia-api/pkg/http/ws"
)

// DefaultChannel carries question bank events between API replicas.
const DefaultChannel = "trivia:events"

// RedisPublisher publishes question events over Redis Pub/Sub so every
// replica's Broadcaster can forward them to its own clients.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

var _ trivia.Publisher = (*RedisPublisher)(nil)

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, evt trivia.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", p.channel, err)
	}
	return nil
}

// LocalPublisher hands events straight to the hub of a single process.
type LocalPublisher struct {
	hub *ws.Hub
}

var _ trivia.Publisher = (*LocalPublisher)(nil)

func NewLocalPublisher(hub *ws.Hub) *LocalPublisher {
	return &LocalPublisher{hub: hub}
}

func (p *LocalPublisher) Publish(_ context.Context, evt trivia.Event) error {
	msg, err := messageFor(evt)
	if err != nil {
		return err
	}
	return p.hub.BroadcastAll(msg)
}

func messageFor(evt trivia.Event) (ws.Message, error) {
	var msgType string
	switch evt.Type {
	case trivia.EventQuestionCreated:
		msgType = ws.TypeQuestionCreated
	case trivia.EventQuestionDeleted:
		msgType = ws.TypeQuestionDeleted
	default:
		return ws.Message{}, fmt.Errorf("unknown event type %q", evt.Type)
	}
	return ws.NewMessage(msgType, evt.Question)
}
