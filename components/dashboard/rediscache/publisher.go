package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/goliatone/go-studio/components/dashboard"
)

// DefaultChannel carries widget events between instances.
const DefaultChannel = "studio.widgets"

type envelope struct {
	Origin string                `json:"origin"`
	Event  dashboard.WidgetEvent `json:"event"`
}

// Publisher implements dashboard.EventPublisher. Each publisher stamps its
// messages with an origin id so Relay can skip the instance's own events.
type Publisher struct {
	client redis.UniversalClient
	origin string
	log    *zap.Logger
}

var _ dashboard.EventPublisher = (*Publisher)(nil)

func NewPublisher(client redis.UniversalClient, logger *zap.Logger) (*Publisher, error) {
	if client == nil {
		return nil, errors.New("rediscache: client required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{client: client, origin: uuid.NewString(), log: logger.Named("rediscache")}, nil
}

// Origin identifies this instance on the channel.
func (p *Publisher) Origin() string { return p.origin }

func (p *Publisher) PublishWidgetEvent(ctx context.Context, channel string, event dashboard.WidgetEvent) error {
	if channel == "" {
		channel = DefaultChannel
	}
	payload, err := json.Marshal(envelope{Origin: p.origin, Event: event})
	if err != nil {
		return fmt.Errorf("rediscache: encode event: %w", err)
	}
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("rediscache: publish %s: %w", channel, err)
	}
	return nil
}

// Subscribe listens on channel and relays remote events to hook until ctx
// is done.
func (p *Publisher) Subscribe(ctx context.Context, channel string, hook dashboard.RefreshHook) error {
	if channel == "" {
		channel = DefaultChannel
	}
	sub := p.client.Subscribe(ctx, channel)
	defer sub.Close()
	return Relay(ctx, sub.Channel(), p.origin, hook, p.log)
}

// Relay decodes messages and hands events from other origins to hook.
// Malformed messages and hook errors are logged and skipped. It returns when
// ctx is done or msgs is closed.
func Relay(ctx context.Context, msgs <-chan *redis.Message, origin string, hook dashboard.RefreshHook, log *zap.Logger) error {
	if hook == nil {
		return errors.New("rediscache: refresh hook required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Warn("dropping malformed widget event", zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			if env.Origin == origin {
				continue
			}
			if err := hook.WidgetUpdated(ctx, env.Event); err != nil {
				log.Warn("relay widget event", zap.String("reason", env.Event.Reason), zap.Error(err))
			}
		}
	}
}
