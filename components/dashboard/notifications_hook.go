package dashboard

import (
	"context"
	"errors"
)

// EventPublisher ships widget events to other server instances.
// rediscache.Publisher implements it over Redis pub/sub.
type EventPublisher interface {
	PublishWidgetEvent(ctx context.Context, channel string, event WidgetEvent) error
}

// PublishHook forwards widget events to an EventPublisher.
type PublishHook struct {
	Publisher EventPublisher
	Channel   string
}

func (h *PublishHook) WidgetUpdated(ctx context.Context, event WidgetEvent) error {
	if h == nil || h.Publisher == nil {
		return nil
	}
	return h.Publisher.PublishWidgetEvent(ctx, h.Channel, event)
}

// RefreshHooks fans an event out to every hook, joining their errors.
type RefreshHooks []RefreshHook

func (hooks RefreshHooks) WidgetUpdated(ctx context.Context, event WidgetEvent) error {
	var err error
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		err = errors.Join(err, hook.WidgetUpdated(ctx, event))
	}
	return err
}
