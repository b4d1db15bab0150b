// Package activity fans studio moderation and submission events out to
// audit sinks.
package activity

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultChannel tags events that do not name one.
const DefaultChannel = "studio"

// Event describes one thing a person did in the studio.
type Event struct {
	Verb           string
	ActorID        string
	UserID         string
	TenantID       string
	ObjectType     string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	OccurredAt     time.Time
}

// Hook receives normalized events.
type Hook interface {
	Notify(ctx context.Context, evt Event) error
}

// HookFunc adapts a function to Hook.
type HookFunc func(ctx context.Context, evt Event) error

func (f HookFunc) Notify(ctx context.Context, evt Event) error {
	if f == nil {
		return nil
	}
	return f(ctx, evt)
}

// Hooks notifies every hook and joins their errors.
type Hooks []Hook

// Notify drops events missing a verb or object.
func (h Hooks) Notify(ctx context.Context, evt Event) error {
	evt = NormalizeEvent(evt)
	if !Valid(evt) {
		return nil
	}
	var errs []error
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Valid reports whether evt carries a verb, an object type and an object id.
func Valid(evt Event) bool {
	return evt.Verb != "" && evt.ObjectType != "" && evt.ObjectID != ""
}

// NormalizeEvent trims identifiers and clones the reference fields so hooks
// can keep the event.
func NormalizeEvent(evt Event) Event {
	evt.Verb = strings.TrimSpace(evt.Verb)
	evt.ActorID = strings.TrimSpace(evt.ActorID)
	evt.UserID = strings.TrimSpace(evt.UserID)
	evt.TenantID = strings.TrimSpace(evt.TenantID)
	evt.ObjectType = strings.TrimSpace(evt.ObjectType)
	evt.ObjectID = strings.TrimSpace(evt.ObjectID)
	evt.Channel = strings.TrimSpace(evt.Channel)
	evt.DefinitionCode = strings.TrimSpace(evt.DefinitionCode)
	evt.Recipients = slices.Clone(evt.Recipients)
	if evt.Metadata != nil {
		evt.Metadata = maps.Clone(evt.Metadata)
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	return evt
}

// Config toggles emission.
type Config struct {
	Enabled bool
	Channel string
}

// Emitter stamps the configured channel and forwards to hooks.
type Emitter struct {
	hooks Hooks
	cfg   Config
}

func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	if strings.TrimSpace(cfg.Channel) == "" {
		cfg.Channel = DefaultChannel
	}
	return &Emitter{hooks: hooks, cfg: cfg}
}

// Enabled is false when disabled by config or when there is nowhere to send.
func (e *Emitter) Enabled() bool {
	return e != nil && e.cfg.Enabled && len(e.hooks) > 0
}

func (e *Emitter) Emit(ctx context.Context, evt Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(evt.Channel) == "" {
		evt.Channel = e.cfg.Channel
	}
	return e.hooks.Notify(ctx, evt)
}

// LogHook writes events to a zap logger at info level.
func LogHook(log *zap.Logger) Hook {
	if log == nil {
		log = zap.NewNop()
	}
	return HookFunc(func(_ context.Context, evt Event) error {
		fields := []zap.Field{
			zap.String("verb", evt.Verb),
			zap.String("object_type", evt.ObjectType),
			zap.String("object_id", evt.ObjectID),
			zap.String("channel", evt.Channel),
			zap.Time("occurred_at", evt.OccurredAt),
		}
		if evt.ActorID != "" {
			fields = append(fields, zap.String("actor_id", evt.ActorID))
		}
		if len(evt.Metadata) > 0 {
			fields = append(fields, zap.Any("metadata", evt.Metadata))
		}
		log.Info("activity", fields...)
		return nil
	})
}

// CaptureHook keeps every event it receives. Safe for concurrent use.
type CaptureHook struct {
	mu     sync.Mutex
	Events []Event
}

func (c *CaptureHook) Notify(_ context.Context, evt Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Events = append(c.Events, evt)
	return nil
}
