package telemetry

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Recorder matches the Record contract shared by dashboard services, commands
// and studio moderation.
type Recorder interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// Logger writes every event as a structured debug entry.
type Logger struct {
	log *zap.Logger
}

// NewLogger wraps l; nil yields a no-op logger.
func NewLogger(l *zap.Logger) *Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &Logger{log: l}
}

func (t *Logger) Record(_ context.Context, event string, payload map[string]any) {
	fields := make([]zap.Field, 0, len(payload)+1)
	fields = append(fields, zap.String("event", event))
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, zap.Any(k, payload[k]))
	}
	t.log.Debug("telemetry", fields...)
}

// Metrics keeps Prometheus collectors on a private registry so tests and
// multiple servers never collide on the global one.
type Metrics struct {
	registry    *prometheus.Registry
	handler     http.Handler
	events      *prometheus.CounterVec
	apiDuration *prometheus.HistogramVec
	apiTotal    *prometheus.CounterVec
}

// NewMetrics registers the studio collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "studio_events_total",
		Help: "Dashboard and moderation events recorded by the studio",
	}, []string{"event"})

	apiDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "studio_api_request_duration_seconds",
		Help:    "Duration of backend API calls in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	apiTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "studio_api_requests_total",
		Help: "Total number of backend API calls",
	}, []string{"method", "path", "status"})

	registry.MustRegister(events, apiDuration, apiTotal)

	return &Metrics{
		registry:    registry,
		handler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		events:      events,
		apiDuration: apiDuration,
		apiTotal:    apiTotal,
	}
}

// Record counts the event by name. Payloads are not turned into labels.
func (m *Metrics) Record(_ context.Context, event string, _ map[string]any) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(event).Inc()
}

// ObserveAPICall records one backend round trip. Status 0 marks a transport
// failure.
func (m *Metrics) ObserveAPICall(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.apiDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
	m.apiTotal.WithLabelValues(method, path, code).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the private registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Multi fans an event out to several recorders.
type Multi []Recorder

func (m Multi) Record(ctx context.Context, event string, payload map[string]any) {
	for _, r := range m {
		if r != nil {
			r.Record(ctx, event, payload)
		}
	}
}
