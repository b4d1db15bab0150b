package studio

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Fetcher loads a full collection from the backend.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Fields returns the searchable text of a record.
type Fields[T any] func(T) []string

// ListingConfig wires a Listing.
type ListingConfig[T any] struct {
	Name   string
	Fetch  Fetcher[T]
	Fields Fields[T]
	// Key identifies a record when patching. Optional.
	Key    func(T) string
	Logger *zap.Logger
}

// Listing is the transient state of one listing page: the fetched collection,
// the query, and the filtered view derived from both. Fetched records are
// never modified in place.
type Listing[T any] struct {
	cfg ListingConfig[T]
	log *zap.Logger

	mu      sync.RWMutex
	all     []T
	view    []T
	query   string
	loading bool
	err     error
}

// NewListing builds an empty listing.
func NewListing[T any](cfg ListingConfig[T]) *Listing[T] {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Listing[T]{cfg: cfg, log: log.With(zap.String("listing", cfg.Name))}
}

// Load fetches the collection. On failure the listing falls back to an empty
// collection, logs the error and returns it.
func (l *Listing[T]) Load(ctx context.Context) error {
	l.mu.Lock()
	l.loading = true
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		l.loading = false
		l.mu.Unlock()
	}()

	var (
		items []T
		err   error
	)
	if l.cfg.Fetch == nil {
		err = errNoFetcher
	} else {
		items, err = l.cfg.Fetch(ctx)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
	if err != nil {
		l.log.Error("listing fetch failed", zap.Error(err))
		l.all = nil
		l.view = nil
		return err
	}
	l.all = items
	l.view = Filter(items, l.query, l.cfg.Fields)
	l.log.Debug("listing loaded", zap.Int("total", len(items)), zap.Int("shown", len(l.view)))
	return nil
}

// SetQuery recomputes the filtered view. A blank query restores the full
// collection.
func (l *Listing[T]) SetQuery(query string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.query = query
	l.view = Filter(l.all, query, l.cfg.Fields)
}

// Patch swaps the record sharing updated's key in both the collection and the
// view. It copies the slices instead of writing into them.
func (l *Listing[T]) Patch(updated T) bool {
	if l.cfg.Key == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	all, found := Replace(l.all, l.cfg.Key, updated)
	if !found {
		return false
	}
	l.all = all
	l.view = Filter(all, l.query, l.cfg.Fields)
	return true
}

// Remove drops the record with id from the collection and the view.
func (l *Listing[T]) Remove(id string) bool {
	if l.cfg.Key == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	all, found := Without(l.all, l.cfg.Key, id)
	if !found {
		return false
	}
	l.all = all
	l.view = Filter(all, l.query, l.cfg.Fields)
	return true
}

// Items returns the filtered view.
func (l *Listing[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T(nil), l.view...)
}

// All returns the unfiltered collection.
func (l *Listing[T]) All() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]T(nil), l.all...)
}

func (l *Listing[T]) Query() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.query
}

func (l *Listing[T]) Loading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loading
}

// Err is the error of the last Load, if any.
func (l *Listing[T]) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

func (l *Listing[T]) Name() string {
	return l.cfg.Name
}

// Filter keeps the items where any field contains query, ignoring case. A
// blank query returns items unchanged.
func Filter[T any](items []T, query string, fields Fields[T]) []T {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" || fields == nil {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fields(item) {
			if strings.Contains(strings.ToLower(field), needle) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// Replace returns a copy of items with the element keyed like updated swapped
// for it.
func Replace[T any](items []T, key func(T) string, updated T) ([]T, bool) {
	id := key(updated)
	for i, item := range items {
		if key(item) == id {
			out := append([]T(nil), items...)
			out[i] = updated
			return out, true
		}
	}
	return items, false
}

// Without returns a copy of items minus the element keyed id.
func Without[T any](items []T, key func(T) string, id string) ([]T, bool) {
	for i, item := range items {
		if key(item) == id {
			out := make([]T, 0, len(items)-1)
			out = append(out, items[:i]...)
			return append(out, items[i+1:]...), true
		}
	}
	return items, false
}

// PersonFields searches name, email, role, city and country.
func PersonFields(p Person) []string {
	return []string{p.Name, p.Email, string(p.Role), p.City, p.Country}
}

// ContentFields searches title, excerpt, author, status and tags.
func ContentFields(c ContentItem) []string {
	fields := []string{c.Title, c.Excerpt, c.AuthorName, string(c.Status)}
	return append(fields, c.Tags...)
}

// CommentFields searches name, email and text.
func CommentFields(c Comment) []string {
	return []string{c.Name, c.Email, c.Text}
}

// RecordingFields searches title, vocalist, type, status and location.
func RecordingFields(r RecordingRequest) []string {
	return []string{r.Title, r.VocalistName, string(r.Type), string(r.Status), r.Location}
}

func personKey(p Person) string              { return p.ID }
func contentKey(c ContentItem) string        { return c.ID }
func commentKey(c Comment) string            { return c.ID }
func recordingKey(r RecordingRequest) string { return r.ID }
