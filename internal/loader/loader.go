package loader

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultPrefetchDistance is how close to the end of the list a visible item
// must be before LoadMoreIfNeeded fetches the next page.
const DefaultPrefetchDistance = 5

// Item is anything with a stable integer identity.
type Item interface {
	ItemID() int
}

// Page is one fetch's worth of items. HasNext is false on the last page.
type Page[T Item] struct {
	Items   []T
	HasNext bool
}

// Fetcher retrieves a single page of items for a query. Page numbers start at 1.
type Fetcher[T Item] interface {
	FetchPage(ctx context.Context, page int, query string) (Page[T], error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc[T Item] func(ctx context.Context, page int, query string) (Page[T], error)

// FetchPage calls f.
func (f FetcherFunc[T]) FetchPage(ctx context.Context, page int, query string) (Page[T], error) {
	return f(ctx, page, query)
}

// State is the loader's view of the accumulated list.
type State[T Item] struct {
	Items       []T
	Page        int
	Query       string
	Loading     bool
	CanLoadMore bool
	Err         *FetchError
}

// Len returns the number of accumulated items.
func (s State[T]) Len() int {
	return len(s.Items)
}

// IndexOf returns the position of the item with id, or -1.
func (s State[T]) IndexOf(id int) int {
	for i, item := range s.Items {
		if item.ItemID() == id {
			return i
		}
	}
	return -1
}

// Option configures a Loader.
type Option func(*settings)

type settings struct {
	distance int
	logger   zerolog.Logger
	name     string
}

// WithPrefetchDistance overrides DefaultPrefetchDistance. Values below 1 are ignored.
func WithPrefetchDistance(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.distance = n
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithName labels log lines with the source being loaded.
func WithName(name string) Option {
	return func(s *settings) {
		s.name = name
	}
}

// Loader accumulates pages from a Fetcher. At most one fetch runs at a time;
// calls made while a fetch is in flight return immediately without queueing.
// Only the loader mutates its state; callers observe it through Snapshot or
// the State values returned by each operation.
type Loader[T Item] struct {
	fetcher  Fetcher[T]
	distance int
	logger   zerolog.Logger

	mu    sync.Mutex
	state State[T]
}

// New builds a Loader with an empty state.
func New[T Item](fetcher Fetcher[T], opts ...Option) *Loader[T] {
	cfg := settings{distance: DefaultPrefetchDistance, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger
	if cfg.name != "" {
		logger = logger.With().Str("source", cfg.name).Logger()
	}
	return &Loader[T]{
		fetcher:  fetcher,
		distance: cfg.distance,
		logger:   logger,
		state:    State[T]{Page: 1, CanLoadMore: true},
	}
}

// Load fetches the next page. reset discards the accumulated list and starts
// again from page 1. A non-nil query that differs from the current query also
// forces a reset. Failures are recorded in State.Err and never returned.
func (l *Loader[T]) Load(ctx context.Context, reset bool, query *string) State[T] {
	state, _ := l.load(ctx, reset, query)
	return state
}

// Search is Load with a query and no explicit reset.
func (l *Loader[T]) Search(ctx context.Context, query string) State[T] {
	return l.Load(ctx, false, &query)
}

// Refresh clears any active query and reloads from the first page.
func (l *Loader[T]) Refresh(ctx context.Context) State[T] {
	empty := ""
	return l.Load(ctx, true, &empty)
}

// LoadMoreIfNeeded fetches the next page when the item with visibleID sits
// within the prefetch distance of the end of the list. It reports whether a
// fetch was performed.
func (l *Loader[T]) LoadMoreIfNeeded(ctx context.Context, visibleID int) (State[T], bool) {
	if !l.ShouldLoadMore(visibleID) {
		return l.Snapshot(), false
	}
	return l.load(ctx, false, nil)
}

// ShouldLoadMore reports whether LoadMoreIfNeeded would fetch for visibleID
// right now. It never blocks on the fetcher.
func (l *Loader[T]) ShouldLoadMore(visibleID int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.state.CanLoadMore || l.state.Loading {
		return false
	}
	idx := l.state.IndexOf(visibleID)
	return idx >= 0 && idx >= len(l.state.Items)-l.distance
}

// Snapshot returns a copy of the current state.
func (l *Loader[T]) Snapshot() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Loader[T]) snapshotLocked() State[T] {
	snap := l.state
	if len(l.state.Items) > 0 {
		snap.Items = make([]T, len(l.state.Items))
		copy(snap.Items, l.state.Items)
	} else {
		snap.Items = nil
	}
	return snap
}

func (l *Loader[T]) load(ctx context.Context, reset bool, query *string) (State[T], bool) {
	page, q, ok := l.begin(reset, query)
	if !ok {
		l.logger.Debug().Msg("load skipped, fetch already in flight")
		return l.Snapshot(), false
	}

	// A panicking fetcher must not leave the loader stuck in the loading state.
	finished := false
	defer func() {
		if !finished {
			l.mu.Lock()
			l.state.Loading = false
			l.mu.Unlock()
		}
	}()

	l.logger.Debug().Int("page", page).Str("query", q).Msg("fetching page")
	result, err := l.fetcher.FetchPage(ctx, page, q)
	state := l.finish(page, q, result, err)
	finished = true
	return state, true
}

// begin performs the guarded transition into the loading state and returns
// the page and query to fetch.
func (l *Loader[T]) begin(reset bool, query *string) (int, string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.Loading {
		return 0, "", false
	}

	if query != nil && *query != l.state.Query {
		l.state.Query = *query
		reset = true
	}
	if reset {
		l.state.Items = nil
		l.state.Page = 1
		l.state.CanLoadMore = true
	}

	l.state.Loading = true
	l.state.Err = nil
	return l.state.Page, l.state.Query, true
}

func (l *Loader[T]) finish(page int, query string, result Page[T], err error) State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err != nil {
		fe := Classify(err, query)
		l.state.Err = fe
		if fe.Kind == KindNotFound {
			l.state.CanLoadMore = false
		}
		l.logger.Warn().Err(fe.Err).Str("kind", fe.Kind.String()).Int("page", page).Str("query", query).Msg("page fetch failed")
		l.state.Loading = false
		return l.snapshotLocked()
	}

	l.state.Items = append(l.state.Items, result.Items...)
	if !result.HasNext {
		l.state.CanLoadMore = false
	} else {
		l.state.Page = page + 1
	}

	// An empty first page that also claims to be the last is a search with
	// no matches. A fetcher reporting more pages is trusted.
	if page == 1 && len(l.state.Items) == 0 && !result.HasNext {
		l.state.Err = &FetchError{Kind: KindNotFound, Query: query}
		l.state.CanLoadMore = false
	}

	l.logger.Debug().
		Int("page", page).
		Int("received", len(result.Items)).
		Int("total", len(l.state.Items)).
		Bool("has_next", result.HasNext).
		Msg("page loaded")

	l.state.Loading = false
	return l.snapshotLocked()
}
