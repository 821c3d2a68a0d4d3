// Package source binds each browsable catalogue to a loader and projects its
// items into rows and details the presenter can draw without knowing the
// concrete item type.
package source

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/five82/roster/internal/loader"
)

// ErrNoFavorites is returned by ToggleFavorite when no store is attached.
var ErrNoFavorites = errors.New("favorites unavailable")

// FavoriteBadge marks starred rows.
const FavoriteBadge = "★"

// Row is one list line.
type Row struct {
	ID       int
	Title    string
	Subtitle string
	Badge    string
}

// Tone hints how a detail value should be coloured.
type Tone int

const (
	ToneNormal Tone = iota
	ToneGood
	ToneBad
	ToneMuted
)

// Field is a labelled detail value.
type Field struct {
	Label string
	Value string
	Tone  Tone
}

// Detail describes the selected item.
type Detail struct {
	Title    string
	Subtitle string
	ImageURL string
	Fields   []Field
}

// View is a loader state projected into rows.
type View struct {
	Rows        []Row
	Page        int
	Query       string
	Loading     bool
	CanLoadMore bool
	Err         *loader.FetchError
}

// Len returns the number of rows.
func (v View) Len() int {
	return len(v.Rows)
}

// IndexOf returns the position of the row with id, or -1.
func (v View) IndexOf(id int) int {
	for i, row := range v.Rows {
		if row.ID == id {
			return i
		}
	}
	return -1
}

// Source is a browsable catalogue.
type Source interface {
	Name() string
	Title() string
	Load(ctx context.Context, reset bool, query *string) View
	Search(ctx context.Context, query string) View
	Refresh(ctx context.Context) View
	LoadMoreIfNeeded(ctx context.Context, visibleID int) (View, bool)
	ShouldLoadMore(visibleID int) bool
	Snapshot() View
	Detail(ctx context.Context, id int) (Detail, error)
	ToggleFavorite(id int) (bool, error)
}

// Favorites is the subset of the favourites store a catalogue needs.
type Favorites interface {
	Toggle(source string, id int, name string) (bool, error)
	IDs(source string) (map[int]bool, error)
}

// RowFunc projects an item into a list row. Badge is filled in by the catalogue.
type RowFunc[T loader.Item] func(T) Row

// DetailFunc produces the detail for an item, possibly over the network.
type DetailFunc[T loader.Item] func(ctx context.Context, item T) (Detail, error)

// Option configures a Catalog.
type Option func(*options)

type options struct {
	favorites  Favorites
	logger     zerolog.Logger
	loaderOpts []loader.Option
}

// WithFavorites attaches a favourites store.
func WithFavorites(f Favorites) Option {
	return func(o *options) {
		o.favorites = f
	}
}

// WithLogger sets the logger shared by the catalogue and its loader.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLoaderOptions passes options through to the underlying loader.
func WithLoaderOptions(opts ...loader.Option) Option {
	return func(o *options) {
		o.loaderOpts = append(o.loaderOpts, opts...)
	}
}

// Catalog is a Source over items of type T. Details are cached per id once
// they load successfully.
type Catalog[T loader.Item] struct {
	name      string
	title     string
	loader    *loader.Loader[T]
	row       RowFunc[T]
	detail    DetailFunc[T]
	favorites Favorites
	logger    zerolog.Logger

	mu      sync.Mutex
	details map[int]Detail
}

// NewCatalog builds a catalogue named name around fetcher.
func NewCatalog[T loader.Item](name, title string, fetcher loader.Fetcher[T], row RowFunc[T], detail DetailFunc[T], opts ...Option) *Catalog[T] {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger.With().Str("component", "source").Str("source", name).Logger()
	loaderOpts := append([]loader.Option{loader.WithLogger(o.logger), loader.WithName(name)}, o.loaderOpts...)
	return &Catalog[T]{
		name:      name,
		title:     title,
		loader:    loader.New(fetcher, loaderOpts...),
		row:       row,
		detail:    detail,
		favorites: o.favorites,
		logger:    logger,
		details:   make(map[int]Detail),
	}
}

func (c *Catalog[T]) Name() string  { return c.name }
func (c *Catalog[T]) Title() string { return c.title }

func (c *Catalog[T]) Load(ctx context.Context, reset bool, query *string) View {
	return c.view(c.loader.Load(ctx, reset, query))
}

func (c *Catalog[T]) Search(ctx context.Context, query string) View {
	return c.view(c.loader.Search(ctx, query))
}

func (c *Catalog[T]) Refresh(ctx context.Context) View {
	return c.view(c.loader.Refresh(ctx))
}

func (c *Catalog[T]) LoadMoreIfNeeded(ctx context.Context, visibleID int) (View, bool) {
	state, fetched := c.loader.LoadMoreIfNeeded(ctx, visibleID)
	return c.view(state), fetched
}

func (c *Catalog[T]) ShouldLoadMore(visibleID int) bool {
	return c.loader.ShouldLoadMore(visibleID)
}

func (c *Catalog[T]) Snapshot() View {
	return c.view(c.loader.Snapshot())
}

// Detail returns the detail for a loaded item.
func (c *Catalog[T]) Detail(ctx context.Context, id int) (Detail, error) {
	c.mu.Lock()
	cached, ok := c.details[id]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	item, ok := c.item(id)
	if !ok {
		return Detail{}, loader.NewError(loader.KindNotFound, fmt.Errorf("%s item %d is not loaded", c.name, id))
	}
	if c.detail == nil {
		return c.fallbackDetail(item), nil
	}

	d, err := c.detail(ctx, item)
	if err != nil {
		c.logger.Warn().Err(err).Int("id", id).Msg("detail fetch failed")
		return Detail{}, err
	}

	c.mu.Lock()
	c.details[id] = d
	c.mu.Unlock()
	return d, nil
}

// ToggleFavorite stars or unstars a loaded item and returns the new state.
func (c *Catalog[T]) ToggleFavorite(id int) (bool, error) {
	if c.favorites == nil {
		return false, ErrNoFavorites
	}
	item, ok := c.item(id)
	if !ok {
		return false, fmt.Errorf("toggle favorite: %s item %d is not loaded", c.name, id)
	}
	starred, err := c.favorites.Toggle(c.name, id, c.row(item).Title)
	if err != nil {
		return false, err
	}
	c.logger.Info().Int("id", id).Bool("starred", starred).Msg("favorite toggled")
	return starred, nil
}

func (c *Catalog[T]) item(id int) (T, bool) {
	state := c.loader.Snapshot()
	if idx := state.IndexOf(id); idx >= 0 {
		return state.Items[idx], true
	}
	var zero T
	return zero, false
}

func (c *Catalog[T]) fallbackDetail(item T) Detail {
	r := c.row(item)
	return Detail{Title: r.Title, Subtitle: r.Subtitle}
}

func (c *Catalog[T]) view(state loader.State[T]) View {
	var starred map[int]bool
	if c.favorites != nil {
		ids, err := c.favorites.IDs(c.name)
		if err != nil {
			c.logger.Warn().Err(err).Msg("read favorites")
		}
		starred = ids
	}

	v := View{
		Page:        state.Page,
		Query:       state.Query,
		Loading:     state.Loading,
		CanLoadMore: state.CanLoadMore,
		Err:         state.Err,
	}
	if len(state.Items) > 0 {
		v.Rows = make([]Row, len(state.Items))
		for i, item := range state.Items {
			r := c.row(item)
			r.ID = item.ItemID()
			if starred[r.ID] {
				r.Badge = FavoriteBadge
			}
			v.Rows[i] = r
		}
	}
	return v
}
