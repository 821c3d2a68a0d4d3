package pokeapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/five82/roster/internal/loader"
)

const (
	// DefaultPageSize is how many entries one page holds.
	DefaultPageSize = 20
	// DefaultLimit caps browsing at the original 151.
	DefaultLimit = 151
)

// Pager adapts the offset-based index to numbered pages for a loader. Pages
// never extend past Limit; a Limit of zero browses the whole index.
type Pager struct {
	client   *Client
	pageSize int
	limit    int
}

var _ loader.Fetcher[Entry] = (*Pager)(nil)

// NewPager builds a Pager. Non-positive sizes fall back to defaults; a negative
// limit means unlimited.
func NewPager(client *Client, pageSize, limit int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 0 {
		limit = 0
	}
	return &Pager{client: client, pageSize: pageSize, limit: limit}
}

// FetchPage implements loader.Fetcher. A non-empty query is an exact name (or
// dex number) lookup yielding at most one entry.
func (p *Pager) FetchPage(ctx context.Context, page int, query string) (loader.Page[Entry], error) {
	if page < 1 {
		return loader.Page[Entry]{}, loader.NewError(loader.KindInvalidRequest, fmt.Errorf("page %d out of range", page))
	}
	if q := strings.TrimSpace(query); q != "" {
		return p.lookup(ctx, q)
	}

	offset := (page - 1) * p.pageSize
	size := p.pageSize
	if p.limit > 0 {
		if offset >= p.limit {
			return loader.Page[Entry]{}, nil
		}
		size = min(size, p.limit-offset)
	}

	resp, err := p.client.FetchList(ctx, offset, size)
	if err != nil {
		return loader.Page[Entry]{}, err
	}
	hasNext := resp.Next != nil
	if p.limit > 0 && offset+size >= p.limit {
		hasNext = false
	}
	return loader.Page[Entry]{Items: resp.Results, HasNext: hasNext}, nil
}

func (p *Pager) lookup(ctx context.Context, query string) (loader.Page[Entry], error) {
	detail, err := p.client.FetchDetail(ctx, query)
	if err != nil {
		return loader.Page[Entry]{}, err
	}
	if p.limit > 0 && detail.ID > p.limit {
		return loader.Page[Entry]{}, loader.NewError(loader.KindNotFound,
			fmt.Errorf("%s is outside the first %d", detail.Name, p.limit))
	}
	entry := Entry{Name: detail.Name, URL: p.client.EntryURL(detail.ID)}
	return loader.Page[Entry]{Items: []Entry{entry}}, nil
}
