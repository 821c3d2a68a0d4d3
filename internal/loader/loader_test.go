package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item int

func (i item) ItemID() int { return int(i) }

type fetchCall struct {
	page  int
	query string
}

type response struct {
	page Page[item]
	err  error
}

// scriptedFetcher replays responses in order and records every call.
type scriptedFetcher struct {
	mu        sync.Mutex
	responses []response
	calls     []fetchCall
	onFetch   func(page int, query string)
}

func (f *scriptedFetcher) FetchPage(_ context.Context, page int, query string) (Page[item], error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{page: page, query: query})
	var resp response
	if len(f.responses) > 0 {
		resp = f.responses[0]
		f.responses = f.responses[1:]
	}
	hook := f.onFetch
	f.mu.Unlock()

	if hook != nil {
		hook(page, query)
	}
	return resp.page, resp.err
}

func (f *scriptedFetcher) Calls() []fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fetchCall(nil), f.calls...)
}

func makePage(start, n int, hasNext bool) Page[item] {
	items := make([]item, n)
	for i := range items {
		items[i] = item(start + i)
	}
	return Page[item]{Items: items, HasNext: hasNext}
}

func ok(p Page[item]) response { return response{page: p} }

func fail(err error) response { return response{err: err} }

func TestNew_StartsEmpty(t *testing.T) {
	l := New[item](&scriptedFetcher{})
	s := l.Snapshot()

	assert.Empty(t, s.Items)
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, "", s.Query)
	assert.False(t, s.Loading)
	assert.True(t, s.CanLoadMore)
	assert.Nil(t, s.Err)
}

func TestLoad_AppendsUntilTerminalPage(t *testing.T) {
	f := &scriptedFetcher{responses: []response{
		ok(makePage(1, 20, true)),
		ok(makePage(21, 5, false)),
	}}
	l := New[item](f)

	s := l.Load(context.Background(), false, nil)
	assert.Len(t, s.Items, 20)
	assert.True(t, s.CanLoadMore)
	assert.Equal(t, 2, s.Page)

	s = l.Load(context.Background(), false, nil)
	assert.Len(t, s.Items, 25)
	assert.False(t, s.CanLoadMore)
	assert.Equal(t, 2, s.Page, "terminal page does not advance the page counter")
	assert.False(t, s.Loading)
	assert.Equal(t, item(1), s.Items[0])
	assert.Equal(t, item(25), s.Items[24])

	assert.Equal(t, []fetchCall{{1, ""}, {2, ""}}, f.Calls())
}

func TestLoad_GrowsMonotonicallyWithUnchangedQuery(t *testing.T) {
	f := &scriptedFetcher{}
	for i := 0; i < 4; i++ {
		f.responses = append(f.responses, ok(makePage(i*10+1, 10, true)))
	}
	l := New[item](f)

	prevLen, prevPage := 0, 1
	for i := 0; i < 4; i++ {
		s := l.Load(context.Background(), false, nil)
		assert.Equal(t, prevLen+10, len(s.Items))
		assert.Equal(t, prevPage+1, s.Page)
		prevLen, prevPage = len(s.Items), s.Page
	}
}

func TestLoad_ResetClearsBeforeFetching(t *testing.T) {
	f := &scriptedFetcher{responses: []response{
		ok(makePage(1, 20, true)),
		ok(makePage(21, 5, false)),
		ok(makePage(1, 20, true)),
	}}
	l := New[item](f)
	l.Load(context.Background(), false, nil)
	l.Load(context.Background(), false, nil)
	require.Len(t, l.Snapshot().Items, 25)

	var seenDuringFetch State[item]
	f.onFetch = func(int, string) { seenDuringFetch = l.Snapshot() }

	s := l.Load(context.Background(), true, nil)

	assert.Empty(t, seenDuringFetch.Items)
	assert.True(t, seenDuringFetch.Loading)
	assert.Equal(t, 1, seenDuringFetch.Page)
	assert.True(t, seenDuringFetch.CanLoadMore)

	assert.Len(t, s.Items, 20)
	assert.Equal(t, 2, s.Page)
	assert.True(t, s.CanLoadMore)
	assert.Equal(t, fetchCall{1, ""}, f.Calls()[2])
}

func TestLoad_QueryChangeForcesReset(t *testing.T) {
	f := &scriptedFetcher{responses: []response{
		ok(makePage(1, 20, true)),
		ok(makePage(21, 20, true)),
		ok(makePage(100, 3, false)),
	}}
	l := New[item](f)
	l.Load(context.Background(), false, nil)
	l.Load(context.Background(), false, nil)

	s := l.Search(context.Background(), "rick")

	assert.Equal(t, "rick", s.Query)
	assert.Equal(t, []item{100, 101, 102}, s.Items)
	assert.Equal(t, 1, s.Page)
	assert.False(t, s.CanLoadMore)
	assert.Equal(t, fetchCall{1, "rick"}, f.Calls()[2])
}

func TestLoad_SameQueryAppends(t *testing.T) {
	f := &scriptedFetcher{responses: []response{
		ok(makePage(1, 20, true)),
		ok(makePage(21, 20, true)),
	}}
	l := New[item](f)

	l.Search(context.Background(), "morty")
	s := l.Search(context.Background(), "morty")

	assert.Len(t, s.Items, 40)
	assert.Equal(t, 3, s.Page)
	assert.Equal(t, []fetchCall{{1, "morty"}, {2, "morty"}}, f.Calls())
}

func TestLoad_NilQueryKeepsCurrentQuery(t *testing.T) {
	f := &scriptedFetcher{responses: []response{
		ok(makePage(1, 20, true)),
		ok(makePage(21, 20, true)),
	}}
	l := New[item](f)

	l.Search(context.Background(), "summer")
	s := l.Load(context.Background(), false, nil)

	assert.Equal(t, "summer", s.Query)
	assert.Equal(t, fetchCall{2, "summer"}, f.Calls()[1])
}

func TestLoad_WhileLoadingIsNoOp(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	f := &scriptedFetcher{responses: []response{ok(makePage(1, 20, true))}}
	f.onFetch = func(int, string) {
		close(entered)
		<-release
	}
	l := New[item](f)

	done := make(chan State[item])
	go func() { done <- l.Load(context.Background(), false, nil) }()
	<-entered

	before := l.Snapshot()
	require.True(t, before.Loading)

	during := l.Load(context.Background(), true, nil)
	assert.Equal(t, before, during)
	query := "other"
	during = l.Load(context.Background(), false, &query)
	assert.Equal(t, before, during)
	_, triggered := l.LoadMoreIfNeeded(context.Background(), 1)
	assert.False(t, triggered)
	assert.Len(t, f.Calls(), 1)

	close(release)
	select {
	case s := <-done:
		assert.False(t, s.Loading)
		assert.Len(t, s.Items, 20)
	case <-time.After(2 * time.Second):
		t.Fatal("first load did not complete")
	}
	assert.Len(t, f.Calls(), 1)
}

func TestLoad_FailureClassification(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		wantKind        Kind
		wantCanLoadMore bool
	}{
		{"not found", NewError(KindNotFound, errors.New("404")), KindNotFound, false},
		{"transport", NewError(KindTransport, errors.New("connection refused")), KindTransport, true},
		{"decode", NewError(KindDecode, errors.New("unexpected token")), KindDecode, true},
		{"invalid request", NewError(KindInvalidRequest, errors.New("bad page")), KindInvalidRequest, true},
		{"wrapped transport", fmt.Errorf("fetch: %w", NewError(KindTransport, errors.New("eof"))), KindTransport, true},
		{"deadline", context.DeadlineExceeded, KindTransport, true},
		{"plain", errors.New("boom"), KindUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &scriptedFetcher{responses: []response{fail(tt.err)}}
			l := New[item](f)

			s := l.Search(context.Background(), "xyz")

			require.NotNil(t, s.Err)
			assert.Equal(t, tt.wantKind, s.Err.Kind)
			assert.Equal(t, tt.wantCanLoadMore, s.CanLoadMore)
			assert.False(t, s.Loading)
			assert.Empty(t, s.Items)
			assert.Equal(t, 1, s.Page)
			assert.NotEmpty(t, s.Err.Message())
		})
	}
}

func TestLoad_FailureKeepsAccumulatedItems(t *testing.T) {
	f := &scriptedFetcher{responses: []response{
		ok(makePage(1, 20, true)),
		fail(NewError(KindTransport, errors.New("timeout"))),
		ok(makePage(21, 20, true)),
	}}
	l := New[item](f)
	l.Load(context.Background(), false, nil)

	s := l.Load(context.Background(), false, nil)
	assert.Len(t, s.Items, 20)
	assert.Equal(t, 2, s.Page)
	assert.True(t, s.CanLoadMore)
	require.NotNil(t, s.Err)

	s = l.Load(context.Background(), false, nil)
	assert.Nil(t, s.Err, "a new load clears the previous error")
	assert.Len(t, s.Items, 40)
	assert.Equal(t, fetchCall{2, ""}, f.Calls()[2])
}

func TestLoad_EmptyFirstPageIsNotFound(t *testing.T) {
	f := &scriptedFetcher{responses: []response{ok(Page[item]{})}}
	l := New[item](f)

	s := l.Search(context.Background(), "nobody")

	require.NotNil(t, s.Err)
	assert.Equal(t, KindNotFound, s.Err.Kind)
	assert.Contains(t, s.Err.Message(), "nobody")
	assert.False(t, s.CanLoadMore)
}

func TestLoad_EmptyFirstPageWithNextKeepsPaging(t *testing.T) {
	f := &scriptedFetcher{responses: []response{
		ok(Page[item]{HasNext: true}),
		ok(makePage(1, 3, false)),
	}}
	l := New[item](f)

	s := l.Load(context.Background(), false, nil)
	assert.Nil(t, s.Err)
	assert.True(t, s.CanLoadMore)
	assert.Equal(t, 2, s.Page)

	s = l.Load(context.Background(), false, nil)
	assert.Nil(t, s.Err)
	assert.Len(t, s.Items, 3)
	assert.False(t, s.CanLoadMore)
}

func TestLoad_NotFoundThenNewQueryCanLoadAgain(t *testing.T) {
	f := &scriptedFetcher{responses: []response{
		fail(NewError(KindNotFound, nil)),
		ok(makePage(1, 20, true)),
	}}
	l := New[item](f)

	s := l.Search(context.Background(), "zzz")
	require.False(t, s.CanLoadMore)

	s = l.Search(context.Background(), "rick")
	assert.True(t, s.CanLoadMore)
	assert.Nil(t, s.Err)
	assert.Len(t, s.Items, 20)
}

func TestRefresh_ClearsQueryAndReloads(t *testing.T) {
	f := &scriptedFetcher{responses: []response{
		ok(makePage(1, 3, false)),
		ok(makePage(1, 20, true)),
	}}
	l := New[item](f)
	l.Search(context.Background(), "beth")

	s := l.Refresh(context.Background())

	assert.Equal(t, "", s.Query)
	assert.Len(t, s.Items, 20)
	assert.True(t, s.CanLoadMore)
	assert.Equal(t, fetchCall{1, ""}, f.Calls()[1])
}

func TestRefresh_WithoutQueryStillResets(t *testing.T) {
	f := &scriptedFetcher{responses: []response{
		ok(makePage(1, 20, true)),
		ok(makePage(1, 20, true)),
	}}
	l := New[item](f)
	l.Load(context.Background(), false, nil)

	s := l.Refresh(context.Background())

	assert.Len(t, s.Items, 20)
	assert.Equal(t, []fetchCall{{1, ""}, {1, ""}}, f.Calls())
}

func TestLoadMoreIfNeeded_TriggersInsideTrailingWindow(t *testing.T) {
	f := &scriptedFetcher{responses: []response{
		ok(makePage(1, 20, true)),
		ok(makePage(21, 20, true)),
	}}
	l := New[item](f)
	l.Load(context.Background(), false, nil)

	// Item 15 sits at index 14, one outside the window.
	s, triggered := l.LoadMoreIfNeeded(context.Background(), 15)
	assert.False(t, triggered)
	assert.Len(t, s.Items, 20)
	assert.Len(t, f.Calls(), 1)

	// Item 16 sits at index 15 == count-5.
	s, triggered = l.LoadMoreIfNeeded(context.Background(), 16)
	assert.True(t, triggered)
	assert.Len(t, s.Items, 40)
	assert.Len(t, f.Calls(), 2)
}

func TestLoadMoreIfNeeded_SkipsUnknownAndExhausted(t *testing.T) {
	f := &scriptedFetcher{responses: []response{ok(makePage(1, 20, false))}}
	l := New[item](f)
	l.Load(context.Background(), false, nil)

	_, triggered := l.LoadMoreIfNeeded(context.Background(), 999)
	assert.False(t, triggered)

	_, triggered = l.LoadMoreIfNeeded(context.Background(), 20)
	assert.False(t, triggered, "no more pages")
	assert.Len(t, f.Calls(), 1)
}

func TestLoadMoreIfNeeded_ShortListAlwaysQualifies(t *testing.T) {
	f := &scriptedFetcher{responses: []response{
		ok(makePage(1, 3, true)),
		ok(makePage(4, 3, true)),
	}}
	l := New[item](f)
	l.Load(context.Background(), false, nil)

	_, triggered := l.LoadMoreIfNeeded(context.Background(), 1)
	assert.True(t, triggered)
}

func TestShouldLoadMore_MatchesWindowWithoutFetching(t *testing.T) {
	f := &scriptedFetcher{responses: []response{ok(makePage(1, 20, true))}}
	l := New[item](f)

	assert.False(t, l.ShouldLoadMore(1), "nothing loaded yet")

	l.Load(context.Background(), false, nil)
	assert.False(t, l.ShouldLoadMore(15))
	assert.True(t, l.ShouldLoadMore(16))
	assert.True(t, l.ShouldLoadMore(20))
	assert.False(t, l.ShouldLoadMore(999))
	assert.Len(t, f.Calls(), 1)
}

func TestLoadMoreIfNeeded_CustomDistance(t *testing.T) {
	f := &scriptedFetcher{responses: []response{
		ok(makePage(1, 20, true)),
		ok(makePage(21, 20, true)),
	}}
	l := New[item](f, WithPrefetchDistance(2))
	l.Load(context.Background(), false, nil)

	_, triggered := l.LoadMoreIfNeeded(context.Background(), 16)
	assert.False(t, triggered)
	_, triggered = l.LoadMoreIfNeeded(context.Background(), 19)
	assert.True(t, triggered)
}

func TestLoad_PanickingFetcherClearsLoading(t *testing.T) {
	l := New[item](FetcherFunc[item](func(context.Context, int, string) (Page[item], error) {
		panic("fetcher exploded")
	}))

	assert.Panics(t, func() { l.Load(context.Background(), false, nil) })
	assert.False(t, l.Snapshot().Loading)
}

func TestSnapshot_IsIndependentCopy(t *testing.T) {
	f := &scriptedFetcher{responses: []response{ok(makePage(1, 3, true))}}
	l := New[item](f)
	l.Load(context.Background(), false, nil)

	snap := l.Snapshot()
	snap.Items[0] = 42

	assert.Equal(t, item(1), l.Snapshot().Items[0])
}
