package catalog

import (
	"context"
)

// PageFetcher is satisfied by *Service.
type PageFetcher interface {
	ListPage(ctx context.Context, q ListQuery) (Page, error)
	DefaultPageSize() int
}

// History walks a listing page by page for one caller. It keeps the cursor
// produced by every visited page, indexed by page number, so page N is
// fetched with the cursor of page N-1. There is no random seek: pages are
// reached by Next, and Previous re-fetches a page already visited.
type History struct {
	fetcher PageFetcher
	query   ListQuery
	cursors []string
	page    int
	current *Page
}

func NewHistory(fetcher PageFetcher, q ListQuery) *History {
	q.Cursor = ""
	return &History{fetcher: fetcher, query: q}
}

func (h *History) Page() int {
	return h.page
}

func (h *History) Query() ListQuery {
	return h.query
}

// Cursors returns a copy of the retained cursors.
func (h *History) Cursors() []string {
	out := make([]string, len(h.cursors))
	copy(out, h.cursors)
	return out
}

// SetQuery switches to q. Any change of owner, search, status, page size,
// sort or order drops every retained cursor and returns to page 0; the
// return value reports whether that happened.
func (h *History) SetQuery(q ListQuery) bool {
	q.Cursor = ""
	if q.SameShape(h.query, h.fetcher.DefaultPageSize()) {
		return false
	}
	h.query = q
	h.Reset()
	return true
}

func (h *History) Reset() {
	h.cursors = nil
	h.page = 0
	h.current = nil
}

// Load fetches the current page again, e.g. after a write.
func (h *History) Load(ctx context.Context) (Page, error) {
	return h.fetch(ctx)
}

func (h *History) Next(ctx context.Context) (Page, error) {
	if h.current == nil {
		return Page{}, ErrPageNotReady
	}
	if !h.current.HasMore || h.current.NextCursor == "" {
		return Page{}, ErrNoMorePages
	}
	h.page++
	page, err := h.fetch(ctx)
	if err != nil {
		h.page--
		return Page{}, err
	}
	return page, nil
}

func (h *History) Previous(ctx context.Context) (Page, error) {
	if h.page == 0 {
		return Page{}, ErrFirstPage
	}
	h.page--
	page, err := h.fetch(ctx)
	if err != nil {
		h.page++
		return Page{}, err
	}
	return page, nil
}

func (h *History) fetch(ctx context.Context) (Page, error) {
	q := h.query
	if h.page > 0 {
		q.Cursor = h.cursors[h.page-1]
	}
	page, err := h.fetcher.ListPage(ctx, q)
	if err != nil {
		return Page{}, err
	}
	for len(h.cursors) <= h.page {
		h.cursors = append(h.cursors, "")
	}
	h.cursors[h.page] = page.NextCursor
	h.current = &page
	return page, nil
}
