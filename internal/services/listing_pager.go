package services

import (
	"context"
	"strings"
	"sync"

	"github.com/anashamdi123/3a9ari-sub001/internal/models"
)

// ListingSource is the read surface a pager needs. Satisfied by
// repositories.ListingRepository and by test fakes.
type ListingSource interface {
	CountListings(ctx context.Context, f models.ListingFilter) (int, error)
	ListListings(ctx context.Context, f models.ListingFilter, page, limit int) ([]models.Listing, error)
}

// ListingPager keeps a live, paginated view over the listings collection for
// one consumer. Pages are appended on load-more and replaced on refresh or
// filter change. A failed fetch records the error and keeps the rows already
// loaded, stale data beats a blank list.
type ListingPager struct {
	src ListingSource

	mu         sync.Mutex
	filter     models.ListingFilter
	rows       []models.Listing
	search     string
	page       int
	totalCount int
	hasMore    bool
	loading    bool
	refreshing bool
	err        error
}

func NewListingPager(src ListingSource, filter models.ListingFilter) *ListingPager {
	return &ListingPager{
		src:    src,
		filter: filter,
		page:   1,
	}
}

// Fetch loads one page. isLoadMore selects append-vs-replace semantics.
// Loading flags are cleared on every exit path.
func (p *ListingPager) Fetch(ctx context.Context, page int, isLoadMore bool) error {
	if page < 1 {
		page = 1
	}

	p.mu.Lock()
	p.loading = true
	filter := p.filter
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.loading = false
		p.refreshing = false
		p.mu.Unlock()
	}()

	total, err := p.src.CountListings(ctx, filter)
	if err != nil {
		p.setErr(err)
		return err
	}

	rows, err := p.src.ListListings(ctx, filter, page, PageSize)
	if err != nil {
		p.setErr(err)
		return err
	}

	p.mu.Lock()
	if isLoadMore {
		p.rows = append(p.rows, rows...)
	} else {
		p.rows = rows
	}
	p.totalCount = total
	p.page = page
	p.hasMore = len(rows) == PageSize
	p.err = nil
	p.mu.Unlock()
	return nil
}

func (p *ListingPager) setErr(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

// Refresh replaces the whole result set with page one.
func (p *ListingPager) Refresh(ctx context.Context) error {
	p.mu.Lock()
	p.refreshing = true
	p.mu.Unlock()
	return p.Fetch(ctx, 1, false)
}

// LoadMore fetches the next page. No-op while the end of data was reached or
// a fetch is in flight.
func (p *ListingPager) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	if !p.hasMore || p.loading {
		p.mu.Unlock()
		return nil
	}
	next := p.page + 1
	p.mu.Unlock()
	return p.Fetch(ctx, next, true)
}

// SetFilter swaps the filter when it differs structurally from the current
// one, resetting to page one and replacing the rows.
func (p *ListingPager) SetFilter(ctx context.Context, f models.ListingFilter) error {
	p.mu.Lock()
	if p.filter == f {
		p.mu.Unlock()
		return nil
	}
	p.filter = f
	p.mu.Unlock()
	return p.Fetch(ctx, 1, false)
}

// SetSearch updates the client-side search string. Purely local, it never
// issues a backend call and never changes pagination state.
func (p *ListingPager) SetSearch(q string) {
	p.mu.Lock()
	p.search = q
	p.mu.Unlock()
}

// Visible returns the loaded rows filtered case-insensitively by whether the
// search string is a substring of title, location, or description.
func (p *ListingPager) Visible() []models.Listing {
	p.mu.Lock()
	defer p.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(p.search))
	if q == "" {
		out := make([]models.Listing, len(p.rows))
		copy(out, p.rows)
		return out
	}

	var out []models.Listing
	for _, l := range p.rows {
		if strings.Contains(strings.ToLower(l.Title), q) ||
			strings.Contains(strings.ToLower(l.Location), q) ||
			strings.Contains(strings.ToLower(l.Description), q) {
			out = append(out, l)
		}
	}
	return out
}

func (p *ListingPager) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

func (p *ListingPager) TotalCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalCount
}

func (p *ListingPager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

func (p *ListingPager) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

func (p *ListingPager) Refreshing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refreshing
}

func (p *ListingPager) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}
