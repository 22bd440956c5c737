// Package explore drives the paginated, filterable book listing: it tracks
// the offset cursor, the accumulated result sequence and the server's
// has-more flag across incremental page loads.
package explore

import (
	"context"
	"sync"

	"bookoracle/pkg/api"
	"bookoracle/pkg/domain"
)

// DefaultPageSize matches the page size the web client requests.
const DefaultPageSize = 10

// Pager is the single listing operation the controller needs.
type Pager interface {
	ExploreBooks(ctx context.Context, params api.ExploreParams) (domain.ExplorePage, error)
}

// Controller accumulates explore pages. Changing filters goes through Load,
// which discards all accumulated state; LoadMore only ever appends within
// the current filter context.
type Controller struct {
	pager    Pager
	pageSize int

	mu       sync.Mutex
	inFlight bool
	gen      int
	filters  api.ExploreFilters
	offset   int
	items    []domain.Book
	hasMore  bool
	total    int
}

// NewController creates a controller with the given page size (DefaultPageSize
// when zero or negative).
func NewController(pager Pager, pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller{pager: pager, pageSize: pageSize}
}

// Load resets pagination state and fetches the first page for the given
// filters. Prior accumulated items are discarded regardless of prior state:
// a Load issued while another request is pending supersedes it, and the
// superseded result is dropped on arrival. On failure the controller is left
// empty so a retry starts clean.
func (c *Controller) Load(ctx context.Context, filters api.ExploreFilters) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.inFlight = true
	c.filters = filters
	c.offset = 0
	c.items = nil
	c.hasMore = false
	c.total = 0
	c.mu.Unlock()

	page, err := c.pager.ExploreBooks(ctx, api.ExploreParams{
		Offset:  0,
		Limit:   c.pageSize,
		Filters: filters,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// A newer Load took over while this one was in flight.
		return nil
	}
	c.inFlight = false
	if err != nil {
		return err
	}
	c.items = page.Books
	c.hasMore = page.HasMore
	c.total = page.TotalCount
	c.offset = c.pageSize
	return nil
}

// LoadMore fetches the next page with the current filters and appends it.
// It is a no-op while another load is in flight or when the server reported
// no further pages; re-entrant calls therefore cause neither duplicate
// appends nor offset drift. The offset advances by the page size requested,
// not by the number of items returned.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight || !c.hasMore {
		c.mu.Unlock()
		return nil
	}
	c.inFlight = true
	gen := c.gen
	offset := c.offset
	filters := c.filters
	c.mu.Unlock()

	page, err := c.pager.ExploreBooks(ctx, api.ExploreParams{
		Offset:  offset,
		Limit:   c.pageSize,
		Filters: filters,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		// A Load reset the listing while this page was in flight; the
		// page belongs to the old filter context and is dropped.
		return nil
	}
	c.inFlight = false
	if err != nil {
		return err
	}
	c.items = append(c.items, page.Books...)
	c.hasMore = page.HasMore
	c.total = page.TotalCount
	c.offset = offset + c.pageSize
	return nil
}

// Items returns the accumulated result sequence in server order.
func (c *Controller) Items() []domain.Book {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]domain.Book, len(c.items))
	copy(items, c.items)
	return items
}

// HasMore reports whether the server indicated further pages.
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// TotalCount returns the server-reported total for the current filters.
func (c *Controller) TotalCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Filters returns the filter set the accumulated items belong to.
func (c *Controller) Filters() api.ExploreFilters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}
