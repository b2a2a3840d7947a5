// Package paging provides a paginator collaborator for table data sources.
package paging

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/asaidimu/go-tabula/core/signal"
	"github.com/asaidimu/go-tabula/core/table"
)

// DefaultPageSize is used when Options.PageSize is not positive.
const DefaultPageSize = 50

// ErrInvalidPageSize is returned for page sizes below 1.
var ErrInvalidPageSize = errors.New("page size must be positive")

// Options configures a Controller.
type Options struct {
	PageIndex       int
	PageSize        int
	Length          int
	PageSizeOptions []int
}

// Controller is a table.Paginator. Navigation methods emit page events;
// SetPageIndex and SetLength do not.
type Controller struct {
	mu          sync.RWMutex
	pageIndex   int
	pageSize    int
	length      int
	sizeOptions []int

	pages       signal.Signal[table.PageEvent]
	initialized signal.Latch
}

var _ table.Paginator = (*Controller)(nil)

// New creates a Controller. A nil opts uses the defaults.
func New(opts *Options) *Controller {
	if opts == nil {
		opts = &Options{}
	}
	size := opts.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Controller{
		pageIndex:   max(opts.PageIndex, 0),
		pageSize:    size,
		length:      max(opts.Length, 0),
		sizeOptions: slices.Clone(opts.PageSizeOptions),
	}
}

// PageIndex returns the zero-based current page.
func (c *Controller) PageIndex() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pageIndex
}

// PageSize returns the number of rows per page.
func (c *Controller) PageSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pageSize
}

// Length returns the total number of rows being paged.
func (c *Controller) Length() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.length
}

// SetPageIndex moves to index without emitting a page event.
func (c *Controller) SetPageIndex(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pageIndex = max(index, 0)
}

// SetLength updates the row count without emitting a page event.
func (c *Controller) SetLength(length int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.length = max(length, 0)
}

// NumberOfPages returns how many pages the current length spans.
func (c *Controller) NumberOfPages() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.numberOfPages()
}

// HasNextPage reports whether a page follows the current one.
func (c *Controller) HasNextPage() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hasNextPage()
}

// HasPreviousPage reports whether a page precedes the current one.
func (c *Controller) HasPreviousPage() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pageIndex >= 1
}

// NextPage advances one page if possible.
func (c *Controller) NextPage() {
	c.navigate(func() bool {
		if !c.hasNextPage() {
			return false
		}
		c.pageIndex++
		return true
	})
}

// PreviousPage moves back one page if possible.
func (c *Controller) PreviousPage() {
	c.navigate(func() bool {
		if c.pageIndex < 1 {
			return false
		}
		c.pageIndex--
		return true
	})
}

// FirstPage moves to the first page.
func (c *Controller) FirstPage() {
	c.navigate(func() bool {
		if c.pageIndex < 1 {
			return false
		}
		c.pageIndex = 0
		return true
	})
}

// LastPage moves to the last page.
func (c *Controller) LastPage() {
	c.navigate(func() bool {
		if !c.hasNextPage() {
			return false
		}
		c.pageIndex = c.numberOfPages() - 1
		return true
	})
}

// GoTo moves to index, which is clamped to the valid page range.
func (c *Controller) GoTo(index int) {
	c.navigate(func() bool {
		target := min(max(index, 0), max(c.numberOfPages()-1, 0))
		if target == c.pageIndex {
			return false
		}
		c.pageIndex = target
		return true
	})
}

// SetPageSize changes the page size, keeping the first row of the current
// page visible.
func (c *Controller) SetPageSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, size)
	}
	c.navigate(func() bool {
		start := c.pageIndex * c.pageSize
		c.pageIndex = start / size
		c.pageSize = size
		return true
	})
	return nil
}

// PageSizeOptions returns the selectable page sizes in ascending order,
// including the current page size.
func (c *Controller) PageSizeOptions() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	options := slices.Clone(c.sizeOptions)
	if !slices.Contains(options, c.pageSize) {
		options = append(options, c.pageSize)
	}
	slices.Sort(options)
	return options
}

// RangeLabel describes the rows on the current page, e.g. "11 – 20 of 100".
func (c *Controller) RangeLabel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return RangeLabel(c.pageIndex, c.pageSize, c.length)
}

// Initialize marks the controller ready. Data sources wait for it before
// rendering.
func (c *Controller) Initialize() {
	c.initialized.Fire()
}

// OnPage registers a listener for page events.
func (c *Controller) OnPage(fn func(table.PageEvent)) func() {
	return c.pages.Subscribe(fn)
}

// OnInitialized registers a listener for readiness.
func (c *Controller) OnInitialized(fn func()) func() {
	return c.initialized.Subscribe(fn)
}

// navigate applies move under the lock and emits a page event if it reports a
// change.
func (c *Controller) navigate(move func() bool) {
	c.mu.Lock()
	previous := c.pageIndex
	if !move() {
		c.mu.Unlock()
		return
	}
	event := table.PageEvent{
		PageIndex:         c.pageIndex,
		PreviousPageIndex: previous,
		PageSize:          c.pageSize,
		Length:            c.length,
	}
	c.mu.Unlock()

	c.pages.Emit(event)
}

func (c *Controller) numberOfPages() int {
	if c.pageSize <= 0 {
		return 0
	}
	return (c.length + c.pageSize - 1) / c.pageSize
}

func (c *Controller) hasNextPage() bool {
	return c.pageSize > 0 && c.pageIndex < c.numberOfPages()-1
}

// RangeLabel formats the range of rows shown on page. A page past the end
// reports the range it would cover.
func RangeLabel(page, pageSize, length int) string {
	if length <= 0 || pageSize <= 0 {
		return fmt.Sprintf("0 of %d", max(length, 0))
	}
	start := page * pageSize
	end := start + pageSize
	if start < length {
		end = min(end, length)
	}
	return fmt.Sprintf("%d – %d of %d", start+1, end, length)
}
