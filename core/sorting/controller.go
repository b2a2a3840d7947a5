// Package sorting provides a sort collaborator for table data sources. It keeps
// the active column and direction, registers sortable columns, and cycles a
// column through its directions each time it is sorted.
package sorting

import (
	"errors"
	"fmt"
	"sync"

	"github.com/asaidimu/go-tabula/core/signal"
	"github.com/asaidimu/go-tabula/core/table"
)

var (
	// ErrMissingSortableID is returned when a sortable is registered without an id.
	ErrMissingSortableID = errors.New("sortable id is required")

	// ErrDuplicateSortableID is returned when two sortables share an id.
	ErrDuplicateSortableID = errors.New("duplicate sortable id")

	// ErrInvalidSortDirection is returned for directions other than asc, desc or "".
	ErrInvalidSortDirection = errors.New("invalid sort direction")
)

// Options configures a Controller.
type Options struct {
	// Active and Direction set the initial sort.
	Active    string
	Direction table.SortDirection
	// Start is the first direction of a newly sorted column. Defaults to asc.
	Start table.SortDirection
	// DisableClear removes the unsorted state from the cycle.
	DisableClear bool
}

// SortableOptions overrides the controller defaults for one column.
type SortableOptions struct {
	Start        table.SortDirection
	DisableClear *bool
}

// Controller is a table.Sorter driven by user sort requests.
type Controller struct {
	mu        sync.RWMutex
	active    string
	direction table.SortDirection
	start     table.SortDirection
	noClear   bool
	sortables map[string]SortableOptions

	changes     signal.Signal[table.Sort]
	initialized signal.Latch
}

var _ table.Sorter = (*Controller)(nil)

// New creates a Controller. A nil opts uses the defaults.
func New(opts *Options) (*Controller, error) {
	if opts == nil {
		opts = &Options{}
	}
	if !opts.Direction.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortDirection, opts.Direction)
	}
	start := opts.Start
	if start == table.SortNone {
		start = table.SortAsc
	}
	if !start.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortDirection, start)
	}
	return &Controller{
		active:    opts.Active,
		direction: opts.Direction,
		start:     start,
		noClear:   opts.DisableClear,
		sortables: make(map[string]SortableOptions),
	}, nil
}

// Active returns the id of the sorted column, or "".
func (c *Controller) Active() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Direction returns the current sort direction.
func (c *Controller) Direction() table.SortDirection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.direction
}

// Current returns the active sort.
func (c *Controller) Current() table.Sort {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return table.Sort{Active: c.active, Direction: c.direction}
}

// Register adds a sortable column.
func (c *Controller) Register(id string, opts SortableOptions) error {
	if id == "" {
		return ErrMissingSortableID
	}
	if !opts.Start.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSortDirection, opts.Start)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.sortables[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateSortableID, id)
	}
	c.sortables[id] = opts
	return nil
}

// Deregister removes a sortable column.
func (c *Controller) Deregister(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sortables, id)
}

// Sort handles a user request to sort by id. A different column starts at its
// start direction; the active column moves to its next direction.
func (c *Controller) Sort(id string) {
	c.mu.Lock()
	if c.active != id {
		c.active = id
		c.direction = c.startFor(id)
	} else {
		c.direction = c.nextDirection(id)
	}
	current := table.Sort{Active: c.active, Direction: c.direction}
	c.mu.Unlock()

	c.changes.Emit(current)
}

// SetSort sets the sort programmatically and notifies listeners.
func (c *Controller) SetSort(s table.Sort) error {
	if !s.Direction.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSortDirection, s.Direction)
	}
	c.mu.Lock()
	c.active = s.Active
	c.direction = s.Direction
	c.mu.Unlock()

	c.changes.Emit(s)
	return nil
}

// NextDirection returns the direction id would move to if sorted now.
func (c *Controller) NextDirection(id string) table.SortDirection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.active != id {
		return c.startFor(id)
	}
	return c.nextDirection(id)
}

// Initialize marks the controller ready. Data sources wait for it before
// ordering rows.
func (c *Controller) Initialize() {
	c.initialized.Fire()
}

// OnSortChange registers a listener for sort changes.
func (c *Controller) OnSortChange(fn func(table.Sort)) func() {
	return c.changes.Subscribe(fn)
}

// OnInitialized registers a listener for readiness.
func (c *Controller) OnInitialized(fn func()) func() {
	return c.initialized.Subscribe(fn)
}

func (c *Controller) startFor(id string) table.SortDirection {
	if opts, ok := c.sortables[id]; ok && opts.Start != table.SortNone {
		return opts.Start
	}
	return c.start
}

func (c *Controller) clearDisabled(id string) bool {
	if opts, ok := c.sortables[id]; ok && opts.DisableClear != nil {
		return *opts.DisableClear
	}
	return c.noClear
}

// nextDirection walks the cycle starting at the column's start direction:
// asc, desc, "" (or desc, asc, ""), without "" when clearing is disabled.
func (c *Controller) nextDirection(id string) table.SortDirection {
	cycle := []table.SortDirection{table.SortAsc, table.SortDesc}
	if c.startFor(id) == table.SortDesc {
		cycle = []table.SortDirection{table.SortDesc, table.SortAsc}
	}
	if !c.clearDisabled(id) {
		cycle = append(cycle, table.SortNone)
	}

	next := 0
	for i, d := range cycle {
		if d == c.direction {
			next = i + 1
			break
		}
	}
	if next >= len(cycle) {
		next = 0
	}
	return cycle[next]
}
