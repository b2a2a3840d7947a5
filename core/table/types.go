// Package table implements a client-side table data source: an in-memory row
// collection run through a filter, sort and paginate pipeline whose final page
// is published to a rendering consumer.
package table

import "fmt"

// Document is the generic row shape produced by loaders.
type Document map[string]any

// SortDirection is the direction of an active sort.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
	// SortNone is the cleared state of the sort cycle.
	SortNone SortDirection = ""
)

// Valid reports whether d is one of the known directions.
func (d SortDirection) Valid() bool {
	switch d {
	case SortAsc, SortDesc, SortNone:
		return true
	}
	return false
}

// Sort describes the active sort column and direction.
type Sort struct {
	Active    string        `json:"active" yaml:"active"`
	Direction SortDirection `json:"direction" yaml:"direction"`
}

// IsActive reports whether the sort orders anything.
func (s Sort) IsActive() bool {
	return s.Active != "" && s.Direction != SortNone
}

func (s Sort) String() string {
	if !s.IsActive() {
		return "unsorted"
	}
	return fmt.Sprintf("%s %s", s.Active, s.Direction)
}

// PageEvent is emitted by a paginator when the user changes page or page size.
type PageEvent struct {
	PageIndex         int `json:"pageIndex"`
	PreviousPageIndex int `json:"previousPageIndex"`
	PageSize          int `json:"pageSize"`
	Length            int `json:"length"`
}

// Sorter is the sort collaborator consumed by a DataSource.
type Sorter interface {
	Active() string
	Direction() SortDirection
	// OnSortChange registers a listener for sort changes.
	OnSortChange(fn func(Sort)) (unsubscribe func())
	// OnInitialized registers a listener for readiness. Listeners registered
	// after initialization are called immediately.
	OnInitialized(fn func()) (unsubscribe func())
}

// Paginator is the paginator collaborator consumed by a DataSource. SetPageIndex
// and SetLength must not emit page events.
type Paginator interface {
	PageIndex() int
	PageSize() int
	Length() int
	SetPageIndex(index int)
	SetLength(length int)
	// OnPage registers a listener for user driven page changes.
	OnPage(fn func(PageEvent)) (unsubscribe func())
	// OnInitialized registers a listener for readiness. Listeners registered
	// after initialization are called immediately.
	OnInitialized(fn func()) (unsubscribe func())
}

// Stream is a read-only view of a value that changes over time.
type Stream[T any] interface {
	Get() T
	// Subscribe calls fn with the current value and on every change.
	Subscribe(fn func(T)) (unsubscribe func())
}

// SortingKeyAccessor maps a row and a field id to the value it sorts by.
type SortingKeyAccessor[T any] func(row T, field string) any

// SortFunc orders rows for the given sort. Implementations must not mutate the
// input slice.
type SortFunc[T any] func(rows []T, sort Sort) []T

// FilterPredicate reports whether row matches filter. It is only called with a
// non-empty filter.
type FilterPredicate[T any] func(row T, filter string) bool

// currentSort reads the descriptor of a Sorter.
func currentSort(s Sorter) Sort {
	if s == nil {
		return Sort{}
	}
	return Sort{Active: s.Active(), Direction: s.Direction()}
}
