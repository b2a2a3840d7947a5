package paging

import (
	"testing"

	"github.com/asaidimu/go-tabula/core/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	c := New(nil)
	assert.Equal(t, 0, c.PageIndex())
	assert.Equal(t, DefaultPageSize, c.PageSize())
	assert.Equal(t, 0, c.Length())

	c = New(&Options{PageIndex: -2, PageSize: -1, Length: -5})
	assert.Equal(t, 0, c.PageIndex())
	assert.Equal(t, DefaultPageSize, c.PageSize())
	assert.Equal(t, 0, c.Length())
}

func TestController_Navigation(t *testing.T) {
	c := New(&Options{PageSize: 10, Length: 35})
	var events []table.PageEvent
	c.OnPage(func(e table.PageEvent) { events = append(events, e) })

	assert.Equal(t, 4, c.NumberOfPages())
	assert.False(t, c.HasPreviousPage())
	assert.True(t, c.HasNextPage())

	c.NextPage()
	c.LastPage()
	c.NextPage() // no-op on the last page
	c.PreviousPage()
	c.FirstPage()
	c.PreviousPage() // no-op on the first page

	assert.Equal(t, []table.PageEvent{
		{PageIndex: 1, PreviousPageIndex: 0, PageSize: 10, Length: 35},
		{PageIndex: 3, PreviousPageIndex: 1, PageSize: 10, Length: 35},
		{PageIndex: 2, PreviousPageIndex: 3, PageSize: 10, Length: 35},
		{PageIndex: 0, PreviousPageIndex: 2, PageSize: 10, Length: 35},
	}, events)
}

func TestController_GoTo(t *testing.T) {
	c := New(&Options{PageSize: 10, Length: 35})
	calls := 0
	c.OnPage(func(table.PageEvent) { calls++ })

	c.GoTo(2)
	assert.Equal(t, 2, c.PageIndex())
	c.GoTo(99)
	assert.Equal(t, 3, c.PageIndex())
	c.GoTo(3)
	c.GoTo(-1)
	assert.Equal(t, 0, c.PageIndex())

	assert.Equal(t, 3, calls)
}

func TestController_SilentSetters(t *testing.T) {
	c := New(&Options{PageSize: 10})
	calls := 0
	c.OnPage(func(table.PageEvent) { calls++ })

	c.SetLength(100)
	c.SetPageIndex(4)
	c.SetLength(-1)
	c.SetPageIndex(-3)

	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, c.Length())
	assert.Equal(t, 0, c.PageIndex())
}

func TestController_SetPageSizeKeepsFirstRow(t *testing.T) {
	c := New(&Options{PageIndex: 3, PageSize: 10, Length: 100})
	var got table.PageEvent
	c.OnPage(func(e table.PageEvent) { got = e })

	require.NoError(t, c.SetPageSize(25))

	// Row 30 was first on page 3; with 25 rows per page it is on page 1.
	assert.Equal(t, 1, c.PageIndex())
	assert.Equal(t, 25, c.PageSize())
	assert.Equal(t, table.PageEvent{PageIndex: 1, PreviousPageIndex: 3, PageSize: 25, Length: 100}, got)

	assert.ErrorIs(t, c.SetPageSize(0), ErrInvalidPageSize)
	assert.Equal(t, 25, c.PageSize())
}

func TestController_PageSizeOptions(t *testing.T) {
	c := New(&Options{PageSize: 15, PageSizeOptions: []int{50, 10, 25}})
	assert.Equal(t, []int{10, 15, 25, 50}, c.PageSizeOptions())

	c = New(&Options{PageSize: 10, PageSizeOptions: []int{10, 5}})
	assert.Equal(t, []int{5, 10}, c.PageSizeOptions())
}

func TestRangeLabel(t *testing.T) {
	tests := []struct {
		name                   string
		page, pageSize, length int
		want                   string
	}{
		{"empty", 0, 10, 0, "0 of 0"},
		{"zero page size", 0, 0, 5, "0 of 5"},
		{"first page", 0, 10, 100, "1 – 10 of 100"},
		{"partial last page", 2, 10, 25, "21 – 25 of 25"},
		{"past the end", 5, 10, 25, "51 – 60 of 25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RangeLabel(tt.page, tt.pageSize, tt.length))
		})
	}

	c := New(&Options{PageIndex: 1, PageSize: 10, Length: 12})
	assert.Equal(t, "11 – 12 of 12", c.RangeLabel())
}

func TestController_Initialize(t *testing.T) {
	c := New(nil)
	ready := false
	c.OnInitialized(func() { ready = true })
	assert.False(t, ready)

	c.Initialize()
	assert.True(t, ready)
}
