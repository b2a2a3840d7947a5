package sorting

import (
	"testing"

	"github.com/asaidimu/go-tabula/core/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController(t *testing.T, opts *Options) *Controller {
	t.Helper()
	c, err := New(opts)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	c := newController(t, nil)
	assert.Equal(t, "", c.Active())
	assert.Equal(t, table.SortNone, c.Direction())

	c = newController(t, &Options{Active: "name", Direction: table.SortDesc})
	assert.Equal(t, table.Sort{Active: "name", Direction: table.SortDesc}, c.Current())

	_, err := New(&Options{Direction: "up"})
	assert.ErrorIs(t, err, ErrInvalidSortDirection)

	_, err = New(&Options{Start: "sideways"})
	assert.ErrorIs(t, err, ErrInvalidSortDirection)
}

func TestController_SortCycle(t *testing.T) {
	c := newController(t, nil)
	var changes []table.Sort
	c.OnSortChange(func(s table.Sort) { changes = append(changes, s) })

	c.Sort("name")
	c.Sort("name")
	c.Sort("name")
	c.Sort("name")

	assert.Equal(t, []table.Sort{
		{Active: "name", Direction: table.SortAsc},
		{Active: "name", Direction: table.SortDesc},
		{Active: "name", Direction: table.SortNone},
		{Active: "name", Direction: table.SortAsc},
	}, changes)
}

func TestController_SwitchingColumnRestartsCycle(t *testing.T) {
	c := newController(t, nil)
	c.Sort("name")
	c.Sort("name")
	require.Equal(t, table.SortDesc, c.Direction())

	c.Sort("age")
	assert.Equal(t, table.Sort{Active: "age", Direction: table.SortAsc}, c.Current())
}

func TestController_StartDescending(t *testing.T) {
	c := newController(t, &Options{Start: table.SortDesc})

	c.Sort("n")
	assert.Equal(t, table.SortDesc, c.Direction())
	c.Sort("n")
	assert.Equal(t, table.SortAsc, c.Direction())
	c.Sort("n")
	assert.Equal(t, table.SortNone, c.Direction())
}

func TestController_DisableClear(t *testing.T) {
	c := newController(t, &Options{DisableClear: true})

	c.Sort("n")
	c.Sort("n")
	c.Sort("n")
	assert.Equal(t, table.SortAsc, c.Direction())
}

func TestController_SortableOverrides(t *testing.T) {
	c := newController(t, nil)
	disableClear := false
	require.NoError(t, c.Register("date", SortableOptions{Start: table.SortDesc, DisableClear: &disableClear}))
	noClear := true
	require.NoError(t, c.Register("rank", SortableOptions{DisableClear: &noClear}))

	assert.Equal(t, table.SortDesc, c.NextDirection("date"))
	c.Sort("date")
	assert.Equal(t, table.SortDesc, c.Direction())
	assert.Equal(t, table.SortAsc, c.NextDirection("date"))

	c.Sort("rank")
	c.Sort("rank")
	assert.Equal(t, table.SortAsc, c.NextDirection("rank"))
}

func TestController_Register(t *testing.T) {
	c := newController(t, nil)

	assert.ErrorIs(t, c.Register("", SortableOptions{}), ErrMissingSortableID)
	require.NoError(t, c.Register("name", SortableOptions{}))
	assert.ErrorIs(t, c.Register("name", SortableOptions{}), ErrDuplicateSortableID)
	assert.ErrorIs(t, c.Register("bad", SortableOptions{Start: "x"}), ErrInvalidSortDirection)

	c.Deregister("name")
	assert.NoError(t, c.Register("name", SortableOptions{}))
}

func TestController_SetSort(t *testing.T) {
	c := newController(t, nil)
	var got table.Sort
	c.OnSortChange(func(s table.Sort) { got = s })

	require.NoError(t, c.SetSort(table.Sort{Active: "n", Direction: table.SortDesc}))
	assert.Equal(t, table.Sort{Active: "n", Direction: table.SortDesc}, got)
	assert.Equal(t, "n", c.Active())

	assert.ErrorIs(t, c.SetSort(table.Sort{Active: "n", Direction: "down"}), ErrInvalidSortDirection)
	assert.Equal(t, table.SortDesc, c.Direction())
}

func TestController_Initialize(t *testing.T) {
	c := newController(t, nil)
	calls := 0
	c.OnInitialized(func() { calls++ })

	c.Initialize()
	c.Initialize()
	c.OnInitialized(func() { calls++ })

	assert.Equal(t, 2, calls)
}
