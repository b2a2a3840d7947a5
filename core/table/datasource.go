package table

import (
	"fmt"

	"github.com/asaidimu/go-tabula/core/signal"
	"go.uber.org/zap"
)

// Options configures a DataSource. Nil fields fall back to defaults.
type Options[T any] struct {
	Logger *zap.Logger
	// Scheduler runs the deferred paginator update. Defaults to the data
	// source's own TaskQueue, which runs tasks when the triggering call returns.
	Scheduler          Scheduler
	SortingKeyAccessor SortingKeyAccessor[T]
	SortData           SortFunc[T]
	FilterPredicate    FilterPredicate[T]
	Sort               Sorter
	Paginator          Paginator
}

// DataSource holds a row collection and derives the page of rows to render
// from it through the filter, sort and paginate stages.
//
// A DataSource starts disconnected. While disconnected, changing the rows or
// the filter only recomputes FilteredRows. Connect wires the sort and paginator
// collaborators and keeps the rendered stream up to date until Disconnect.
//
// A DataSource is not safe for concurrent use. All calls, and the collaborator
// notifications it subscribes to, must come from one goroutine.
type DataSource[T any] struct {
	rows     []T
	filter   string
	filtered []T
	ordered  []T
	rendered *signal.Value[[]T]

	sortingKeyAccessor SortingKeyAccessor[T]
	sortData           SortFunc[T]
	filterPredicate    FilterPredicate[T]

	sort      Sorter
	paginator Paginator

	connected     bool
	wiring        bool
	sortReady     bool
	pageReady     bool
	hasOrdered    bool
	subscriptions []func()

	// internalPageChanges carries page index corrections made by the data
	// source, which must not look like user page events.
	internalPageChanges signal.Signal[struct{}]

	queue     *TaskQueue
	scheduler Scheduler
	hub       *eventHub
	logger    *zap.Logger
}

// New creates a disconnected DataSource over rows.
func New[T any](rows []T, opts *Options[T]) (*DataSource[T], error) {
	if opts == nil {
		opts = &Options[T]{}
	}

	hub, err := newEventHub()
	if err != nil {
		return nil, fmt.Errorf("could not initialize event bus: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ds := &DataSource[T]{
		rendered:  signal.NewValue([]T{}),
		sort:      opts.Sort,
		paginator: opts.Paginator,
		queue:     &TaskQueue{},
		hub:       hub,
		logger:    logger,
	}
	ds.scheduler = opts.Scheduler
	if ds.scheduler == nil {
		ds.scheduler = ds.queue
	}
	ds.SetSortingKeyAccessor(opts.SortingKeyAccessor)
	ds.SetSortData(opts.SortData)
	ds.SetFilterPredicate(opts.FilterPredicate)

	ds.run(func() {
		ds.rows = rows
		ds.filterData()
	})
	return ds, nil
}

// Rows returns the current row collection. The slice is not copied.
func (ds *DataSource[T]) Rows() []T {
	return ds.rows
}

// SetRows replaces the row collection and recomputes.
func (ds *DataSource[T]) SetRows(rows []T) {
	ds.run(func() {
		ds.rows = rows
		ds.logger.Debug("Rows replaced", zap.Int("rows", len(rows)))
		ds.recompute()
		ds.hub.emit(ds.event(EventRowsSet))
	})
}

// Filter returns the current filter string.
func (ds *DataSource[T]) Filter() string {
	return ds.filter
}

// SetFilter replaces the filter string and recomputes.
func (ds *DataSource[T]) SetFilter(filter string) {
	ds.run(func() {
		ds.filter = filter
		ds.logger.Debug("Filter replaced", zap.String("filter", filter))
		ds.recompute()
		ds.hub.emit(ds.event(EventFilterSet))
	})
}

// FilteredRows returns the output of the most recent filter pass.
func (ds *DataSource[T]) FilteredRows() []T {
	return ds.filtered
}

// RenderedRows returns the most recently published page.
func (ds *DataSource[T]) RenderedRows() []T {
	return ds.rendered.Get()
}

// SetSortingKeyAccessor overrides how sort keys are read from rows. Nil
// restores DefaultSortingKeyAccessor. It is used by the default SortData only.
func (ds *DataSource[T]) SetSortingKeyAccessor(fn SortingKeyAccessor[T]) {
	if fn == nil {
		fn = DefaultSortingKeyAccessor[T]
	}
	ds.sortingKeyAccessor = fn
}

// SetSortData overrides the sort stage. Nil restores the default stable sort.
func (ds *DataSource[T]) SetSortData(fn SortFunc[T]) {
	if fn == nil {
		fn = func(rows []T, sort Sort) []T {
			return SortRows(rows, sort, ds.sortingKeyAccessor)
		}
	}
	ds.sortData = fn
}

// SetFilterPredicate overrides row matching. Nil restores
// DefaultFilterPredicate.
func (ds *DataSource[T]) SetFilterPredicate(fn FilterPredicate[T]) {
	if fn == nil {
		fn = DefaultFilterPredicate[T]
	}
	ds.filterPredicate = fn
}

// Sort returns the attached sort collaborator.
func (ds *DataSource[T]) Sort() Sorter {
	return ds.sort
}

// SetSort attaches a sort collaborator, or detaches it when s is nil. While
// connected the active subscription is replaced.
func (ds *DataSource[T]) SetSort(s Sorter) {
	ds.run(func() {
		ds.sort = s
		if ds.connected {
			ds.resubscribe()
		}
	})
}

// Paginator returns the attached paginator collaborator.
func (ds *DataSource[T]) Paginator() Paginator {
	return ds.paginator
}

// SetPaginator attaches a paginator collaborator, or detaches it when p is nil.
// While connected the active subscription is replaced.
func (ds *DataSource[T]) SetPaginator(p Paginator) {
	ds.run(func() {
		ds.paginator = p
		if ds.connected {
			ds.resubscribe()
		}
	})
}

// Connect starts automatic recomputation and returns the rendered rows stream.
// Calling Connect while connected only returns the stream.
func (ds *DataSource[T]) Connect() Stream[[]T] {
	ds.run(func() {
		if ds.connected {
			return
		}
		ds.subscribe()
		ds.logger.Info("Data source connected", zap.Int("rows", len(ds.rows)))
		ds.hub.emit(ds.event(EventConnect))
	})
	return ds.rendered
}

// Disconnect stops automatic recomputation. The last rendered page stays
// available.
func (ds *DataSource[T]) Disconnect() {
	ds.run(func() {
		if !ds.connected {
			return
		}
		ds.unsubscribe()
		ds.logger.Info("Data source disconnected")
		ds.hub.emit(ds.event(EventDisconnect))
	})
}

// Connected reports whether automatic recomputation is active.
func (ds *DataSource[T]) Connected() bool {
	return ds.connected
}

// RegisterSubscription registers a callback for data source events. It returns
// an ID for UnregisterSubscription.
func (ds *DataSource[T]) RegisterSubscription(options SubscriptionOptions) string {
	return ds.hub.register(options)
}

// UnregisterSubscription removes a subscription by its ID.
func (ds *DataSource[T]) UnregisterSubscription(id string) {
	ds.hub.unregister(id)
}

// Subscriptions returns all registered subscriptions.
func (ds *DataSource[T]) Subscriptions() []SubscriptionInfo {
	return ds.hub.list()
}

func (ds *DataSource[T]) run(fn func()) {
	ds.queue.Run(fn)
}

func (ds *DataSource[T]) recompute() {
	if ds.connected {
		ds.runFilter()
		return
	}
	ds.filterData()
}

// subscribe wires the collaborators. Readiness and change notifications only
// record state while wiring; the pipeline runs once at the end.
func (ds *DataSource[T]) subscribe() {
	ds.connected = true
	ds.wiring = true
	ds.sortReady = ds.sort == nil
	ds.pageReady = ds.paginator == nil
	ds.hasOrdered = false

	if s := ds.sort; s != nil {
		onSort := func() {
			ds.run(func() {
				ds.sortReady = true
				ds.runSort()
			})
		}
		ds.subscriptions = append(ds.subscriptions,
			s.OnInitialized(onSort),
			s.OnSortChange(func(Sort) { onSort() }),
		)
	}

	onPage := func() {
		ds.run(func() {
			ds.pageReady = true
			ds.runPage()
		})
	}
	if p := ds.paginator; p != nil {
		ds.subscriptions = append(ds.subscriptions,
			p.OnInitialized(onPage),
			p.OnPage(func(PageEvent) { onPage() }),
		)
	}
	ds.subscriptions = append(ds.subscriptions,
		ds.internalPageChanges.Subscribe(func(struct{}) { onPage() }),
	)

	ds.wiring = false
	ds.runFilter()
}

func (ds *DataSource[T]) unsubscribe() {
	for _, unsubscribe := range ds.subscriptions {
		unsubscribe()
	}
	ds.subscriptions = nil
	ds.connected = false
}

func (ds *DataSource[T]) resubscribe() {
	ds.unsubscribe()
	ds.subscribe()
}

func (ds *DataSource[T]) runFilter() {
	ds.filterData()
	ds.runSort()
}

func (ds *DataSource[T]) runSort() {
	if ds.wiring || !ds.sortReady {
		return
	}
	ds.orderData()
	ds.runPage()
}

func (ds *DataSource[T]) runPage() {
	if ds.wiring || !ds.hasOrdered || !ds.pageReady {
		return
	}
	page := ds.pageData()
	ds.logger.Debug("Rendering rows",
		zap.Int("ordered", len(ds.ordered)),
		zap.Int("rendered", len(page)),
	)
	ds.rendered.Set(page)
	ds.hub.emit(ds.event(EventRender))
}

func (ds *DataSource[T]) filterData() {
	ds.filtered = FilterRows(ds.rows, ds.filter, ds.filterPredicate)
	ds.logger.Debug("Rows remaining after filter",
		zap.Int("rows", len(ds.rows)),
		zap.Int("filtered", len(ds.filtered)),
	)
	ds.updatePaginator(len(ds.filtered))
}

func (ds *DataSource[T]) orderData() {
	ds.ordered = ds.sortData(ds.filtered, currentSort(ds.sort))
	ds.hasOrdered = true
}

func (ds *DataSource[T]) pageData() []T {
	p := ds.paginator
	if p == nil {
		return ds.ordered
	}
	return PaginateRows(ds.ordered, p.PageIndex(), p.PageSize())
}

// updatePaginator defers writing the filtered length into the paginator, and
// pulling the page index back onto the last page if the length shrank below
// it. The paginator is read when the task runs, not when it is scheduled.
func (ds *DataSource[T]) updatePaginator(length int) {
	ds.scheduler.Schedule(func() {
		ds.run(func() {
			p := ds.paginator
			if p == nil {
				return
			}
			p.SetLength(length)

			current := p.PageIndex()
			corrected := CorrectPageIndex(current, p.Length(), p.PageSize())
			if corrected == current {
				return
			}
			p.SetPageIndex(corrected)
			ds.logger.Debug("Page index corrected",
				zap.Int("from", current),
				zap.Int("to", corrected),
				zap.Int("length", length),
			)
			ds.hub.emit(ds.event(EventPageCorrected))
			ds.internalPageChanges.Emit(struct{}{})
		})
	})
}

func (ds *DataSource[T]) event(t EventType) Event {
	e := Event{
		Type:     t,
		Rows:     len(ds.rows),
		Filtered: len(ds.filtered),
		Rendered: len(ds.rendered.Get()),
		Filter:   ds.filter,
		Sort:     currentSort(ds.sort),
	}
	if ds.paginator != nil {
		e.PageIndex = ds.paginator.PageIndex()
	}
	return e
}
