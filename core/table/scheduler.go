package table

// Scheduler defers work until the notification pass that requested it has
// completed. Tasks must never run inside the Schedule call.
type Scheduler interface {
	Schedule(task func())
}

// TaskQueue is the default Scheduler. Work wrapped in Run may schedule tasks;
// they run in FIFO order once the outermost Run returns, including tasks
// scheduled by other tasks.
type TaskQueue struct {
	tasks    []func()
	depth    int
	flushing bool
}

// Schedule queues task. Outside of Run the task waits for the next Flush or the
// end of the next Run.
func (q *TaskQueue) Schedule(task func()) {
	q.tasks = append(q.tasks, task)
}

// Run calls fn and flushes the queue if this is the outermost Run. A panic in fn
// propagates without flushing.
func (q *TaskQueue) Run(fn func()) {
	func() {
		q.depth++
		defer func() { q.depth-- }()
		fn()
	}()
	if q.depth == 0 {
		q.Flush()
	}
}

// Flush runs queued tasks until none remain. Nested calls return immediately;
// the outer flush picks up whatever they would have run.
func (q *TaskQueue) Flush() {
	if q.flushing {
		return
	}
	q.flushing = true
	defer func() { q.flushing = false }()

	for len(q.tasks) > 0 {
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		task()
	}
}

// Pending returns the number of queued tasks.
func (q *TaskQueue) Pending() int {
	return len(q.tasks)
}
