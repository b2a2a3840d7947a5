package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskQueue_RunsAfterOutermostRun(t *testing.T) {
	q := &TaskQueue{}
	var log []string

	q.Run(func() {
		q.Schedule(func() { log = append(log, "task") })
		q.Run(func() {
			log = append(log, "inner")
		})
		log = append(log, "outer")
	})

	assert.Equal(t, []string{"inner", "outer", "task"}, log)
	assert.Equal(t, 0, q.Pending())
}

func TestTaskQueue_TasksScheduleTasks(t *testing.T) {
	q := &TaskQueue{}
	var log []int

	q.Run(func() {
		q.Schedule(func() {
			log = append(log, 1)
			q.Run(func() {
				q.Schedule(func() { log = append(log, 3) })
				log = append(log, 2)
			})
		})
	})

	assert.Equal(t, []int{1, 2, 3}, log)
}

func TestTaskQueue_ScheduleOutsideRun(t *testing.T) {
	q := &TaskQueue{}
	ran := false

	q.Schedule(func() { ran = true })
	assert.False(t, ran)
	assert.Equal(t, 1, q.Pending())

	q.Flush()
	assert.True(t, ran)
}

func TestTaskQueue_PanicSkipsFlush(t *testing.T) {
	q := &TaskQueue{}
	ran := false

	assert.Panics(t, func() {
		q.Run(func() {
			q.Schedule(func() { ran = true })
			panic("boom")
		})
	})
	assert.False(t, ran)

	q.Run(func() {})
	assert.True(t, ran)
}
