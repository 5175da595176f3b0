// Package task implements the bounded work queue and worker goroutine a
// scheduler posts map, reduce, and exit operations to, grounded on the
// reference library's mapred_task_queue and mapred_task.
//
// The reference queue is a fixed 32-slot ring buffer guarded by a mutex
// and two condition variables (tsk_drain/tsk_fill); a buffered Go channel
// gives the same bounded-producer/consumer behavior without hand-rolled
// condvars. The reference spawns detached pthreads; here every Task is
// joinable through a shared sync.WaitGroup, since Go has no equivalent of
// "fire and forget, the OS reaps it" that plays well with deterministic
// shutdown.
package task

import "sync"

// QueueCapacity bounds how many pending operations a task's queue holds
// before Post blocks, mirroring MAPRED_TASK_QUEUE_COUNT_MAX.
const QueueCapacity = 32

// Operation is one unit of work a Task executes. Process runs one step and
// reports whether the task should stop after it, mirroring the reference's
// mapred_process_fn returning 0 (exit) versus -EAGAIN (keep going). An
// Operation that needs to report a result or an error does so itself, by
// posting to whatever channel its closure captured, the same way the
// reference has each work unit post itself back to the results queue.
type Operation interface {
	Process() (done bool)
}

// Task runs Operations posted to its queue on a dedicated goroutine until
// one reports done, then returns. Spawn registers the goroutine with a
// sync.WaitGroup so the owning scheduler can join every task with one
// wg.Wait(), instead of the reference's detached, unjoined pthreads.
type Task struct {
	queue chan Operation
}

// Spawn allocates a Task with a QueueCapacity-deep buffered queue and
// starts its worker goroutine, adding it to wg.
func Spawn(wg *sync.WaitGroup) *Task {
	t := &Task{queue: make(chan Operation, QueueCapacity)}
	wg.Add(1)
	go t.run(wg)
	return t
}

func (t *Task) run(wg *sync.WaitGroup) {
	defer wg.Done()
	for op := range t.queue {
		if op.Process() {
			return
		}
	}
}

// Post enqueues op, blocking while the task's queue is full. Callers must
// not Post after the task has been told to exit.
func (t *Task) Post(op Operation) {
	t.queue <- op
}
