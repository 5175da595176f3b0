// Package schedule implements the map-reduce word count scheduler: it
// partitions an input buffer into per-task chunks, runs the map phase
// across a pool of tasks, folds their results down to one via a pairwise
// reduce phase, and tears the pool down. Grounded on the reference
// library's mapred_run_work_scheduler and its three phases
// (mapred_schedule_map_works, mapred_process_reduce_works,
// mapred_schedule_exit_work / mapred_process_tasks_exit).
package schedule

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/eth2030/mrheap/internal/perf"
	"github.com/eth2030/mrheap/mapred/task"
	"github.com/eth2030/mrheap/mapred/token"
)

const (
	minTaskCount = 2
	maxTaskCount = 256
)

// ErrWorkerCountInvalid is returned by New when Config.TaskCount falls
// outside [minTaskCount, maxTaskCount], mirroring the reference's
// task_count validation in mapred_init_work_scheduler.
var ErrWorkerCountInvalid = errors.New("schedule: worker count invalid")

// Config configures a Scheduler.
type Config struct {
	// TaskCount is the number of worker tasks to spawn, constrained to
	// [2, 256] the same way the reference bounds its thread count.
	TaskCount int

	// Counters, if non-nil, records token comparisons performed across
	// every map task's registration index.
	Counters *perf.Counters
}

// DefaultConfig returns a Config with a small, generally reasonable
// TaskCount.
func DefaultConfig() Config {
	return Config{TaskCount: 4}
}

func (c Config) validate() error {
	if c.TaskCount < minTaskCount || c.TaskCount > maxTaskCount {
		return fmt.Errorf("%w: task count %d outside [%d, %d]", ErrWorkerCountInvalid, c.TaskCount, minTaskCount, maxTaskCount)
	}
	return nil
}

// Metrics holds atomic counters tracking a Scheduler's activity, readable
// concurrently with Run via Snapshot.
type Metrics struct {
	tasksSpawned    atomic.Uint64
	chunksScheduled atomic.Uint64
	reduceStepsRun  atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	TasksSpawned    uint64
	ChunksScheduled uint64
	ReduceStepsRun  uint64
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		TasksSpawned:    m.tasksSpawned.Load(),
		ChunksScheduled: m.chunksScheduled.Load(),
		ReduceStepsRun:  m.reduceStepsRun.Load(),
	}
}

// workResult is what a map or reduce Operation posts back once finished.
type workResult struct {
	result *token.Result
}

// mapOperation tokenizes one chunk of the input and reports the resulting
// Result. It never signals task exit on its own, since the same task may
// later be reused for a reduceOperation.
type mapOperation struct {
	data     []byte
	results  chan<- workResult
	counters *perf.Counters
}

func (op mapOperation) Process() bool {
	store := token.NewWithCounters(op.counters)
	token.Tokenize(store, op.data)
	op.results <- workResult{result: store.Flatten()}
	return false
}

// reduceOperation merges source into target in place and reports target
// back as the combined result.
type reduceOperation struct {
	target  *token.Result
	source  *token.Result
	results chan<- workResult
}

func (op reduceOperation) Process() bool {
	token.Merge(op.target, op.source)
	op.results <- workResult{result: op.target}
	return false
}

// exitOperation acknowledges receipt and tells the task to stop.
type exitOperation struct {
	acks chan<- struct{}
}

func (op exitOperation) Process() bool {
	op.acks <- struct{}{}
	return true
}

// adjustChunkSize returns the usable length of a candidate chunk, which
// may have split a token in half at its end since it was sized by raw
// byte count: if the chunk's last byte is already a delimiter, the whole
// chunk is used; otherwise it is trimmed back to the end of its last
// complete token, leaving the cut tail for the next chunk. Ported from
// mapred_adjust_area_size.
func adjustChunkSize(chunk []byte) int {
	if len(chunk) == 0 {
		return 0
	}
	if token.IsDelim(chunk[len(chunk)-1]) {
		return len(chunk)
	}
	return len(chunk) - token.BackwardTokenLen(chunk)
}

// partitionChunks splits data into count chunks of roughly equal size,
// adjusting every chunk but the last so none of them ends mid-token. The
// last chunk absorbs whatever remains after the others are trimmed.
func partitionChunks(data []byte, count int) [][]byte {
	if count <= 1 || len(data) == 0 {
		return [][]byte{data}
	}
	chunkSize := len(data) / count
	if chunkSize == 0 {
		return [][]byte{data}
	}

	chunks := make([][]byte, 0, count)
	offset := 0
	for i := 0; i < count-1; i++ {
		end := offset + chunkSize
		if end > len(data) {
			end = len(data)
		}
		n := adjustChunkSize(data[offset:end])
		chunks = append(chunks, data[offset:offset+n])
		offset += n
	}
	chunks = append(chunks, data[offset:])
	return chunks
}

// Scheduler owns a pool of tasks and drives them through the map and
// reduce phases of a single Run. The zero Scheduler is not usable;
// construct with New.
type Scheduler struct {
	tasks    []*task.Task
	wg       sync.WaitGroup
	results  chan workResult
	acks     chan struct{}
	metrics  Metrics
	counters *perf.Counters
}

// New validates cfg and spawns its worker tasks. Every spawned task is
// joined (not detached, unlike the reference's pthreads): Run always
// tears the whole pool down via wg.Wait() before returning.
func New(cfg Config) (*Scheduler, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Scheduler{
		results:  make(chan workResult, cfg.TaskCount),
		acks:     make(chan struct{}, cfg.TaskCount),
		tasks:    make([]*task.Task, cfg.TaskCount),
		counters: cfg.Counters,
	}
	for i := range s.tasks {
		s.tasks[i] = task.Spawn(&s.wg)
		s.metrics.tasksSpawned.Add(1)
	}
	return s, nil
}

// Metrics returns a snapshot of the scheduler's counters.
func (s *Scheduler) Metrics() MetricsSnapshot { return s.metrics.Snapshot() }

// Run tokenizes data by partitioning it across the scheduler's tasks,
// folds their per-chunk Results down to one via the reduce phase, tears
// the task pool down, and returns the merged Result. A Scheduler is good
// for exactly one Run; construct a new one to run again.
func (s *Scheduler) Run(data []byte) (*token.Result, error) {
	chunks := partitionChunks(data, len(s.tasks))
	for i, chunk := range chunks {
		s.tasks[i].Post(mapOperation{data: chunk, results: s.results, counters: s.counters})
		s.metrics.chunksScheduled.Add(1)
	}

	results := make([]*token.Result, 0, len(chunks))
	for range chunks {
		r := <-s.results
		results = append(results, r.result)
	}

	results = s.runReducePhase(results)

	s.postExit()
	s.drainExits()
	s.wg.Wait()

	return results[0], nil
}

// runReducePhase folds results down to one element. Every merge but the
// last is handed to a task as a reduceOperation, round-robining across
// the pool, pairwise-dequeuing two results and reposting the merged one,
// exactly like mapred_process_reduce_works. The final merge, once only
// two results remain, runs inline on the calling goroutine rather than
// being hand off to a task: unlike the reference, which posts every
// task's Exit concurrently with that last merge to overlap thread
// teardown with it, Run posts Exit only after the merge completes here,
// since by that point there is no remaining task work left to overlap the
// teardown with besides the exit handshake itself.
func (s *Scheduler) runReducePhase(results []*token.Result) []*token.Result {
	next := 0
	for len(results) > 2 {
		a, b := results[0], results[1]
		results = results[2:]

		tk := s.tasks[next%len(s.tasks)]
		next++
		tk.Post(reduceOperation{target: a, source: b, results: s.results})
		s.metrics.reduceStepsRun.Add(1)

		r := <-s.results
		results = append(results, r.result)
	}

	if len(results) == 2 {
		token.Merge(results[0], results[1])
		s.metrics.reduceStepsRun.Add(1)
		results = results[:1]
	}
	return results
}

// postExit tells every task to stop once it finishes whatever it is
// currently processing.
func (s *Scheduler) postExit() {
	for _, tk := range s.tasks {
		tk.Post(exitOperation{acks: s.acks})
	}
}

// drainExits waits for every task's exit acknowledgement.
func (s *Scheduler) drainExits() {
	for range s.tasks {
		<-s.acks
	}
}
