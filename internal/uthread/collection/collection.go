package collection

import (
	"slices"
	"sort"

	"github.com/kolkov/uthreads/internal/uthread/thread"
)

// Collection is the directory of live threads and their scheduling state.
type Collection struct {
	current int

	threads map[int]*thread.Thread

	// ready is the FIFO queue of ids awaiting the processor.
	ready []int

	// blocked holds ids suspended by an explicit block, not via the mutex.
	blocked map[int]struct{}

	// mutexWaiters holds ids suspended on a contended mutex lock. A waiter
	// may simultaneously be in blocked.
	mutexWaiters map[int]struct{}

	// freeIDs holds the unused ids in [1, maxThreads), sorted ascending so
	// the lowest free id is allocated first.
	freeIDs []int
}

// New creates a collection able to hold maxThreads threads including main.
// The main thread record is created immediately and is running.
func New(maxThreads int) *Collection {
	c := &Collection{
		current:      thread.MainID,
		threads:      make(map[int]*thread.Thread, maxThreads),
		blocked:      make(map[int]struct{}),
		mutexWaiters: make(map[int]struct{}),
		freeIDs:      make([]int, 0, maxThreads-1),
	}
	for id := 1; id < maxThreads; id++ {
		c.freeIDs = append(c.freeIDs, id)
	}
	c.threads[thread.MainID] = thread.NewMain()
	return c
}

// Create allocates the lowest free id, builds a thread record whose goroutine
// is parked in front of run, and appends the id to the ready queue. It
// reports false when the pool is exhausted.
func (c *Collection) Create(run func()) (int, bool) {
	if len(c.freeIDs) == 0 {
		return -1, false
	}
	id := c.freeIDs[0]
	c.freeIDs = c.freeIDs[1:]
	c.threads[id] = thread.New(id, run)
	c.ready = append(c.ready, id)
	return id, true
}

// Contains reports whether a thread with the given id exists.
func (c *Collection) Contains(id int) bool {
	_, ok := c.threads[id]
	return ok
}

// Terminate removes the thread from every structure it may appear in, kills
// its gate so the backing goroutine is reclaimed, and returns the id to the
// free pool. It does not touch the current id: when the terminated thread is
// the running one, the caller is mid context switch and handles that itself.
func (c *Collection) Terminate(id int) {
	t, ok := c.threads[id]
	if !ok {
		return
	}
	if id != thread.MainID {
		t.Gate().Kill()
	}
	delete(c.threads, id)
	c.removeReady(id)
	delete(c.mutexWaiters, id)
	delete(c.blocked, id)

	i := sort.SearchInts(c.freeIDs, id)
	c.freeIDs = slices.Insert(c.freeIDs, i, id)
}

// MarkReady appends the id to the ready queue unless it is the running
// thread, already queued, waiting on the mutex, or blocked. Idempotent in all
// of those cases.
func (c *Collection) MarkReady(id int) {
	if id == c.current {
		return
	}
	if slices.Contains(c.ready, id) {
		return
	}
	if _, waiting := c.mutexWaiters[id]; waiting {
		return
	}
	if _, blocked := c.blocked[id]; blocked {
		return
	}
	c.ready = append(c.ready, id)
}

// WaitForMutex enrolls the id in the mutex-waiter set. The caller suspends
// the thread via a context switch in the same critical section.
func (c *Collection) WaitForMutex(id int) {
	c.mutexWaiters[id] = struct{}{}
}

// AdvanceMutexLine admits one mutex waiter after an unlock.
//
// The lowest-id waiter that is not also blocked moves to the ready queue. If
// every waiter is blocked, the lowest-id waiter is dropped from the set
// without being enqueued: once resumed and rescheduled, that thread retries
// the lock from its own lock loop and re-enrolls if the mutex is taken again.
func (c *Collection) AdvanceMutexLine() {
	if len(c.mutexWaiters) == 0 {
		return
	}
	eligible, any := -1, false
	for id := range c.mutexWaiters {
		if _, blocked := c.blocked[id]; blocked {
			continue
		}
		if !any || id < eligible {
			eligible, any = id, true
		}
	}
	if any {
		delete(c.mutexWaiters, eligible)
		c.ready = append(c.ready, eligible)
		return
	}
	min := -1
	for id := range c.mutexWaiters {
		if min < 0 || id < min {
			min = id
		}
	}
	delete(c.mutexWaiters, min)
}

// Resume clears the id's blocked state and marks it ready, subject to the
// MarkReady guards: a resumed thread still waiting on the mutex stays in the
// waiter set and is not enqueued. Resume reports false for an unknown id and
// is otherwise a no-op for threads that were not blocked.
func (c *Collection) Resume(id int) bool {
	if !c.Contains(id) {
		return false
	}
	delete(c.blocked, id)
	c.MarkReady(id)
	return true
}

// Block inserts the id into the blocked set and removes it from the ready
// queue. The mutex-waiter set is left alone: blocking a waiter stacks both
// states.
func (c *Collection) Block(id int) {
	c.blocked[id] = struct{}{}
	c.removeReady(id)
}

// PopNextRunning dequeues the front of the ready queue and makes it the
// running thread. The queue must be non-empty: popping with nothing runnable
// means the process has no schedulable thread left, a state with no defined
// behavior.
func (c *Collection) PopNextRunning() {
	if len(c.ready) == 0 {
		panic("uthreads: no ready thread to schedule")
	}
	c.current = c.ready[0]
	c.ready = c.ready[1:]
}

// HasReady reports whether any thread is awaiting the processor.
func (c *Collection) HasReady() bool {
	return len(c.ready) > 0
}

// CurrentID returns the id of the running thread.
func (c *Collection) CurrentID() int {
	return c.current
}

// Current returns the record of the running thread.
func (c *Collection) Current() *thread.Thread {
	return c.threads[c.current]
}

// Get returns the record for id, or nil if no such thread exists.
func (c *Collection) Get(id int) *thread.Thread {
	return c.threads[id]
}

// LiveIDs returns the ids of all live threads, sorted ascending.
func (c *Collection) LiveIDs() []int {
	ids := make([]int, 0, len(c.threads))
	for id := range c.threads {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ReadyIDs returns a copy of the ready queue in FIFO order.
func (c *Collection) ReadyIDs() []int {
	return slices.Clone(c.ready)
}

// BlockedIDs returns the blocked set, sorted ascending.
func (c *Collection) BlockedIDs() []int {
	return sortedSet(c.blocked)
}

// MutexWaiterIDs returns the mutex-waiter set, sorted ascending.
func (c *Collection) MutexWaiterIDs() []int {
	return sortedSet(c.mutexWaiters)
}

func (c *Collection) removeReady(id int) {
	for i, rid := range c.ready {
		if rid == id {
			c.ready = slices.Delete(c.ready, i, i+1)
			return
		}
	}
}

func sortedSet(set map[int]struct{}) []int {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
