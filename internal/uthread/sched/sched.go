package sched

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kolkov/uthreads/internal/uthread/collection"
	"github.com/kolkov/uthreads/internal/uthread/report"
	"github.com/kolkov/uthreads/internal/uthread/thread"
	"github.com/kolkov/uthreads/internal/uthread/timer"
)

// Build configuration of the library.
const (
	// MaxThreadNum is the upper bound on concurrent threads, main included.
	MaxThreadNum = 100

	// StackSize is the per-thread stack reservation in bytes. Goroutine
	// stacks are managed by the Go runtime; the constant is exported
	// configuration only, and no buffer of this size is allocated.
	StackSize = 4096
)

// Caller-mistake failures.
var (
	ErrNonPositiveQuantum = errors.New("uthreads: non-positive quantum")
	ErrTooManyThreads     = errors.New("uthreads: thread limit reached")
	ErrNoSuchThread       = errors.New("uthreads: no such thread")
	ErrMutexHeld          = errors.New("uthreads: mutex already held by this thread")
	ErrMutexNotHeld       = errors.New("uthreads: mutex not held by this thread")
)

// Diagnostic texts, kept close to the library's traditional wording.
const (
	msgBadQuantum   = "non-positive quantum_usecs"
	msgMaxThreads   = "no place for more threads"
	msgNoSuchThread = "a thread with the given id does not exist, or it is illegal to block this thread"
	msgMutexReentry = "you already have the mutex, you probably lost it somewhere"
	msgMutexNotHeld = "can't unlock mutex"
	msgTimerError   = "error in timer handling"
)

// Scheduler state. Everything below is guarded by mu (the mask), except
// pending, which is the latch the tick source writes from its own goroutine.
var (
	mu      sync.Mutex
	pending atomic.Bool

	initialized bool
	col         *collection.Collection
	src         timer.Source
	quantum     time.Duration

	// totalQuantums counts every quantum since Init, the running one
	// included. Init starts it at 1.
	totalQuantums int

	mtx mutexState
)

// mask opens a critical section. Ticks latched while masked are delivered at
// unmask.
func mask() {
	mu.Lock()
}

// unmask closes the critical section, first delivering any latched tick by
// running the tick handler on the calling goroutine, the current thread.
// The handler may context-switch away; delivery of a tick latched meanwhile
// resumes when this thread next runs.
func unmask() {
	for initialized && pending.CompareAndSwap(true, false) {
		handleTick()
	}
	mu.Unlock()
}

// noteTick is the fire callback handed to the tick source. It runs on the
// source's drain goroutine and must only latch.
func noteTick() {
	pending.Store(true)
}

// Init initializes the library: it validates the quantum, creates the thread
// collection with the main thread running, and arms the tick source with the
// quantum period. The first quantum begins here, so totalQuantums and the
// main thread's count both start at 1.
//
// Init must be called on the goroutine that will be the main thread, before
// any other operation, exactly once (Reset undoes it for tests). A
// non-positive quantum fails without arming the timer; a tick source that
// cannot be armed is a system error and terminates the process.
func Init(quantumUsecs int, source timer.Source) error {
	mask()
	defer unmask()

	if quantumUsecs <= 0 {
		report.LibError(msgBadQuantum)
		return ErrNonPositiveQuantum
	}

	col = collection.New(MaxThreadNum)
	mtx = mutexState{holder: noHolder}
	totalQuantums = 1
	quantum = time.Duration(quantumUsecs) * time.Microsecond

	src = source
	if err := src.Start(quantum, noteTick); err != nil {
		report.SystemFatal(msgTimerError)
		return err
	}
	initialized = true
	return nil
}

// Reset tears the scheduler down: the tick source is stopped, every spawned
// thread's goroutine is reclaimed, and the library returns to its
// pre-Init state. Reset must be called from the main thread with every other
// thread suspended, which is the only state a correctly used library can be
// observed in from outside. Test use only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	if src != nil {
		src.Stop()
		src = nil
	}
	if col != nil {
		for _, id := range col.LiveIDs() {
			if id != thread.MainID {
				col.Terminate(id)
			}
		}
		col = nil
	}
	pending.Store(false)
	initialized = false
	totalQuantums = 0
	mtx = mutexState{holder: noHolder}
}
