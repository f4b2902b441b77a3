package uthread

import (
	internal "github.com/kolkov/uthreads/internal/uthread/sched"
	"github.com/kolkov/uthreads/internal/uthread/timer"
)

// Build configuration of the library.
const (
	// MaxThreadNum is the upper bound on concurrent threads, main included.
	MaxThreadNum = internal.MaxThreadNum

	// StackSize is the per-thread stack reservation in bytes.
	StackSize = internal.StackSize
)

// Sentinel errors returned by the API. Diagnostics for each are also printed
// to stderr with the "thread library error: " prefix.
var (
	// ErrNonPositiveQuantum is returned by Init for a quantum of zero or
	// less.
	ErrNonPositiveQuantum = internal.ErrNonPositiveQuantum

	// ErrTooManyThreads is returned by Spawn when MaxThreadNum threads are
	// live.
	ErrTooManyThreads = internal.ErrTooManyThreads

	// ErrNoSuchThread is returned for an id with no live thread, and by
	// Block for the main thread.
	ErrNoSuchThread = internal.ErrNoSuchThread

	// ErrMutexHeld is returned by MutexLock when the caller already holds
	// the mutex.
	ErrMutexHeld = internal.ErrMutexHeld

	// ErrMutexNotHeld is returned by MutexUnlock when the mutex is unlocked
	// or held by another thread.
	ErrMutexNotHeld = internal.ErrMutexNotHeld
)

// Snapshot is a read-only view of the scheduler, for diagnostics and demos.
type Snapshot = internal.Snapshot

// Init initializes the thread library. The calling goroutine becomes the
// main thread (id 0) and the first quantum begins now. quantumUsecs is the
// quantum length in microseconds of virtual (CPU) time and must be positive.
//
// Init must be called exactly once, before any other operation.
func Init(quantumUsecs int) error {
	return internal.Init(quantumUsecs, timer.NewVirtual())
}

// Spawn creates a new thread whose entry point is f and places it at the end
// of the ready queue. The returned id is the lowest one not in use. The
// thread terminates when f returns or when it is terminated explicitly.
//
// Spawn fails with ErrTooManyThreads when MaxThreadNum threads are live.
func Spawn(f func()) (int, error) {
	return internal.Spawn(f)
}

// Terminate deletes the thread with the given id, releasing its resources
// and, if it held the mutex, the mutex. Terminating the main thread (id 0)
// ends the whole process with a successful exit. A thread terminating itself
// does not return from this call.
func Terminate(tid int) error {
	return internal.Terminate(tid)
}

// Block suspends the thread with the given id until Resume. Blocking the
// main thread or an unknown id fails; blocking an already-blocked thread is
// a no-op. A thread blocking itself yields the processor immediately.
func Block(tid int) error {
	return internal.Block(tid)
}

// Resume makes a blocked thread ready again. Resuming a running or ready
// thread is a no-op, not an error. A resumed thread that is also waiting on
// the mutex stays suspended until the mutex admits it.
func Resume(tid int) error {
	return internal.Resume(tid)
}

// MutexLock acquires the library mutex for the calling thread, suspending it
// while another thread holds the mutex. Locking a mutex the caller already
// holds fails with ErrMutexHeld: the mutex is not reentrant.
func MutexLock() error {
	return internal.MutexLock()
}

// MutexUnlock releases the library mutex and makes one waiting thread ready,
// if any is eligible. The caller keeps running. Unlocking a mutex the caller
// does not hold fails with ErrMutexNotHeld.
func MutexUnlock() error {
	return internal.MutexUnlock()
}

// GetTID returns the id of the calling thread.
func GetTID() int {
	return internal.GetTID()
}

// GetTotalQuantums returns the number of quanta since Init, including the
// running one. It is at least 1.
func GetTotalQuantums() int {
	return internal.GetTotalQuantums()
}

// GetQuantums returns the number of quanta the thread with the given id has
// spent running. A running thread's current quantum is included, so a thread
// asking about itself sees at least 1.
func GetQuantums(tid int) (int, error) {
	return internal.GetQuantums(tid)
}

// Stats returns a consistent snapshot of the scheduler state. For
// diagnostics and demos; the scheduler itself never reads it.
func Stats() Snapshot {
	return internal.Stats()
}
