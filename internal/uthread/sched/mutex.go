package sched

import "github.com/kolkov/uthreads/internal/uthread/report"

// noHolder is the mutex holder when the mutex is unlocked.
const noHolder = -1

// mutexState is the library's single binary mutex. It lives with the rest of
// the scheduler state because releasing it interacts with the waiter set and
// with termination.
type mutexState struct {
	locked bool
	holder int
}

// MutexLock acquires the mutex for the calling thread. Locking a mutex the
// caller already holds fails: the mutex is not reentrant. While another
// thread holds it, the caller enrolls as a mutex waiter and yields; each
// time it is scheduled again it re-checks, so a lock that was snatched in
// between simply re-enrolls it.
func MutexLock() error {
	mask()
	if mtx.holder == col.CurrentID() {
		report.LibError(msgMutexReentry)
		unmask()
		return ErrMutexHeld
	}
	for mtx.locked {
		midQuantumSwitch(disposal{kind: disposeWaitMutex, tid: col.CurrentID()})
	}
	mtx.locked = true
	mtx.holder = col.CurrentID()
	unmask()
	return nil
}

// MutexUnlock releases the mutex and admits one eligible waiter to the ready
// queue. Unlocking a mutex that is not locked, or locked by another thread,
// fails. The unlocking thread does not yield; it keeps its quantum.
func MutexUnlock() error {
	mask()
	if !mtx.locked || mtx.holder != col.CurrentID() {
		report.LibError(msgMutexNotHeld)
		unmask()
		return ErrMutexNotHeld
	}
	mtx.locked = false
	mtx.holder = noHolder
	col.AdvanceMutexLine()
	unmask()
	return nil
}
