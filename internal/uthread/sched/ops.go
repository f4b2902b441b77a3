package sched

import (
	"os"

	"github.com/kolkov/uthreads/internal/uthread/report"
	"github.com/kolkov/uthreads/internal/uthread/thread"
)

// Spawn creates a thread running f and appends it to the ready queue. The
// new thread's id is the lowest one free. When f returns, the thread
// terminates itself.
func Spawn(f func()) (int, error) {
	mask()
	defer unmask()

	id, ok := col.Create(func() {
		f()
		exitSpawned()
	})
	if !ok {
		report.LibError(msgMaxThreads)
		return -1, ErrTooManyThreads
	}
	return id, nil
}

// exitSpawned terminates the thread whose entry function returned. Runs on
// that thread, unmasked, and does not return.
func exitSpawned() {
	mask()
	midQuantumSwitch(disposal{kind: disposeTerminate, tid: col.CurrentID()})
}

// Terminate deletes the thread with the given id.
//
// Terminating the main thread terminates the whole process, successfully.
// A thread terminating itself is deleted inside its own switch, after the
// successor has been popped into current; its goroutine then exits instead
// of parking, so the call does not return. Terminating the mutex holder releases
// the mutex and admits a waiter.
func Terminate(tid int) error {
	mask()
	if tid == thread.MainID {
		os.Exit(0)
	}
	if !col.Contains(tid) {
		report.LibError(msgNoSuchThread)
		unmask()
		return ErrNoSuchThread
	}
	if tid == col.CurrentID() {
		midQuantumSwitch(disposal{kind: disposeTerminate, tid: tid})
	}
	finishTerminate(tid)
	unmask()
	return nil
}

// Block suspends the thread with the given id until Resume. Blocking the
// main thread or an unknown id fails; blocking an already-blocked thread is
// a no-op. A thread blocking itself yields immediately.
func Block(tid int) error {
	mask()
	if tid == thread.MainID || !col.Contains(tid) {
		report.LibError(msgNoSuchThread)
		unmask()
		return ErrNoSuchThread
	}
	if tid == col.CurrentID() {
		midQuantumSwitch(disposal{kind: disposeBlock, tid: tid})
	} else {
		col.Block(tid)
	}
	unmask()
	return nil
}

// Resume clears the blocked state of the thread with the given id and makes
// it ready, unless it is still waiting on the mutex, already ready, or
// running; those are no-ops. An unknown id fails.
func Resume(tid int) error {
	mask()
	defer unmask()

	if !col.Resume(tid) {
		report.LibError(msgNoSuchThread)
		return ErrNoSuchThread
	}
	return nil
}

// GetTID returns the id of the calling thread.
func GetTID() int {
	mask()
	defer unmask()
	return col.CurrentID()
}

// GetTotalQuantums returns the number of quanta since Init, the running one
// included. It is at least 1.
func GetTotalQuantums() int {
	mask()
	defer unmask()
	return totalQuantums
}

// GetQuantums returns the number of quanta the thread with the given id has
// spent running, its current quantum included if it is the running thread.
func GetQuantums(tid int) (int, error) {
	mask()
	defer unmask()

	t := col.Get(tid)
	if t == nil {
		report.LibError(msgNoSuchThread)
		return -1, ErrNoSuchThread
	}
	return t.Quantums, nil
}
