package sched

import (
	"runtime"

	"github.com/kolkov/uthreads/internal/uthread/report"
)

// disposal says what happens to the yielding thread once the switch has
// moved the scheduler off it. A small tagged value rather than a closure:
// the switch path runs on every preemption.
type disposal struct {
	kind disposeKind
	tid  int
}

type disposeKind int

const (
	// disposeReady re-queues the yielding thread; a preemption.
	disposeReady disposeKind = iota

	// disposeBlock moves the yielding thread to the blocked set.
	disposeBlock

	// disposeWaitMutex enrolls the yielding thread as a mutex waiter.
	disposeWaitMutex

	// disposeTerminate deletes the yielding thread. Its goroutine exits
	// instead of parking.
	disposeTerminate
)

func (d disposal) apply() {
	switch d.kind {
	case disposeReady:
		col.MarkReady(d.tid)
	case disposeBlock:
		col.Block(d.tid)
	case disposeWaitMutex:
		col.WaitForMutex(d.tid)
	case disposeTerminate:
		finishTerminate(d.tid)
	}
}

// switchThreads transfers control from the current thread to the front of
// the ready queue. The caller holds the mask and is the current thread.
//
// The protocol, in order: count the new quantum, pop the successor into
// current, dispose of the yielding thread (after the pop, so a re-queued
// thread passes the MarkReady current-id guard), credit the successor's
// quantum, then hand off. The yielding goroutine parks and, when some later
// switch selects its thread again, resumes here holding the mask again, or
// exits if it terminated itself.
func switchThreads(d disposal) {
	totalQuantums++
	prev := col.Current()
	col.PopNextRunning()
	d.apply()
	next := col.Current()
	next.Quantums++

	if d.kind == disposeTerminate {
		mu.Unlock()
		next.Gate().Unpark()
		runtime.Goexit()
	}

	gate := prev.Gate()
	mu.Unlock()
	next.Gate().Unpark()
	gate.Park()
	mu.Lock()
}

// midQuantumSwitch is a voluntary switch outside the tick handler. The tick
// source is rearmed first so the incoming thread gets a full fresh quantum.
func midQuantumSwitch(d disposal) {
	if err := src.Rearm(); err != nil {
		report.SystemFatal(msgTimerError)
	}
	switchThreads(d)
}

// handleTick is the preemption handler, run at tick delivery with the mask
// held. With no thread ready the current thread keeps the processor and the
// tick still opens a new quantum; otherwise the current thread is preempted
// and re-queued.
func handleTick() {
	if !col.HasReady() {
		totalQuantums++
		col.Current().Quantums++
		return
	}
	switchThreads(disposal{kind: disposeReady, tid: col.CurrentID()})
}

// finishTerminate removes the thread and, if it held the mutex, releases the
// mutex and admits a waiter. Shared by direct termination and the
// post-switch disposal of a self-terminating thread.
func finishTerminate(tid int) {
	col.Terminate(tid)
	if mtx.holder == tid {
		mtx.locked = false
		mtx.holder = noHolder
		col.AdvanceMutexLine()
	}
}
