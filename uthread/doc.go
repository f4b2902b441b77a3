// Package uthread provides user-level cooperative-preemptive threads: many
// logical threads multiplexed onto a single processor, scheduled round-robin
// in quanta of a caller-chosen length, with voluntary blocking/resuming and
// one library-wide binary mutex.
//
// # Quick Start
//
//	package main
//
//	import (
//		"fmt"
//
//		"github.com/kolkov/uthreads/uthread"
//	)
//
//	func main() {
//		if err := uthread.Init(100000); err != nil { // 100ms quanta
//			return
//		}
//		worker, _ := uthread.Spawn(func() {
//			fmt.Println("hello from thread", uthread.GetTID())
//			// returning terminates the thread
//		})
//		_ = worker
//		// ... main keeps running as thread 0 ...
//		uthread.Terminate(0) // ends the process
//	}
//
// # Model
//
// Exactly one thread runs at a time; the rest are ready (queued FIFO),
// blocked, or waiting on the mutex. A periodic virtual-time tick ends the
// running thread's quantum: the thread is preempted at its first library
// call after the tick and the front of the ready queue runs next. Voluntary
// suspensions (blocking yourself, terminating yourself, contending for the
// mutex) switch immediately and grant the successor a full fresh quantum.
//
// Preemption happens only at library calls: a thread that computes without
// ever calling into the package keeps the processor. Spread calls such as
// [GetTID] through long computations if rotation matters.
//
// # API Overview
//
//   - Lifecycle: [Init], [Spawn], [Terminate]
//   - Suspension: [Block], [Resume]
//   - Mutual exclusion: [MutexLock], [MutexUnlock]
//   - Introspection: [GetTID], [GetTotalQuantums], [GetQuantums], [Stats]
//
// Thread ids are dense integers in [0, MaxThreadNum); the main thread, the
// goroutine that called Init, is always id 0, and terminated ids are reused
// lowest-first. Quanta are counted from 1: right after Init the process has
// seen one quantum and the main thread has run for one.
//
// # Errors
//
// Caller mistakes (bad quantum, unknown id, blocking main, mutex misuse)
// print a "thread library error: " line on stderr and return a sentinel
// error. Failures of the host facilities the library consumes print a
// "system error: " line and terminate the process.
//
// # Caveats
//
// The library schedules logical threads, not OS threads: it is not
// re-entrant across goroutines it does not manage. Call the API only from
// the main thread or from spawned entry functions.
package uthread
