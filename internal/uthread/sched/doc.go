// Package sched implements the scheduler: the critical-section (mask)
// discipline, the context-switch protocol, the preemption tick handler, the
// library mutex, and every public operation of the thread library.
//
// # Model
//
// All logical threads share one processor. Exactly one thread, the current
// one, is unparked at any instant; every other live thread's goroutine is
// parked on its gate. The only other goroutine in play is the tick source's
// drain, and it does exactly one thing: latch a pending tick.
//
// Every public operation masks on entry and unmasks on exit. The mask is the
// scheduler's mutex; while it is held, no tick is acted upon. Unmasking
// delivers any latched tick by running the tick handler on the calling
// goroutine, which by the model above is always the current thread. A
// thread is therefore preempted at the first library call it makes after the
// quantum expires, the Go rendition of a signal arriving at the first
// non-masked instruction. Code that never calls into the library is never
// preempted; the scheduling contracts hold at every library call boundary.
//
// # Switching
//
// A context switch runs entirely on the yielding thread's goroutine while
// masked: count the new quantum, pop the next thread from the ready queue,
// dispose of the yielding thread (ready, blocked, mutex-waiter, or
// terminated), credit the incoming thread's quantum, then unpark it and park
// or exit when the yielding thread terminated itself. An incoming thread that
// ran before wakes inside its own earlier switch, re-acquires the mask, and
// finishes whatever operation it yielded from; a thread that never ran starts
// its entry function unmasked.
//
// Voluntary switches rearm the tick source first so the incoming thread gets
// a full fresh quantum.
//
// All operations presuppose Init; the library is not re-entrant across OS
// threads that bypass the scheduler.
package sched
