// Package collection manages the directory of live threads and their
// scheduling state: the FIFO ready queue, the blocked set, the mutex-waiter
// set, and the pool of free ids.
//
// The collection is pure bookkeeping. It never transfers control between
// threads and never touches a gate except to kill the gates of terminated
// threads; context switching is the scheduler's job. All methods assume the
// caller holds the scheduler's critical section (the timer mask), so no
// locking happens here.
//
// State partition: at any time each live thread is in exactly one of four
// places: running (the current id), the ready queue, the blocked set, or
// suspended on the mutex. The one overlap: a mutex waiter may additionally
// be blocked. Ids not backing a live thread sit in the free pool, and the lowest
// free id is always the next one handed out.
package collection
