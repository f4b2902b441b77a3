package sched

import "time"

// Snapshot is a read-only view of the scheduler state, taken under the mask.
// For diagnostics and demos; nothing in the library consumes it.
type Snapshot struct {
	// CurrentID is the running thread.
	CurrentID int

	// Quantum is the configured quantum length.
	Quantum time.Duration

	// TotalQuantums is the process-wide quantum count.
	TotalQuantums int

	// Live holds every existing thread id, ascending.
	Live []int

	// Ready is the ready queue in FIFO order.
	Ready []int

	// Blocked holds the explicitly blocked ids, ascending.
	Blocked []int

	// MutexWaiters holds the ids suspended on the mutex, ascending. An id
	// may appear in both Blocked and MutexWaiters.
	MutexWaiters []int

	// MutexLocked and MutexHolder describe the library mutex; the holder is
	// -1 when unlocked.
	MutexLocked bool
	MutexHolder int
}

// Stats captures a consistent snapshot of the scheduler.
func Stats() Snapshot {
	mask()
	defer unmask()

	return Snapshot{
		CurrentID:     col.CurrentID(),
		Quantum:       quantum,
		TotalQuantums: totalQuantums,
		Live:          col.LiveIDs(),
		Ready:         col.ReadyIDs(),
		Blocked:       col.BlockedIDs(),
		MutexWaiters:  col.MutexWaiterIDs(),
		MutexLocked:   mtx.locked,
		MutexHolder:   mtx.holder,
	}
}
