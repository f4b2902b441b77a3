package thread

import "runtime"

// MainID is the id of the main thread. The main thread reuses the goroutine
// that initialized the library and owns no spawned goroutine of its own.
const MainID = 0

// Gate is the suspension point of one logical thread.
//
// Park blocks the calling goroutine until a token arrives (Unpark) and is the
// moment the thread's context is "saved": when the token arrives, control
// resumes exactly here. Kill wakes a parked goroutine and makes it exit
// instead of resuming, which is how the library reclaims the goroutine of a
// terminated thread.
type Gate struct {
	token  chan struct{}
	killed chan struct{}
}

func newGate() *Gate {
	return &Gate{
		token:  make(chan struct{}, 1),
		killed: make(chan struct{}),
	}
}

// Park suspends the calling goroutine until the gate is unparked. If the
// thread is killed while parked, the goroutine exits instead of returning.
func (g *Gate) Park() {
	select {
	case <-g.token:
	case <-g.killed:
		runtime.Goexit()
	}
}

// Unpark deposits the single resume token. The scheduler guarantees at most
// one outstanding token per gate, so the send never blocks.
func (g *Gate) Unpark() {
	g.token <- struct{}{}
}

// Kill marks the thread dead. A goroutine currently parked on the gate, or
// one that parks later, exits via runtime.Goexit. Kill must be called at most
// once, which the collection guarantees by removing the thread first.
func (g *Gate) Kill() {
	close(g.killed)
}

// Thread is the record of one logical thread: its identity, its running-time
// accounting, and the gate holding its suspended context.
type Thread struct {
	// ID is the thread's identity. Ids are dense in [0, MaxThreadNum) and
	// reused after termination; 0 is always the main thread.
	ID int

	// Quantums counts the quanta this thread has spent in the running state,
	// including the one it is currently in if it is running.
	Quantums int

	gate *Gate
}

// New creates the record for a spawned thread and starts its backing
// goroutine, parked in front of run. The goroutine does not execute any part
// of run until the gate is first unparked.
//
// run is the scheduler-supplied wrapper around the user entry function; it
// does not return (the wrapper terminates the thread when the entry function
// finishes).
func New(id int, run func()) *Thread {
	t := &Thread{
		ID:   id,
		gate: newGate(),
	}
	go func() {
		t.gate.Park()
		run()
	}()
	return t
}

// NewMain creates the record for the main thread. It adopts the calling
// goroutine as its context and starts with one quantum on the clock: the
// quantum that begins at initialization.
func NewMain() *Thread {
	return &Thread{
		ID:       MainID,
		Quantums: 1,
		gate:     newGate(),
	}
}

// Gate returns the thread's suspension gate.
func (t *Thread) Gate() *Gate {
	return t.gate
}
