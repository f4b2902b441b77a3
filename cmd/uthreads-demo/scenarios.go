// scenarios.go defines the demo scenarios.
//
// Every scenario initializes the library on the process's main goroutine
// (thread 0) and drives scheduling with CPU-burning spin loops: preemption
// is delivered at library calls, so the spins poll the scheduler while they
// burn the quantum down.
package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/davecgh/go-spew/spew"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/kolkov/uthreads/uthread"
)

// demoQuantumUsecs is the quantum used by the scenarios: long enough to
// print inside, short enough that a demo finishes instantly.
const demoQuantumUsecs = 10000

type scenario struct {
	name     string
	describe string
	run      func()
}

var scenarios = []scenario{
	{"roundrobin", "three threads rotate in FIFO order, one quantum each", runRoundRobin},
	{"accounting", "per-thread and process-wide quantum counters", runAccounting},
	{"cpu", "quantum accounting cross-checked against process CPU time", runCPU},
	{"mutex", "two threads serialize a critical section with the mutex", runMutex},
	{"blockresume", "a thread is suspended and revived from outside", runBlockResume},
	{"selfterminate", "threads terminate themselves; ids are reused; main exits the process", runSelfTerminate},
	{"state", "dump of a scheduler snapshot mid-flight", runState},
}

func mustInit() {
	if err := uthread.Init(demoQuantumUsecs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: init: %v\n", err)
		os.Exit(1)
	}
}

// spinQuantums burns CPU until the process has opened n more quanta.
func spinQuantums(n int) {
	target := uthread.GetTotalQuantums() + n
	for uthread.GetTotalQuantums() < target {
	}
}

// spinUntil burns CPU until cond holds. cond is re-read once per scheduler
// poll.
func spinUntil(cond *bool) {
	for !*cond {
		_ = uthread.GetTID()
	}
}

func runRoundRobin() {
	fmt.Println("=== Round-Robin Rotation ===")
	mustInit()

	worker := func() {
		seen := 0
		for {
			if q, _ := uthread.GetQuantums(uthread.GetTID()); q > seen {
				seen = q
				fmt.Printf("thread %d: quantum %d\n", uthread.GetTID(), seen)
			}
		}
	}
	uthread.Spawn(worker)
	uthread.Spawn(worker)

	seen := 0
	for uthread.GetTotalQuantums() < 10 {
		if q, _ := uthread.GetQuantums(0); q > seen {
			seen = q
			fmt.Printf("thread 0: quantum %d\n", seen)
		}
	}
	fmt.Println("ten quanta elapsed, rotation over")
}

func runAccounting() {
	fmt.Println("=== Quantum Accounting ===")
	mustInit()

	id, _ := uthread.Spawn(func() {
		for {
			_ = uthread.GetTID()
		}
	})

	fmt.Printf("after init: total=%d main=%d\n",
		uthread.GetTotalQuantums(), mustQuantums(0))

	spinQuantums(4)

	qMain := mustQuantums(0)
	qWorker := mustQuantums(id)
	total := uthread.GetTotalQuantums()
	fmt.Printf("after %d quanta: main=%d worker=%d\n", total, qMain, qWorker)
	if qMain+qWorker != total {
		fmt.Println("WARNING: per-thread counts do not sum to the total")
	} else {
		fmt.Println("per-thread counts sum to the total")
	}
}

func runCPU() {
	fmt.Println("=== Quanta vs. Process CPU Time ===")
	mustInit()

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: process handle: %v\n", err)
		os.Exit(1)
	}
	before, err := proc.Times()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cpu times: %v\n", err)
		os.Exit(1)
	}

	const quanta = 50
	spinQuantums(quanta)

	after, err := proc.Times()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cpu times: %v\n", err)
		os.Exit(1)
	}

	billed := float64(quanta) * float64(demoQuantumUsecs) / 1e6
	burned := (after.User + after.System) - (before.User + before.System)
	fmt.Printf("billed %d quanta = %.2fs of virtual time\n", quanta, billed)
	fmt.Printf("process consumed %.2fs of CPU meanwhile\n", burned)
	fmt.Println("(virtual time only advances while the process runs, so the two should be close)")
}

func runMutex() {
	fmt.Println("=== Mutex Contention ===")
	mustInit()

	workersDone := 0
	worker := func() {
		id := uthread.GetTID()
		if err := uthread.MutexLock(); err != nil {
			fmt.Printf("thread %d: lock: %v\n", id, err)
			return
		}
		fmt.Printf("thread %d: entered the critical section\n", id)
		spinQuantums(2) // hold the mutex across a preemption
		fmt.Printf("thread %d: leaving\n", id)
		uthread.MutexUnlock()
		workersDone++
		for {
			_ = uthread.GetTID()
		}
	}
	uthread.Spawn(worker)
	uthread.Spawn(worker)

	uthread.MutexLock()
	fmt.Println("thread 0: holding the mutex through one quantum")
	spinQuantums(2)
	uthread.MutexUnlock()

	for workersDone < 2 {
		_ = uthread.GetTID()
	}
	fmt.Println("all critical sections were serialized")
}

func runBlockResume() {
	fmt.Println("=== Block and Resume ===")
	mustInit()

	revived := false
	id, _ := uthread.Spawn(func() {
		fmt.Println("worker: first run, blocking myself")
		uthread.Block(uthread.GetTID())
		fmt.Println("worker: revived")
		revived = true
		for {
			_ = uthread.GetTID()
		}
	})

	spinQuantums(2) // let the worker run and self-block
	fmt.Printf("main: worker blocked=%v\n", slices.Contains(uthread.Stats().Blocked, id))

	uthread.Resume(id)
	spinUntil(&revived)
	fmt.Println("main: worker ran again after resume")
}

func runSelfTerminate() {
	fmt.Println("=== Self-Termination and Id Reuse ===")
	mustInit()

	gone := false
	first, _ := uthread.Spawn(func() {
		fmt.Printf("thread %d: terminating myself\n", uthread.GetTID())
		gone = true
		uthread.Terminate(uthread.GetTID())
	})
	fmt.Printf("spawned thread %d\n", first)

	spinUntil(&gone)

	second, _ := uthread.Spawn(func() {})
	fmt.Printf("next spawn reused id %d\n", second)

	fmt.Println("terminating main: the process exits successfully")
	uthread.Terminate(0)
	fmt.Println("unreachable")
}

func runState() {
	fmt.Println("=== Scheduler Snapshot ===")
	mustInit()

	spin := func() {
		for {
			_ = uthread.GetTID()
		}
	}
	a, _ := uthread.Spawn(spin)
	uthread.Spawn(spin)
	uthread.Block(a)
	uthread.MutexLock()

	spew.Dump(uthread.Stats())
}

func mustQuantums(tid int) int {
	q, err := uthread.GetQuantums(tid)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: quantums(%d): %v\n", tid, err)
		os.Exit(1)
	}
	return q
}
