package sched

import (
	"errors"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/kolkov/uthreads/internal/uthread/report"
	"github.com/kolkov/uthreads/internal/uthread/timer"
)

// newSched initializes the scheduler on the test goroutine (which becomes
// the main thread) with a manual tick source, and tears everything down when
// the test ends. Diagnostics are silenced; tests asserting on them install
// their own writer.
func newSched(t *testing.T, quantumUsecs int) *timer.Manual {
	t.Helper()
	t.Cleanup(report.SetOutput(io.Discard))

	m := timer.NewManual()
	Reset()
	if err := Init(quantumUsecs, m); err != nil {
		t.Fatalf("Init(%d) = %v", quantumUsecs, err)
	}
	t.Cleanup(Reset)
	return m
}

// tick expires the current quantum and delivers it at the next library call.
// Must be called by the running thread.
func tick(m *timer.Manual) {
	m.Fire()
	GetTID()
}

// TestInitRejectsNonPositiveQuantum verifies init failure leaves the timer
// unarmed.
func TestInitRejectsNonPositiveQuantum(t *testing.T) {
	var buf strings.Builder
	defer report.SetOutput(&buf)()
	m := timer.NewManual()
	Reset()
	t.Cleanup(Reset)

	for _, q := range []int{0, -1, -100000} {
		if err := Init(q, m); !errors.Is(err, ErrNonPositiveQuantum) {
			t.Errorf("Init(%d) = %v, want ErrNonPositiveQuantum", q, err)
		}
	}
	if err := m.Rearm(); err != timer.ErrNotStarted {
		t.Error("failed Init armed the tick source")
	}
	if !strings.Contains(buf.String(), "thread library error: ") {
		t.Errorf("diagnostic = %q, want thread library error prefix", buf.String())
	}
}

// TestInitStartsFirstQuantum verifies the state right after Init: main is
// running inside quantum 1.
func TestInitStartsFirstQuantum(t *testing.T) {
	newSched(t, 100000)

	if got := GetTID(); got != 0 {
		t.Errorf("GetTID() = %d, want 0", got)
	}
	if got := GetTotalQuantums(); got != 1 {
		t.Errorf("GetTotalQuantums() = %d, want 1", got)
	}
	if got, err := GetQuantums(0); err != nil || got != 1 {
		t.Errorf("GetQuantums(0) = %d, %v; want 1, nil", got, err)
	}
}

// TestRoundRobin verifies FIFO rotation across main and two spawned threads:
// one quantum each, in spawn order.
func TestRoundRobin(t *testing.T) {
	m := newSched(t, 100000)

	var order []int
	body := func() {
		for {
			order = append(order, GetTID())
			tick(m)
		}
	}
	idA, err := Spawn(body)
	if err != nil {
		t.Fatalf("Spawn(A) = %v", err)
	}
	idB, err := Spawn(body)
	if err != nil {
		t.Fatalf("Spawn(B) = %v", err)
	}
	if idA != 1 || idB != 2 {
		t.Fatalf("spawned ids = %d, %d; want 1, 2", idA, idB)
	}

	for i := 0; i < 3; i++ {
		order = append(order, GetTID())
		tick(m)
	}

	want := []int{0, 1, 2, 0, 1, 2, 0, 1, 2}
	if !slices.Equal(order, want) {
		t.Errorf("scheduling order = %v, want %v", order, want)
	}

	if err := Terminate(idA); err != nil {
		t.Errorf("Terminate(A) = %v", err)
	}
	if err := Terminate(idB); err != nil {
		t.Errorf("Terminate(B) = %v", err)
	}
}

// TestQuantumAccounting verifies the per-quantum increments: exactly one for
// the process and one for the incoming thread, credited before the thread
// observes anything.
func TestQuantumAccounting(t *testing.T) {
	m := newSched(t, 10000)

	var total, q0, qA int
	idA, err := Spawn(func() {
		total = GetTotalQuantums()
		q0, _ = GetQuantums(0)
		qA, _ = GetQuantums(1)
		for {
			tick(m)
		}
	})
	if err != nil {
		t.Fatalf("Spawn(A) = %v", err)
	}

	tick(m) // quantum 2 goes to A; A yields back on its own tick

	if total != 2 {
		t.Errorf("A saw GetTotalQuantums() = %d, want 2", total)
	}
	if q0 != 1 {
		t.Errorf("A saw GetQuantums(0) = %d, want 1", q0)
	}
	if qA != 1 {
		t.Errorf("A saw GetQuantums(A) = %d, want 1", qA)
	}

	// A's tick opened quantum 3, back on main.
	if got := GetTotalQuantums(); got != 3 {
		t.Errorf("GetTotalQuantums() = %d, want 3", got)
	}
	if got, _ := GetQuantums(0); got != 2 {
		t.Errorf("GetQuantums(0) = %d, want 2", got)
	}
	if got, _ := GetQuantums(idA); got != 1 {
		t.Errorf("GetQuantums(A) = %d, want 1", got)
	}

	Terminate(idA)
}

// TestTickWithoutPeerKeepsRunning verifies a tick with nothing ready does
// not switch but still opens a new quantum.
func TestTickWithoutPeerKeepsRunning(t *testing.T) {
	m := newSched(t, 10000)

	tick(m)
	tick(m)

	if got := GetTID(); got != 0 {
		t.Errorf("GetTID() = %d, want 0", got)
	}
	if got := GetTotalQuantums(); got != 3 {
		t.Errorf("GetTotalQuantums() = %d, want 3", got)
	}
	if got, _ := GetQuantums(0); got != 3 {
		t.Errorf("GetQuantums(0) = %d, want 3", got)
	}
}

// TestBlockMainFails verifies the main thread cannot be blocked.
func TestBlockMainFails(t *testing.T) {
	newSched(t, 100000)

	if err := Block(0); !errors.Is(err, ErrNoSuchThread) {
		t.Errorf("Block(0) = %v, want ErrNoSuchThread", err)
	}
}

// TestBlockAndResume verifies a blocked thread stays off the processor and
// runs again after resume.
func TestBlockAndResume(t *testing.T) {
	m := newSched(t, 100000)

	ran := false
	idA, err := Spawn(func() {
		ran = true
		for {
			tick(m)
		}
	})
	if err != nil {
		t.Fatalf("Spawn(A) = %v", err)
	}

	if err := Block(idA); err != nil {
		t.Fatalf("Block(A) = %v", err)
	}
	tick(m) // nothing ready: main keeps running
	if ran {
		t.Fatal("blocked thread ran")
	}
	if got := GetTID(); got != 0 {
		t.Errorf("GetTID() = %d, want 0", got)
	}

	// Blocking again is a no-op, not an error.
	if err := Block(idA); err != nil {
		t.Errorf("Block(A) again = %v, want nil", err)
	}

	if err := Resume(idA); err != nil {
		t.Fatalf("Resume(A) = %v", err)
	}
	tick(m) // now A runs
	if !ran {
		t.Error("resumed thread did not run")
	}

	Terminate(idA)
}

// TestBlockSelfYields verifies a thread blocking itself switches away
// immediately and that the voluntary switch rearms the timer.
func TestBlockSelfYields(t *testing.T) {
	m := newSched(t, 100000)

	resumed := false
	idA, err := Spawn(func() {
		Block(GetTID()) // returns only after Resume + reschedule
		resumed = true
		for {
			tick(m)
		}
	})
	if err != nil {
		t.Fatalf("Spawn(A) = %v", err)
	}

	tick(m) // A runs, blocks itself, control returns to main
	if resumed {
		t.Fatal("self-blocked thread kept running")
	}
	if got := Stats().Blocked; !slices.Equal(got, []int{idA}) {
		t.Errorf("blocked set = %v, want [%d]", got, idA)
	}
	if m.Rearms() == 0 {
		t.Error("self-block did not rearm the timer")
	}

	if err := Resume(idA); err != nil {
		t.Fatalf("Resume(A) = %v", err)
	}
	tick(m)
	if !resumed {
		t.Error("thread did not resume past its self-block")
	}

	Terminate(idA)
}

// TestSelfTerminateReclaimsID verifies a thread terminating itself is
// deleted and its id is the next one spawned.
func TestSelfTerminateReclaimsID(t *testing.T) {
	m := newSched(t, 100000)

	idA, err := Spawn(func() {
		Terminate(GetTID()) // does not return
	})
	if err != nil {
		t.Fatalf("Spawn(A) = %v", err)
	}
	if idA != 1 {
		t.Fatalf("Spawn(A) = %d, want 1", idA)
	}

	tick(m) // A runs and self-terminates; control returns to main

	if _, err := GetQuantums(idA); !errors.Is(err, ErrNoSuchThread) {
		t.Errorf("GetQuantums(A) after self-terminate = %v, want ErrNoSuchThread", err)
	}
	idB, err := Spawn(func() {})
	if err != nil {
		t.Fatalf("Spawn(B) = %v", err)
	}
	if idB != 1 {
		t.Errorf("Spawn(B) = %d, want reclaimed id 1", idB)
	}

	Terminate(idB)
}

// TestEntryReturnTerminates verifies a thread whose entry function returns
// is terminated as if it had terminated itself.
func TestEntryReturnTerminates(t *testing.T) {
	m := newSched(t, 100000)

	idA, err := Spawn(func() {})
	if err != nil {
		t.Fatalf("Spawn(A) = %v", err)
	}

	tick(m) // A runs, returns, self-terminates

	if _, err := GetQuantums(idA); !errors.Is(err, ErrNoSuchThread) {
		t.Errorf("GetQuantums(A) after entry return = %v, want ErrNoSuchThread", err)
	}
	if got := GetTID(); got != 0 {
		t.Errorf("GetTID() = %d, want 0", got)
	}
}

// TestTerminateUnknown verifies terminating a dead id fails and the mask is
// released on the error path.
func TestTerminateUnknown(t *testing.T) {
	newSched(t, 100000)

	if err := Terminate(42); !errors.Is(err, ErrNoSuchThread) {
		t.Errorf("Terminate(42) = %v, want ErrNoSuchThread", err)
	}
	if got := GetTID(); got != 0 { // would deadlock on a leaked mask
		t.Errorf("GetTID() = %d, want 0", got)
	}
}

// TestResumeNoOp verifies resuming a ready thread succeeds without touching
// the queue, and resuming an unknown id fails.
func TestResumeNoOp(t *testing.T) {
	newSched(t, 100000)

	idA, err := Spawn(func() {})
	if err != nil {
		t.Fatalf("Spawn(A) = %v", err)
	}

	if err := Resume(idA); err != nil {
		t.Errorf("Resume(ready) = %v, want nil", err)
	}
	if got := Stats().Ready; !slices.Equal(got, []int{idA}) {
		t.Errorf("ready queue = %v after no-op resume, want [%d]", got, idA)
	}

	if err := Resume(42); !errors.Is(err, ErrNoSuchThread) {
		t.Errorf("Resume(42) = %v, want ErrNoSuchThread", err)
	}

	Terminate(idA)
}

// TestSpawnExhaustion verifies the pool bound: ids run dense from 1 and the
// spawn that would exceed MaxThreadNum fails.
func TestSpawnExhaustion(t *testing.T) {
	newSched(t, 100000)

	for want := 1; want < MaxThreadNum; want++ {
		id, err := Spawn(func() {})
		if err != nil {
			t.Fatalf("Spawn() %d = %v", want, err)
		}
		if id != want {
			t.Fatalf("Spawn() = %d, want %d", id, want)
		}
	}
	if id, err := Spawn(func() {}); !errors.Is(err, ErrTooManyThreads) {
		t.Errorf("Spawn() beyond the limit = %d, %v; want ErrTooManyThreads", id, err)
	}
}

// TestGetQuantumsUnknownReleasesMask verifies the error path unmasks: a
// leaked mask would deadlock the next operation.
func TestGetQuantumsUnknownReleasesMask(t *testing.T) {
	newSched(t, 100000)

	if got, err := GetQuantums(7); !errors.Is(err, ErrNoSuchThread) || got != -1 {
		t.Errorf("GetQuantums(7) = %d, %v; want -1, ErrNoSuchThread", got, err)
	}
	if got := GetTID(); got != 0 {
		t.Errorf("GetTID() = %d, want 0", got)
	}
}

// TestStatsSnapshot verifies the diagnostic snapshot reflects the scheduler
// structures.
func TestStatsSnapshot(t *testing.T) {
	newSched(t, 100000)

	idA, _ := Spawn(func() {})
	idB, _ := Spawn(func() {})
	Block(idB)
	if err := MutexLock(); err != nil {
		t.Fatalf("MutexLock() = %v", err)
	}

	s := Stats()
	if s.CurrentID != 0 {
		t.Errorf("CurrentID = %d, want 0", s.CurrentID)
	}
	if !slices.Equal(s.Live, []int{0, idA, idB}) {
		t.Errorf("Live = %v, want [0 %d %d]", s.Live, idA, idB)
	}
	if !slices.Equal(s.Ready, []int{idA}) {
		t.Errorf("Ready = %v, want [%d]", s.Ready, idA)
	}
	if !slices.Equal(s.Blocked, []int{idB}) {
		t.Errorf("Blocked = %v, want [%d]", s.Blocked, idB)
	}
	if !s.MutexLocked || s.MutexHolder != 0 {
		t.Errorf("mutex = (%v, %d), want (true, 0)", s.MutexLocked, s.MutexHolder)
	}
	if s.TotalQuantums != 1 {
		t.Errorf("TotalQuantums = %d, want 1", s.TotalQuantums)
	}

	MutexUnlock()
	Terminate(idA)
	Terminate(idB)
}
