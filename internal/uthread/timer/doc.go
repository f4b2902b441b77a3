// Package timer provides the periodic tick sources that drive preemption.
//
// A Source fires a callback once per quantum period. The scheduler latches
// each fire and acts on it at its next delivery point; sources never touch
// scheduler state themselves. Three implementations exist:
//
//   - Virtual: the real thing, measured in virtual (CPU) time. On Linux it
//     arms setitimer(ITIMER_VIRTUAL) and drains SIGVTALRM, so a quantum only
//     elapses while the process is actually consuming CPU. On platforms
//     without a virtual interval timer it degrades to wall-clock ticks.
//   - Ticker: wall-clock ticks from a time.Ticker.
//   - Manual: fires only when told to, for deterministic tests.
//
// Rearm restarts the current period from now. The scheduler calls it on every
// voluntary switch so the incoming thread gets a full fresh quantum.
package timer
