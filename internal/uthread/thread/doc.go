// Package thread implements the per-thread record and the context primitive
// for the user-level thread library.
//
// Each logical thread is backed by a goroutine that is parked on a Gate: a
// one-token hand-off channel. Parking on the gate is the save point of the
// thread's execution context; depositing the token is the restore. A thread
// that has never run is a goroutine parked in front of its entry function, so
// resuming a fresh thread and resuming a previously suspended one go through
// the same primitive; the only difference is where the goroutine happens to
// be parked.
//
// The gate is the single place in the library where control transfers between
// goroutines. Everything above it (the collection, the scheduler) reasons
// about threads purely by id and never touches a channel.
//
// Thread Safety: a Gate is driven by the scheduler under its critical-section
// discipline; at most one token is ever outstanding and at most one goroutine
// parks on it.
package thread
