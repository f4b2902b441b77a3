//go:build linux

package timer

import (
	"os"
	"os/signal"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// Virtual is a Source measured in virtual (CPU) time: it arms the process's
// ITIMER_VIRTUAL interval timer and drains the resulting SIGVTALRM stream.
// The period only elapses while the process is running on a CPU, so a
// sleeping process is never billed a quantum.
type Virtual struct {
	mu      sync.Mutex
	period  time.Duration
	sigs    chan os.Signal
	done    chan struct{}
	started bool
}

// NewVirtual returns an unarmed virtual-time source.
func NewVirtual() Source {
	return &Virtual{}
}

// Start installs the SIGVTALRM drain and arms the interval timer.
func (v *Virtual) Start(period time.Duration, fire func()) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.period = period
	v.sigs = make(chan os.Signal, 1)
	v.done = make(chan struct{})
	signal.Notify(v.sigs, unix.SIGVTALRM)
	go v.loop(v.sigs, v.done, fire)

	if err := setVirtualTimer(period); err != nil {
		signal.Stop(v.sigs)
		close(v.done)
		return err
	}
	v.started = true
	return nil
}

func (v *Virtual) loop(sigs chan os.Signal, done chan struct{}, fire func()) {
	for {
		select {
		case <-sigs:
			fire()
		case <-done:
			return
		}
	}
}

// Rearm reloads the interval timer so the next period starts from now.
func (v *Virtual) Rearm() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.started {
		return ErrNotStarted
	}
	return setVirtualTimer(v.period)
}

// Stop disarms the timer and removes the signal drain.
func (v *Virtual) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.started {
		return
	}
	v.started = false
	_ = setVirtualTimer(0)
	signal.Stop(v.sigs)
	close(v.done)
}

// setVirtualTimer arms ITIMER_VIRTUAL with the given period as both the
// initial expiration and the reload interval. A zero period disarms it.
func setVirtualTimer(period time.Duration) error {
	tv := unix.NsecToTimeval(period.Nanoseconds())
	_, err := unix.Setitimer(unix.ItimerVirtual, unix.Itimerval{
		Interval: tv,
		Value:    tv,
	})
	return err
}
