package timer

import (
	"sync"
	"time"
)

// Ticker is a wall-clock Source backed by a time.Ticker. It overestimates
// virtual time for a process that sleeps or blocks, but behaves identically
// for CPU-bound work and exists for platforms without a virtual interval
// timer.
type Ticker struct {
	mu     sync.Mutex
	period time.Duration
	ticker *time.Ticker
	done   chan struct{}
}

// NewTicker returns an unarmed wall-clock source.
func NewTicker() *Ticker {
	return &Ticker{}
}

// Start arms the ticker and begins delivering fires every period.
func (tk *Ticker) Start(period time.Duration, fire func()) error {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	tk.period = period
	tk.ticker = time.NewTicker(period)
	tk.done = make(chan struct{})
	go tk.loop(tk.ticker, tk.done, fire)
	return nil
}

func (tk *Ticker) loop(ticker *time.Ticker, done chan struct{}, fire func()) {
	for {
		select {
		case <-ticker.C:
			fire()
		case <-done:
			return
		}
	}
}

// Rearm restarts the current period from now.
func (tk *Ticker) Rearm() error {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	if tk.ticker == nil {
		return ErrNotStarted
	}
	tk.ticker.Reset(tk.period)
	return nil
}

// Stop disarms the ticker and stops its drain goroutine.
func (tk *Ticker) Stop() {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	if tk.ticker == nil {
		return
	}
	tk.ticker.Stop()
	close(tk.done)
	tk.ticker = nil
}
