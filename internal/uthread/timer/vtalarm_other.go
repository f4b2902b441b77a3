//go:build !linux

package timer

// NewVirtual returns the best available periodic source on this platform.
// Without a virtual interval timer the wall clock stands in for CPU time.
func NewVirtual() Source {
	return NewTicker()
}
