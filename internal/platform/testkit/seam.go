package testkit

import (
	"sync"
	"testing"
)

// Swap points *target at replacement until the test ends. Use it on the
// package level func vars that stand in for clocks, dialers and decoders
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	saved := *target
	*target = replacement
	t.Cleanup(func() { *target = saved })
}

var serial sync.Mutex

// Serial holds a process wide lock for the rest of the test, so tests that
// Swap shared seams never overlap
func Serial(t *testing.T) {
	t.Helper()
	serial.Lock()
	t.Cleanup(serial.Unlock)
}
