package secret

import (
	"bytes"
	"fmt"
	"sync"
	"testing"
)

// captureReleases records a copy of every region as it is released, after
// zero-fill and before it goes back to the allocator.
func captureReleases(t testing.TB) func() [][]byte {
	t.Helper()

	var (
		mu       sync.Mutex
		released [][]byte
	)
	releaseHook = func(region []byte) {
		mu.Lock()
		defer mu.Unlock()
		released = append(released, bytes.Clone(region))
	}
	t.Cleanup(func() { releaseHook = nil })

	return func() [][]byte {
		mu.Lock()
		defer mu.Unlock()
		return released
	}
}

// refuseAllocationsAbove makes every allocation larger than limit bytes fail.
func refuseAllocationsAbove(t testing.TB, limit int) {
	t.Helper()

	allocHook = func(size int) error {
		if size > limit {
			return fmt.Errorf("mmap %d bytes: cannot allocate memory", size)
		}
		return nil
	}
	t.Cleanup(func() { allocHook = nil })
}
