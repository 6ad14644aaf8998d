//go:build linux

package secret

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// allocRegion maps size bytes of anonymous memory outside the Go heap.
// Locking and dump exclusion are best-effort: an unprivileged process may be
// over its RLIMIT_MEMLOCK, and older kernels lack MADV_DONTDUMP.
func allocRegion(size int) ([]byte, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("mmap %d bytes: %w", size, err)
	}

	_ = unix.Mlock(data)
	_ = unix.Madvise(data, unix.MADV_DONTDUMP)

	return data, nil
}

func freeRegion(data []byte) error {
	_ = unix.Munlock(data)
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("secret: munmap failed: %w", err)
	}
	return nil
}
