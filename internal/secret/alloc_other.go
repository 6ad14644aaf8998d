//go:build !linux

package secret

// Without mmap the region lives on the Go heap. It is still zeroed before
// release, but the collector may have copied it earlier.
func allocRegion(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func freeRegion([]byte) error {
	return nil
}
