package secret

import "errors"

var (
	// ErrEmpty is returned when a passphrase has no content bytes.
	ErrEmpty = errors.New("passphrase is empty")

	// ErrAllocation is returned when backing memory for a buffer could not
	// be obtained.
	ErrAllocation = errors.New("allocating secret memory")
)
