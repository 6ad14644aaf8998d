package crypto

import "errors"

var (
	// ErrInvalidHex is returned when text contains a non-hexadecimal digit.
	ErrInvalidHex = errors.New("invalid hex")

	// ErrKdfUnavailable is returned when the PBKDF2 backend fails its
	// start-up check.
	ErrKdfUnavailable = errors.New("key derivation unavailable")

	// ErrInvalidParameter is returned for a non-positive iteration count or
	// output length.
	ErrInvalidParameter = errors.New("invalid parameter")
)
