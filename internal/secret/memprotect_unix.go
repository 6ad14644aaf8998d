//go:build linux || darwin

package secret

import "golang.org/x/sys/unix"

// DisableCoreDumps sets RLIMIT_CORE to 0 to keep passphrases and keys out of
// core files. Callers treat failure as non-fatal.
func DisableCoreDumps() error {
	return unix.Setrlimit(unix.RLIMIT_CORE, &unix.Rlimit{Cur: 0, Max: 0})
}
