package derive

import (
	"errors"

	"github.com/antitree/Tomb/extras/kdf-keys/internal/crypto"
	"github.com/antitree/Tomb/extras/kdf-keys/internal/secret"
)

// Failure categories. Every error returned by Run or ParseArgs matches
// exactly one of these under errors.Is; ExitCode maps them to process exit
// codes.
var (
	ErrUsage            = errors.New("usage")
	ErrInvalidParameter = crypto.ErrInvalidParameter
	ErrInvalidSalt      = errors.New("invalid salt")
	ErrEmptyPassphrase  = secret.ErrEmpty
	ErrAllocation       = secret.ErrAllocation
	ErrKdfUnavailable   = crypto.ErrKdfUnavailable
	ErrIO               = errors.New("i/o error")
)

// Exit codes, kept compatible with scripts written against the C tool.
const (
	ExitOK             = 0
	ExitInvalidInput   = 1
	ExitKdfUnavailable = 2
	ExitAllocation     = 3
	ExitUsage          = 10
)

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.Is(err, ErrKdfUnavailable):
		return ExitKdfUnavailable
	case errors.Is(err, ErrAllocation):
		return ExitAllocation
	default:
		return ExitInvalidInput
	}
}
