package crypto

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"hash"
	"sync"

	"golang.org/x/crypto/pbkdf2"

	"github.com/antitree/Tomb/extras/kdf-keys/internal/secret"
)

// MaxKeyLength is the longest output PBKDF2-HMAC-SHA1 can produce
// (RFC 8018 section 5.2: (2^32 - 1) blocks of the digest size).
const MaxKeyLength = (1<<32 - 1) * sha1.Size

// RFC 6070 test vector 1, checked before the first derivation.
var (
	selfTestPassword = []byte("password")
	selfTestSalt     = []byte("salt")
	selfTestKey      = []byte{
		0x0c, 0x60, 0xc8, 0x0f, 0x96, 0x1f, 0x0e, 0x71, 0xf3, 0xa9,
		0xb5, 0x24, 0xaf, 0x60, 0x12, 0x06, 0x2f, 0xe0, 0x37, 0xa6,
	}
)

// Engine derives keys with PBKDF2-HMAC-SHA1. The zero value is ready to use.
// The backend is checked once, on the first call to Derive; a failed check
// is remembered and returned from every later call.
type Engine struct {
	once  sync.Once
	err   error
	check func() error
	key   func(password, salt []byte, iter, keyLen int, h func() hash.Hash) []byte
}

// Derive stretches passphrase with salt over the given number of
// iterations and returns keyLen derived bytes in a new secret buffer owned
// by the caller. The output depends only on the inputs.
func (e *Engine) Derive(passphrase, salt []byte, iterations, keyLen int) (*secret.Buffer, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if iterations <= 0 {
		return nil, fmt.Errorf("%w: iteration count must be positive, got %d", ErrInvalidParameter, iterations)
	}
	if err := CheckKeyLength(keyLen); err != nil {
		return nil, err
	}

	// Claim the secret region first so running out of memory is an
	// allocation error rather than a crash inside the KDF.
	out, err := secret.New(keyLen)
	if err != nil {
		return nil, err
	}

	derive := e.key
	if derive == nil {
		derive = pbkdf2.Key
	}
	key := derive(passphrase, salt, iterations, keyLen, sha1.New)
	defer secret.Zero(key)

	if _, err := out.Write(key); err != nil {
		out.Close()
		return nil, err
	}
	return out, nil
}

// CheckKeyLength reports whether keyLen is a valid output length.
func CheckKeyLength(keyLen int) error {
	if keyLen <= 0 {
		return fmt.Errorf("%w: output length must be positive, got %d", ErrInvalidParameter, keyLen)
	}
	if int64(keyLen) > MaxKeyLength {
		return fmt.Errorf("%w: output length must be at most %d, got %d", ErrInvalidParameter, int64(MaxKeyLength), keyLen)
	}
	return nil
}

func (e *Engine) ready() error {
	e.once.Do(func() {
		check := e.check
		if check == nil {
			check = selfTest
		}
		if err := check(); err != nil {
			e.err = fmt.Errorf("%w: %w", ErrKdfUnavailable, err)
		}
	})
	return e.err
}

func selfTest() error {
	got := pbkdf2.Key(selfTestPassword, selfTestSalt, 1, len(selfTestKey), sha1.New)
	if !bytes.Equal(got, selfTestKey) {
		return fmt.Errorf("PBKDF2-HMAC-SHA1 self-test produced %x, want %x", got, selfTestKey)
	}
	return nil
}
