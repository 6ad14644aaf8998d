// Package derive runs one passphrase-to-key derivation from command line
// arguments and a passphrase stream through to hex on the output stream.
package derive

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/antitree/Tomb/extras/kdf-keys/internal/crypto"
	"github.com/antitree/Tomb/extras/kdf-keys/internal/secret"
)

// Request holds the positional arguments exactly as given.
type Request struct {
	SaltHex    string
	Iterations string
	KeyLength  string
}

// PassphraseSource yields the passphrase in a buffer the caller must close.
type PassphraseSource interface {
	ReadPassphrase() (*secret.Buffer, error)
}

// Deriver stretches a passphrase into keyLen bytes.
type Deriver interface {
	Derive(passphrase, salt []byte, iterations, keyLen int) (*secret.Buffer, error)
}

// Pipeline wires a passphrase source and a deriver to an output stream.
// Log is optional and defaults to the logrus standard logger.
type Pipeline struct {
	Source  PassphraseSource
	Deriver Deriver
	Output  io.Writer
	Log     logrus.FieldLogger
}

// ParseArgs checks the argument shape: salt, iteration count and output
// length. Values are validated by Run.
func ParseArgs(args []string) (Request, error) {
	if len(args) != 3 {
		return Request{}, fmt.Errorf("%w: expected 3 arguments, got %d", ErrUsage, len(args))
	}
	return Request{SaltHex: args[0], Iterations: args[1], KeyLength: args[2]}, nil
}

// Run decodes the salt, validates the numeric parameters, reads the
// passphrase, derives the key and writes it as one line of lowercase hex.
// Nothing is written to Output unless every earlier step succeeded. All
// secret buffers are zeroed and released before Run returns, on every path.
func (p *Pipeline) Run(req Request) error {
	salt, err := crypto.DecodeHex(req.SaltHex)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidSalt, req.SaltHex, err)
	}
	if len(salt) == 0 {
		return fmt.Errorf("%w: salt must be at least one hex digit", ErrInvalidSalt)
	}
	defer secret.Zero(salt)

	iterations, err := parsePositive("iteration count", req.Iterations)
	if err != nil {
		return err
	}
	keyLen, err := parsePositive("output length", req.KeyLength)
	if err != nil {
		return err
	}
	if err := crypto.CheckKeyLength(keyLen); err != nil {
		return err
	}

	p.logger().WithFields(logrus.Fields{
		"salt_bytes": len(salt),
		"iterations": iterations,
		"key_bytes":  keyLen,
	}).Debug("parameters accepted")

	passphrase, err := p.Source.ReadPassphrase()
	if err != nil {
		return classifyRead(err)
	}
	defer p.release(passphrase, "passphrase")

	// The hex line is claimed before the KDF runs so an out-of-memory
	// condition surfaces as ErrAllocation before any work is done.
	line, err := secret.New(2*keyLen + 1)
	if err != nil {
		return fmt.Errorf("hex output: %w", err)
	}
	defer p.release(line, "hex output")

	start := time.Now()
	key, err := p.Deriver.Derive(passphrase.Bytes(), salt, iterations, keyLen)
	if err != nil {
		return classifyDerive(err)
	}
	defer p.release(key, "derived key")

	p.logger().WithField("elapsed", time.Since(start).Round(time.Millisecond)).Debug("key derived")

	if err := crypto.EncodeHexLine(line, key.Bytes()); err != nil {
		return fmt.Errorf("hex output: %w", err)
	}
	if _, err := line.WriteTo(p.Output); err != nil {
		return fmt.Errorf("%w: writing key: %w", ErrIO, err)
	}
	return nil
}

func (p *Pipeline) release(buffer *secret.Buffer, what string) {
	if err := buffer.Close(); err != nil {
		// The region was zeroed before the failing unmap.
		p.logger().WithError(err).Warnf("releasing %s", what)
	}
}

func (p *Pipeline) logger() logrus.FieldLogger {
	if p.Log == nil {
		return logrus.StandardLogger()
	}
	return p.Log
}

func parsePositive(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrInvalidParameter, name, value)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %d", ErrInvalidParameter, name, n)
	}
	return n, nil
}

func classifyRead(err error) error {
	if errors.Is(err, ErrEmptyPassphrase) || errors.Is(err, ErrAllocation) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrIO, err)
}

func classifyDerive(err error) error {
	if errors.Is(err, ErrAllocation) || errors.Is(err, ErrInvalidParameter) || errors.Is(err, ErrKdfUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrKdfUnavailable, err)
}
