package secret

import (
	"fmt"
	"io"
)

// initialCapacity fits most passphrases without growing.
const initialCapacity = 64

// PassphraseReader reads a passphrase from a stream. Every byte is kept,
// including spaces, tabs and NUL bytes; only the trailing line terminator is
// removed.
//
// By default the last byte of the stream is dropped unconditionally, which
// matches what existing tomb keys were derived with. A stream without a
// trailing newline therefore loses its final character. With Strict set, the
// last byte is dropped only when it is '\n'.
type PassphraseReader struct {
	Reader io.Reader
	Strict bool
}

// ReadPassphrase reads to end of stream and returns the passphrase in a new
// Buffer owned by the caller. It fails with ErrEmpty when nothing is left
// after the terminator is removed.
func (p PassphraseReader) ReadPassphrase() (*Buffer, error) {
	buffer, err := New(initialCapacity)
	if err != nil {
		return nil, err
	}

	if _, err := buffer.ReadFrom(p.Reader); err != nil {
		buffer.Close()
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}

	if length := buffer.Len(); length > 0 {
		if !p.Strict || buffer.Bytes()[length-1] == '\n' {
			buffer.Truncate(length - 1)
		}
	}

	if buffer.Len() == 0 {
		buffer.Close()
		return nil, ErrEmpty
	}
	return buffer, nil
}
