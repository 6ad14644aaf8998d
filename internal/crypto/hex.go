package crypto

import (
	"encoding/hex"
	"fmt"

	"github.com/antitree/Tomb/extras/kdf-keys/internal/secret"
)

// DecodeHex decodes text two digits at a time. When the length is odd the
// final digit is decoded on its own into the last byte, so "abc" yields
// {0xab, 0x0c}. Upper and lower case digits are accepted; anything else,
// including a "0x" prefix or whitespace, is an error.
func DecodeHex(text string) ([]byte, error) {
	decoded := make([]byte, (len(text)+1)/2)

	even := len(text) &^ 1
	if _, err := hex.Decode(decoded, []byte(text[:even])); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHex, err)
	}

	if even < len(text) {
		last := []byte{'0', text[even]}
		if _, err := hex.Decode(decoded[len(decoded)-1:], last); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidHex, err)
		}
	}
	return decoded, nil
}

// EncodeHexLine appends src to dst as lowercase hex, two digits per byte,
// followed by a newline. The text is built inside dst so key material never
// passes through a heap string.
func EncodeHexLine(dst *secret.Buffer, src []byte) error {
	tail, err := dst.Extend(hex.EncodedLen(len(src)) + 1)
	if err != nil {
		return err
	}
	hex.Encode(tail, src)
	tail[len(tail)-1] = '\n'
	return nil
}
