package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/antitree/Tomb/extras/kdf-keys/internal/derive"
	"github.com/antitree/Tomb/extras/kdf-keys/internal/secret"
)

func printUsage(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `usage: %s [--strict] [-v] <salt_hex> <count> <len> <passwd >key_iv_hex

Derives <len> bytes from the passphrase on stdin with PBKDF2-HMAC-SHA1 and
prints them as lowercase hex. <salt_hex> is the salt as hexadecimal digits,
<count> the iteration count. 48 bytes gives a 32-byte key and a 16-byte IV.

Flags:
%s`, progName, flagSet.FlagUsages())
}

// endFlagsAtNumber inserts "--" before the first argument that parses as
// an integer, so a negative count or length is reported as an invalid value
// instead of an unknown shorthand flag. Flags must precede positionals.
func endFlagsAtNumber(args []string) []string {
	for i, arg := range args {
		if arg == "--" || len(arg) == 0 || arg[0] != '-' {
			return args
		}
		if _, err := strconv.Atoi(arg); err == nil {
			out := make([]string, 0, len(args)+1)
			out = append(out, args[:i]...)
			out = append(out, "--")
			return append(out, args[i:]...)
		}
	}
	return args
}

// passphraseSource prompts on the terminal when stdin is one, and otherwise
// reads the raw stream.
func passphraseSource(stdin io.Reader, stderr io.Writer, strict bool) derive.PassphraseSource {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return terminalSource{fd: int(f.Fd()), prompt: stderr}
	}
	return secret.PassphraseReader{Reader: stdin, Strict: strict}
}

// terminalSource reads one line with echo disabled. The typed line carries
// no terminator, so nothing is stripped.
type terminalSource struct {
	fd     int
	prompt io.Writer
}

func (s terminalSource) ReadPassphrase() (*secret.Buffer, error) {
	fmt.Fprint(s.prompt, "Passphrase: ")
	pw, err := term.ReadPassword(s.fd)
	fmt.Fprintln(s.prompt)
	if err != nil {
		secret.Zero(pw)
		return nil, fmt.Errorf("reading passphrase: %w", err)
	}

	// NewFromBytes zeroes pw.
	return secret.NewFromBytes(pw)
}
