package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func runCLI(stdin string, args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Success(t *testing.T) {
	code, out, errOut := runCLI("password\n", "73616c74", "1", "20")

	assert.Equal(t, 0, code)
	assert.Equal(t, "0c60c80f961f0e71f3a9b524af6012062fe037a6\n", out)
	assert.Empty(t, errOut)
}

func TestRun_KeyAndIV(t *testing.T) {
	code1, out1, _ := runCLI("test\n", "00000000", "1000", "48")
	code2, out2, _ := runCLI("test\n", "00000000", "1000", "48")

	assert.Equal(t, 0, code1)
	assert.Equal(t, 0, code2)
	assert.Equal(t, out1, out2)
	assert.Len(t, out1, 2*48+1)
}

func TestRun_StrictFlag(t *testing.T) {
	code, out, _ := runCLI("password", "--strict", "73616c74", "1", "20")

	assert.Equal(t, 0, code)
	assert.Equal(t, "0c60c80f961f0e71f3a9b524af6012062fe037a6\n", out)
}

func TestRun_Verbose(t *testing.T) {
	code, out, errOut := runCLI("password\n", "-v", "73616c74", "1", "20")

	assert.Equal(t, 0, code)
	assert.NotEmpty(t, out)
	assert.Contains(t, errOut, "iterations=1")
	assert.Contains(t, errOut, "key derived")
	assert.NotContains(t, errOut, "password")
}

func TestRun_Help(t *testing.T) {
	code, out, _ := runCLI("", "--help")

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "usage: tomb-kdb-pbkdf2 [--strict] [-v] <salt_hex> <count> <len>")
	assert.Contains(t, out, "--strict")
}

func TestRun_ExitCodes(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		code  int
	}{
		{"wrong argument count", "pw\n", []string{"00", "1"}, 10},
		{"unknown flag", "pw\n", []string{"--bogus", "00", "1", "4"}, 10},
		{"invalid salt", "pw\n", []string{"nothex", "1", "4"}, 1},
		{"invalid count", "pw\n", []string{"00", "zero", "4"}, 1},
		{"zero length", "pw\n", []string{"00", "1", "0"}, 1},
		{"negative count", "pw\n", []string{"00", "-5", "4"}, 1},
		{"negative length", "pw\n", []string{"00", "1", "-4"}, 1},
		{"negative salt position", "pw\n", []string{"-5", "1", "4"}, 1},
		{"length beyond PBKDF2 limit", "pw\n", []string{"00", "1", "4294967296000"}, 1},
		{"length max int64", "pw\n", []string{"00", "1", "9223372036854775807"}, 1},
		{"flag after positionals", "pw\n", []string{"00", "1", "4", "--strict"}, 10},
		{"empty passphrase", "", []string{"00", "1", "4"}, 1},
		{"terminator only", "\n", []string{"00", "1", "4"}, 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			code, out, errOut := runCLI(test.stdin, test.args...)

			assert.Equal(t, test.code, code)
			assert.Empty(t, out, "nothing may reach stdout on failure")
			assert.NotEmpty(t, errOut)
		})
	}
}

func TestRun_DiagnosticIsOneLine(t *testing.T) {
	_, _, errOut := runCLI("", "00", "1", "4")

	assert.Equal(t, 1, strings.Count(errOut, "\n"))
	assert.Contains(t, errOut, "passphrase is empty")
}

func TestRun_HugeLengthIsOneLine(t *testing.T) {
	code, out, errOut := runCLI("pw\n", "00", "1", "9223372036854775807")

	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Equal(t, 1, strings.Count(errOut, "\n"))
	assert.Contains(t, errOut, "output length must be at most")
}

func TestEndFlagsAtNumber(t *testing.T) {
	assert.Equal(t, []string{"--", "-5", "1", "4"}, endFlagsAtNumber([]string{"-5", "1", "4"}))
	assert.Equal(t, []string{"-v", "--", "-5", "1", "4"}, endFlagsAtNumber([]string{"-v", "-5", "1", "4"}))
	assert.Equal(t, []string{"-v", "00", "-5", "4"}, endFlagsAtNumber([]string{"-v", "00", "-5", "4"}))
	assert.Equal(t, []string{"--strict", "--", "-1"}, endFlagsAtNumber([]string{"--strict", "--", "-1"}))
}
