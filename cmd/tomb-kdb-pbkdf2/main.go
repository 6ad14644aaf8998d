package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/antitree/Tomb/extras/kdf-keys/internal/crypto"
	"github.com/antitree/Tomb/extras/kdf-keys/internal/derive"
	"github.com/antitree/Tomb/extras/kdf-keys/internal/log"
	"github.com/antitree/Tomb/extras/kdf-keys/internal/secret"
)

const progName = "tomb-kdb-pbkdf2"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var strict, verbose bool

	flagSet := pflag.NewFlagSet(progName, pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.BoolVar(&strict, "strict", false, "strip the last input byte only if it is a newline")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log parameters and derivation time to stderr")
	flagSet.BoolP("help", "h", false, "show help")
	flagSet.SetInterspersed(false)

	if err := flagSet.Parse(endFlagsAtNumber(args)); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", progName, err)
		printUsage(stderr, flagSet)
		return derive.ExitUsage
	}
	if help, _ := flagSet.GetBool("help"); help {
		printUsage(stdout, flagSet)
		return derive.ExitOK
	}

	logger := log.New(stderr, verbose)
	if err := secret.DisableCoreDumps(); err != nil {
		logger.WithError(err).Debug("core dumps stay enabled")
	}

	req, err := derive.ParseArgs(flagSet.Args())
	if err != nil {
		printUsage(stderr, flagSet)
		return derive.ExitCode(err)
	}

	pipeline := &derive.Pipeline{
		Source:  passphraseSource(stdin, stderr, strict),
		Deriver: &crypto.Engine{},
		Output:  stdout,
		Log:     logger,
	}
	if err := pipeline.Run(req); err != nil {
		logger.Errorf("Error: %v", err)
		return derive.ExitCode(err)
	}
	return derive.ExitOK
}
