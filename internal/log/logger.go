// Package log formats diagnostics for the error stream.
package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Formatter writes one line per entry: a level symbol, the message and the
// fields sorted by key. There is no timestamp; every run is short-lived.
type Formatter struct {
	UseColors bool
}

var symbolTable = map[logrus.Level]string{
	logrus.DebugLevel: "⚙",
	logrus.InfoLevel:  "⚐",
	logrus.WarnLevel:  "⚠",
	logrus.ErrorLevel: "⚡",
	logrus.FatalLevel: "☣",
	logrus.PanicLevel: "☠",
}

var colorTable = map[logrus.Level]color.Attribute{
	logrus.DebugLevel: color.FgCyan,
	logrus.InfoLevel:  color.FgGreen,
	logrus.WarnLevel:  color.FgYellow,
	logrus.ErrorLevel: color.FgRed,
	logrus.FatalLevel: color.FgMagenta,
	logrus.PanicLevel: color.FgMagenta,
}

func colorByLevel(level logrus.Level, msg string) string {
	attr, ok := colorTable[level]
	if !ok {
		return msg
	}

	// color.NoColor follows stdout, which carries the key and is usually a
	// pipe. The decision for stderr was made by the caller.
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(msg)
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	buffer := &bytes.Buffer{}

	symbol := symbolTable[entry.Level]
	if f.UseColors {
		symbol = colorByLevel(entry.Level, symbol)
	}
	buffer.WriteString(symbol)
	buffer.WriteByte(' ')
	buffer.WriteString(entry.Message)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for key := range entry.Data {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		buffer.WriteString(" [")
		for idx, key := range keys {
			if idx > 0 {
				buffer.WriteByte(' ')
			}
			if f.UseColors {
				key = colorByLevel(entry.Level, key)
			}
			fmt.Fprintf(buffer, "%s=%v", key, entry.Data[key])
		}
		buffer.WriteByte(']')
	}

	buffer.WriteByte('\n')
	return buffer.Bytes(), nil
}

// New returns a logger for w. Only warnings and errors are shown unless
// verbose is set. Colors are used when w is a terminal.
func New(w io.Writer, verbose bool) *logrus.Logger {
	useColors := false
	if f, ok := w.(*os.File); ok {
		useColors = isatty.IsTerminal(f.Fd())
	}

	logger := logrus.New()
	logger.Out = w
	logger.Formatter = &Formatter{UseColors: useColors}
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
