// Package diag implements the orchestrator's diagnostic output
// described in spec.md section 6: verbose comment lines on stdout,
// gated by verbosity, and warnings on stderr.
package diag

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Level mirrors the "verbosity" configuration option (0/1/2).
type Level int

const (
	Silent  Level = 0
	Normal  Level = 1
	Verbose Level = 2
)

// Diagnostics emits "c "-prefixed progress lines to an output stream,
// gated by verbosity, and "Warning: "-prefixed lines to an error
// stream regardless of verbosity. It wraps two logrus.Logger instances
// the way operator-lifecycle-manager wires logrus into its CLI entry
// points, with
// custom formatters matching the SOL comment-line convention instead of
// logrus's default text formatter.
type Diagnostics struct {
	level      Level
	logger     *logrus.Logger
	warnLogger *logrus.Logger
}

// New builds a Diagnostics writing verbose lines to out and warnings to
// errOut, at the given verbosity level.
func New(level Level, out, errOut io.Writer) *Diagnostics {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&commentFormatter{})
	if level >= Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	warnLogger := logrus.New()
	warnLogger.SetOutput(errOut)
	warnLogger.SetFormatter(&warningFormatter{})
	warnLogger.SetLevel(logrus.WarnLevel)

	return &Diagnostics{level: level, logger: logger, warnLogger: warnLogger}
}

// Comment emits a verbose "c " line, suppressed entirely at Silent
// verbosity and shown at Normal/Verbose per spec.md's "controls
// diagnostic line emission" contract.
func (d *Diagnostics) Comment(format string, args ...interface{}) {
	if d.level == Silent {
		return
	}
	d.logger.Infof(format, args...)
}

// Debugf emits a verbose "c " line only at Verbose (2); used for the
// more chatty per-worker progress messages.
func (d *Diagnostics) Debugf(format string, args ...interface{}) {
	if d.level < Verbose {
		return
	}
	d.logger.Debugf(format, args...)
}

// Warning emits a "Warning: " line on the error stream unconditionally;
// warnings are never gated by verbosity (spec.md section 7, non-fatal
// worker panics and memory-sampling failures still surface).
func (d *Diagnostics) Warning(format string, args ...interface{}) {
	d.warnLogger.Warnf(format, args...)
}

// Default returns a Diagnostics at Normal verbosity writing to the
// process's stdout/stderr.
func Default() *Diagnostics {
	return New(Normal, os.Stdout, os.Stderr)
}
