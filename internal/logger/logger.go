// Package logger wires the engine's diagnostics through
// charmbracelet/log, the structured logger the uidops-dolme example
// uses for its own compiler diagnostics. IPPcode23's DPRINT/BREAK
// instructions and the engine's abort path both go through here.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Init configures the package-default logger. debug raises the level
// to show per-instruction traces; noColor forces a plain ANSI-free
// profile, for redirected output.
func Init(debug, noColor bool) {
	log.SetDefault(log.NewWithOptions(io.MultiWriter(os.Stderr), log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "ipp23",
	}))

	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.ErrorLevel)
	}

	log.SetColorProfile(termenv.ANSI256)
	if noColor {
		log.SetColorProfile(termenv.Ascii)
	}
}

// Debug logs a per-instruction trace line.
func Debug(msg string, keyvals ...any) { log.Debug(msg, keyvals...) }

// Error logs an abort diagnostic (opcode/order/detail via keyvals).
func Error(msg string, keyvals ...any) { log.Error(msg, keyvals...) }

// Raw writes s verbatim to standard error, for DPRINT/BREAK, which
// per spec §6 address the error stream directly rather than going
// through leveled/structured logging.
func Raw(s string) {
	os.Stderr.WriteString(s)
}
