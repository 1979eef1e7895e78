// Command ipp23 is the thin CLI wrapper spec §6 treats as an external
// collaborator to the engine: it resolves --source/--input to readers,
// loads the program, and runs it. Flag handling follows the teacher's
// cmd/psil/main.go pattern (package-level flag.* vars parsed in main).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ipp23lang/ipp23/internal/logger"
	"github.com/ipp23lang/ipp23/pkg/engine"
	"github.com/ipp23lang/ipp23/pkg/ipperr"
	"github.com/ipp23lang/ipp23/pkg/loader"
	"github.com/ipp23lang/ipp23/pkg/memory"
)

var (
	flagSource  = flag.String("source", "", "path to the XML program (stdin if omitted)")
	flagInput   = flag.String("input", "", "path to the runtime input stream (stdin if omitted)")
	flagDebug   = flag.Bool("debug", false, "log a per-instruction trace to standard error")
	flagNoColor = flag.Bool("no-color", false, "disable ANSI color in diagnostics")
	flagHelp    = flag.Bool("help", false, "print usage and exit 0")
)

const incompatibleFlagsExit = 10

func main() {
	flag.Parse()

	if *flagHelp {
		if flag.NFlag() > 1 {
			fmt.Fprintln(os.Stderr, "ipp23: --help is incompatible with other flags")
			os.Exit(incompatibleFlagsExit)
		}
		flag.Usage()
		os.Exit(0)
	}

	logger.Init(*flagDebug, *flagNoColor)

	source, err := openOrStdin(*flagSource, os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipp23: %v\n", err)
		os.Exit(1)
	}
	defer source.Close()

	input, err := openOrStdin(*flagInput, os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipp23: %v\n", err)
		os.Exit(1)
	}
	defer input.Close()

	prog, err := loader.Load(source)
	if err != nil {
		if ierr, ok := ipperr.As(err); ok {
			logger.Error("abort", "code", ierr.Code.Name(), "detail", ierr.Detail)
		}
		os.Exit(exitCode(err))
	}

	mem := memory.New()
	eng := engine.New(mem, prog, input, os.Stdout)
	eng.Debug = *flagDebug

	code, _ := eng.Run()
	os.Exit(code)
}

// openOrStdin opens path, or returns stdin when path is empty — both
// --source and --input default to stdin per spec §6, though redirecting
// both from it at once is the caller's problem, not this wrapper's.
func openOrStdin(path string, stdin *os.File) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, nil
}

func exitCode(err error) int {
	if ierr, ok := ipperr.As(err); ok {
		return ierr.Code.ExitCode()
	}
	return 1
}
