// Package engine implements the fetch/execute dispatch loop and all
// IPPcode23 instruction bodies: the core this module exists to teach
// (spec §1). It generalizes the teacher's Interpreter.Execute/Run
// (pkg/interpreter/interpreter.go) from a dictionary-dispatched stack
// language to an opcode-dispatched, frame-based one, and its VM.Step
// (pkg/micro/vm.go) fetch/decode/execute shape to a label-aware
// program counter instead of a raw byte offset.
package engine

import (
	"bufio"
	"io"

	"github.com/ipp23lang/ipp23/internal/logger"
	"github.com/ipp23lang/ipp23/pkg/ipperr"
	"github.com/ipp23lang/ipp23/pkg/memory"
	"github.com/ipp23lang/ipp23/pkg/program"
)

// Engine threads one Memory and one Program through the dispatch
// loop. Per spec §9's Design Note, Memory is an explicit instance
// passed around, never a package-level global.
type Engine struct {
	Memory  *memory.Memory
	Program *program.Program
	Input   *bufio.Reader
	Output  io.Writer
	Debug   bool
}

// New constructs an Engine ready to Run. input is read line-by-line by
// READ; output receives WRITE's text.
func New(mem *memory.Memory, prog *program.Program, input io.Reader, output io.Writer) *Engine {
	return &Engine{
		Memory:  mem,
		Program: prog,
		Input:   bufio.NewReader(input),
		Output:  output,
	}
}

// stepResult tells Run what the dispatch loop should do after an
// instruction body returns successfully: fall through to PC+1 (the
// zero value), jump to target, or halt with exitCode.
type stepResult struct {
	jump     bool
	target   int
	halt     bool
	exitCode int
}

func fallthroughResult() stepResult    { return stepResult{} }
func jumpResult(target int) stepResult { return stepResult{jump: true, target: target} }
func haltResult(code int) stepResult   { return stepResult{halt: true, exitCode: code} }

// instrFunc is the shape every opcode's behavior implements: the
// fixed opcode→function mapping Design Note §9 prefers over one
// class per opcode.
type instrFunc func(e *Engine, ins *program.Instruction) (stepResult, error)

// Run executes the label preprocessing pass, then drives the
// fetch/increment/execute loop described in spec §4.4 until the
// program counter runs past the last instruction or EXIT halts it.
// It returns the process exit code and, on abort, the error that
// produced it (nil on a clean 0 or EXIT-requested exit).
func (e *Engine) Run() (int, error) {
	if err := e.Program.Preprocess(e.Memory); err != nil {
		ierr, ok := ipperr.As(err)
		if !ok {
			ierr = ipperr.New(ipperr.XMLStructure, "%v", err)
		}
		logger.Error("abort", "code", ierr.Code.Name(), "detail", ierr.Detail, "opcode", ierr.Opcode, "order", ierr.Order)
		return ierr.Code.ExitCode(), ierr
	}

	for {
		pc := e.Memory.PC()
		if pc >= e.Program.Len() {
			return 0, nil
		}

		ins := e.Program.Instructions[pc]
		e.Memory.SetPC(pc + 1) // fetch increments PC before execute; control flow may overwrite it

		fn, ok := instrTable[ins.Opcode]
		if !ok {
			err := ipperr.New(ipperr.XMLStructure, "unknown opcode %q", ins.Opcode).WithInstruction(ins.Opcode, ins.Order)
			logger.Error("abort", "code", err.Code.Name(), "detail", err.Detail, "opcode", err.Opcode, "order", err.Order)
			return err.Code.ExitCode(), err
		}

		if e.Debug {
			logger.Debug("step", "pc", pc, "order", ins.Order, "opcode", ins.Opcode)
		}

		result, err := fn(e, &ins)
		if err != nil {
			ierr, ok := ipperr.As(err)
			if !ok {
				ierr = ipperr.New(ipperr.XMLStructure, "%v", err)
			}
			ierr = ierr.WithInstruction(ins.Opcode, ins.Order)
			logger.Error("abort", "code", ierr.Code.Name(), "detail", ierr.Detail, "opcode", ierr.Opcode, "order", ierr.Order)
			return ierr.Code.ExitCode(), ierr
		}

		switch {
		case result.halt:
			return result.exitCode, nil
		case result.jump:
			e.Memory.SetPC(result.target)
		}
	}
}

