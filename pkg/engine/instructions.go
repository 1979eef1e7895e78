package engine

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ipp23lang/ipp23/internal/logger"
	"github.com/ipp23lang/ipp23/pkg/ipperr"
	"github.com/ipp23lang/ipp23/pkg/program"
	"github.com/ipp23lang/ipp23/pkg/value"
)

// instrTable is the fixed opcode→behavior mapping Design Note §9
// prefers, generalizing the teacher's name-keyed
// RegisterBuiltins/registerBuiltin dictionary (pkg/interpreter/
// builtins.go) to IPPcode23's opcode set.
var instrTable = map[string]instrFunc{
	"MOVE":        execMove,
	"CREATEFRAME": execCreateFrame,
	"PUSHFRAME":   execPushFrame,
	"POPFRAME":    execPopFrame,
	"DEFVAR":      execDefVar,
	"CALL":        execCall,
	"RETURN":      execReturn,

	"PUSHS": execPushs,
	"POPS":  execPops,

	"ADD":  makeArith(func(a, b int64) (int64, error) { return a + b, nil }),
	"SUB":  makeArith(func(a, b int64) (int64, error) { return a - b, nil }),
	"MUL":  makeArith(func(a, b int64) (int64, error) { return a * b, nil }),
	"IDIV": makeArith(idiv),

	"LT": makeOrderCompare(func(a, b value.Value) bool { return a.Less(b) }),
	"GT": makeOrderCompare(func(a, b value.Value) bool { return b.Less(a) }),
	"EQ": execEq,

	"AND": makeLogic(func(a, b bool) bool { return a && b }),
	"OR":  makeLogic(func(a, b bool) bool { return a || b }),
	"NOT": execNot,

	"INT2CHAR": execInt2Char,
	"STRI2INT": execStri2Int,

	"READ":  execRead,
	"WRITE": execWrite,

	"CONCAT":  execConcat,
	"STRLEN":  execStrlen,
	"GETCHAR": execGetChar,
	"SETCHAR": execSetChar,

	"TYPE": execType,

	"LABEL":     execLabel,
	"JUMP":      execJump,
	"JUMPIFEQ":  makeJumpIf(true),
	"JUMPIFNEQ": makeJumpIf(false),
	"EXIT":      execExit,

	"DPRINT": execDprint,
	"BREAK":  execBreak,
}

// === Frames & functions ===

func execMove(e *Engine, ins *program.Instruction) (stepResult, error) {
	v, err := e.resolveDefined(ins.Args[1])
	if err != nil {
		return stepResult{}, err
	}
	return stepResult{}, e.writeVar(ins.Args[0], v)
}

func execCreateFrame(e *Engine, ins *program.Instruction) (stepResult, error) {
	e.Memory.CreateFrame()
	return stepResult{}, nil
}

func execPushFrame(e *Engine, ins *program.Instruction) (stepResult, error) {
	return stepResult{}, e.Memory.PushFrame()
}

func execPopFrame(e *Engine, ins *program.Instruction) (stepResult, error) {
	return stepResult{}, e.Memory.PopFrame()
}

func execDefVar(e *Engine, ins *program.Instruction) (stepResult, error) {
	return stepResult{}, e.Memory.Define(ins.Args[0].Role, ins.Args[0].Name)
}

func execCall(e *Engine, ins *program.Instruction) (stepResult, error) {
	target, err := e.Memory.LookupLabel(ins.Args[0].Text)
	if err != nil {
		return stepResult{}, err
	}
	e.Memory.CallPush(e.Memory.PC())
	return jumpResult(target), nil
}

func execReturn(e *Engine, ins *program.Instruction) (stepResult, error) {
	target, err := e.Memory.CallPop()
	if err != nil {
		return stepResult{}, err
	}
	return jumpResult(target), nil
}

// === Data stack ===

func execPushs(e *Engine, ins *program.Instruction) (stepResult, error) {
	v, err := e.resolveDefined(ins.Args[0])
	if err != nil {
		return stepResult{}, err
	}
	e.Memory.DataPush(v)
	return stepResult{}, nil
}

func execPops(e *Engine, ins *program.Instruction) (stepResult, error) {
	v, err := e.Memory.DataPop()
	if err != nil {
		return stepResult{}, err
	}
	return stepResult{}, e.writeVar(ins.Args[0], v)
}

// === Arithmetic ===

func idiv(a, b int64) (int64, error) {
	if b == 0 {
		return 0, ipperr.New(ipperr.OperandValue, "integer division by zero")
	}
	return a / b, nil
}

func makeArith(op func(a, b int64) (int64, error)) instrFunc {
	return func(e *Engine, ins *program.Instruction) (stepResult, error) {
		a, err := e.resolveInt(ins.Args[1])
		if err != nil {
			return stepResult{}, err
		}
		b, err := e.resolveInt(ins.Args[2])
		if err != nil {
			return stepResult{}, err
		}
		r, err := op(a, b)
		if err != nil {
			return stepResult{}, err
		}
		return stepResult{}, e.writeVar(ins.Args[0], value.NewInt(r))
	}
}

// === Comparison ===

func makeOrderCompare(cmp func(a, b value.Value) bool) instrFunc {
	return func(e *Engine, ins *program.Instruction) (stepResult, error) {
		a, err := e.resolveDefined(ins.Args[1])
		if err != nil {
			return stepResult{}, err
		}
		b, err := e.resolveDefined(ins.Args[2])
		if err != nil {
			return stepResult{}, err
		}
		if !orderCompatible(a, b) {
			return stepResult{}, ipperr.New(ipperr.OperandType, "LT/GT requires matching int, bool, or string operands")
		}
		return stepResult{}, e.writeVar(ins.Args[0], value.NewBool(cmp(a, b)))
	}
}

func execEq(e *Engine, ins *program.Instruction) (stepResult, error) {
	a, err := e.resolveDefined(ins.Args[1])
	if err != nil {
		return stepResult{}, err
	}
	b, err := e.resolveDefined(ins.Args[2])
	if err != nil {
		return stepResult{}, err
	}
	if !eqCompatible(a, b) {
		return stepResult{}, ipperr.New(ipperr.OperandType, "EQ requires matching int, bool, string, or nil operands")
	}
	return stepResult{}, e.writeVar(ins.Args[0], value.NewBool(evalEQ(a, b)))
}

// === Logic ===

func makeLogic(op func(a, b bool) bool) instrFunc {
	return func(e *Engine, ins *program.Instruction) (stepResult, error) {
		a, err := e.resolveBool(ins.Args[1])
		if err != nil {
			return stepResult{}, err
		}
		b, err := e.resolveBool(ins.Args[2])
		if err != nil {
			return stepResult{}, err
		}
		return stepResult{}, e.writeVar(ins.Args[0], value.NewBool(op(a, b)))
	}
}

func execNot(e *Engine, ins *program.Instruction) (stepResult, error) {
	a, err := e.resolveBool(ins.Args[1])
	if err != nil {
		return stepResult{}, err
	}
	return stepResult{}, e.writeVar(ins.Args[0], value.NewBool(!a))
}

// === Conversions ===

func execInt2Char(e *Engine, ins *program.Instruction) (stepResult, error) {
	i, err := e.resolveInt(ins.Args[1])
	if err != nil {
		return stepResult{}, err
	}
	if i < 0 || i > utf8.MaxRune || !utf8.ValidRune(rune(i)) {
		return stepResult{}, ipperr.New(ipperr.StringError, "%d is not a valid Unicode code point", i)
	}
	return stepResult{}, e.writeVar(ins.Args[0], value.NewStr(string(rune(i))))
}

func execStri2Int(e *Engine, ins *program.Instruction) (stepResult, error) {
	s, err := e.resolveStr(ins.Args[1])
	if err != nil {
		return stepResult{}, err
	}
	idx, err := e.resolveInt(ins.Args[2])
	if err != nil {
		return stepResult{}, err
	}
	runes := []rune(s)
	if idx < 0 || idx >= int64(len(runes)) {
		return stepResult{}, ipperr.New(ipperr.StringError, "index %d out of range for string of length %d", idx, len(runes))
	}
	return stepResult{}, e.writeVar(ins.Args[0], value.NewInt(int64(runes[idx])))
}

// === I/O ===

func execRead(e *Engine, ins *program.Instruction) (stepResult, error) {
	typeName := ins.Args[1].Text
	line, ok := e.readLine()
	if !ok {
		return stepResult{}, e.writeVar(ins.Args[0], value.NewNil())
	}
	v, ok := parseReadValue(typeName, line)
	if !ok {
		v = value.NewNil()
	}
	return stepResult{}, e.writeVar(ins.Args[0], v)
}

func parseReadValue(typeName, line string) (value.Value, bool) {
	switch typeName {
	case "int":
		i, err := value.ParseInt(strings.TrimSpace(line))
		if err != nil {
			return value.Value{}, false
		}
		return value.NewInt(i), true
	case "bool":
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "true":
			return value.NewBool(true), true
		case "false":
			return value.NewBool(false), true
		default:
			return value.Value{}, false
		}
	case "string":
		return value.NewStr(line), true
	default:
		return value.Value{}, false
	}
}

func execWrite(e *Engine, ins *program.Instruction) (stepResult, error) {
	v, err := e.resolveDefined(ins.Args[0])
	if err != nil {
		return stepResult{}, err
	}
	fmt.Fprint(e.Output, v.WriteString())
	return stepResult{}, nil
}

// === Strings ===

func execConcat(e *Engine, ins *program.Instruction) (stepResult, error) {
	a, err := e.resolveStr(ins.Args[1])
	if err != nil {
		return stepResult{}, err
	}
	b, err := e.resolveStr(ins.Args[2])
	if err != nil {
		return stepResult{}, err
	}
	return stepResult{}, e.writeVar(ins.Args[0], value.NewStr(a+b))
}

func execStrlen(e *Engine, ins *program.Instruction) (stepResult, error) {
	s, err := e.resolveStr(ins.Args[1])
	if err != nil {
		return stepResult{}, err
	}
	return stepResult{}, e.writeVar(ins.Args[0], value.NewInt(int64(len([]rune(s)))))
}

func execGetChar(e *Engine, ins *program.Instruction) (stepResult, error) {
	s, err := e.resolveStr(ins.Args[1])
	if err != nil {
		return stepResult{}, err
	}
	idx, err := e.resolveInt(ins.Args[2])
	if err != nil {
		return stepResult{}, err
	}
	runes := []rune(s)
	if idx < 0 || idx >= int64(len(runes)) {
		return stepResult{}, ipperr.New(ipperr.StringError, "index %d out of range for string of length %d", idx, len(runes))
	}
	return stepResult{}, e.writeVar(ins.Args[0], value.NewStr(string(runes[idx])))
}

func execSetChar(e *Engine, ins *program.Instruction) (stepResult, error) {
	base, err := e.resolveStr(ins.Args[0])
	if err != nil {
		return stepResult{}, err
	}
	idx, err := e.resolveInt(ins.Args[1])
	if err != nil {
		return stepResult{}, err
	}
	repl, err := e.resolveStr(ins.Args[2])
	if err != nil {
		return stepResult{}, err
	}
	baseRunes := []rune(base)
	replRunes := []rune(repl)
	if idx < 0 || idx >= int64(len(baseRunes)) || len(replRunes) == 0 {
		return stepResult{}, ipperr.New(ipperr.StringError, "SETCHAR index %d or empty replacement out of range", idx)
	}
	baseRunes[idx] = replRunes[0]
	return stepResult{}, e.writeVar(ins.Args[0], value.NewStr(string(baseRunes)))
}

// === Types ===

func execType(e *Engine, ins *program.Instruction) (stepResult, error) {
	v, err := e.resolveSymb(ins.Args[1])
	if err != nil {
		return stepResult{}, err
	}
	return stepResult{}, e.writeVar(ins.Args[0], value.NewStr(v.TypeName()))
}

// === Control flow ===

func execLabel(e *Engine, ins *program.Instruction) (stepResult, error) {
	return stepResult{}, nil // registered during Preprocess; no-op at execute time
}

func execJump(e *Engine, ins *program.Instruction) (stepResult, error) {
	target, err := e.Memory.LookupLabel(ins.Args[0].Text)
	if err != nil {
		return stepResult{}, err
	}
	return jumpResult(target), nil
}

func makeJumpIf(wantEqual bool) instrFunc {
	return func(e *Engine, ins *program.Instruction) (stepResult, error) {
		a, err := e.resolveDefined(ins.Args[1])
		if err != nil {
			return stepResult{}, err
		}
		b, err := e.resolveDefined(ins.Args[2])
		if err != nil {
			return stepResult{}, err
		}
		if !eqCompatible(a, b) {
			return stepResult{}, ipperr.New(ipperr.OperandType, "JUMPIFEQ/JUMPIFNEQ requires matching int, bool, string, or nil operands")
		}
		if evalEQ(a, b) != wantEqual {
			return stepResult{}, nil
		}
		target, err := e.Memory.LookupLabel(ins.Args[0].Text)
		if err != nil {
			return stepResult{}, err
		}
		return jumpResult(target), nil
	}
}

func execExit(e *Engine, ins *program.Instruction) (stepResult, error) {
	code, err := e.resolveInt(ins.Args[0])
	if err != nil {
		return stepResult{}, err
	}
	if code < 0 || code > 49 {
		return stepResult{}, ipperr.New(ipperr.OperandValue, "EXIT code %d outside [0,49]", code)
	}
	return haltResult(int(code)), nil
}

// === Debug ===

func execDprint(e *Engine, ins *program.Instruction) (stepResult, error) {
	v, err := e.resolveSymb(ins.Args[0])
	if err != nil {
		return stepResult{}, err
	}
	logger.Raw(v.DebugString())
	return stepResult{}, nil
}

func execBreak(e *Engine, ins *program.Instruction) (stepResult, error) {
	logger.Raw(fmt.Sprintf(
		"BREAK pc=%d frame-depth=%d data-depth=%d call-depth=%d\n",
		e.Memory.PC(), e.Memory.FrameDepth(), e.Memory.DataDepth(), e.Memory.CallDepth(),
	))
	return stepResult{}, nil
}

// === Input ===

// readLine reads one line from Input, trimming the trailing newline.
// It returns ok=false only at EOF with nothing left to read; a final
// line without a trailing newline is returned with ok=true.
func (e *Engine) readLine() (string, bool) {
	line, err := e.Input.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}
