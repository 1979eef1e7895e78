package engine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ipp23lang/ipp23/pkg/ipperr"
	"github.com/ipp23lang/ipp23/pkg/memory"
	"github.com/ipp23lang/ipp23/pkg/program"
	"github.com/ipp23lang/ipp23/pkg/value"
)

func build(t *testing.T, raw []program.RawInstruction) *program.Program {
	t.Helper()
	prog, err := program.New(raw)
	if err != nil {
		t.Fatalf("program.New: %v", err)
	}
	return prog
}

func varArg(role memory.Role, name string) program.Argument {
	return program.NewVarArgument(role, name)
}

func intArg(i int64) program.Argument {
	return program.NewLiteralArgument(program.KindInt, value.NewInt(i))
}

func strArg(s string) program.Argument {
	return program.NewLiteralArgument(program.KindString, value.NewStr(s))
}

func run(t *testing.T, raw []program.RawInstruction, input string) (*Engine, string, int, error) {
	t.Helper()
	prog := build(t, raw)
	mem := memory.New()
	var out bytes.Buffer
	e := New(mem, prog, strings.NewReader(input), &out)
	code, err := e.Run()
	return e, out.String(), code, err
}

func TestHelloWorld(t *testing.T) {
	raw := []program.RawInstruction{
		program.NewRawInstruction(1, "WRITE", []program.Argument{strArg("Hello, world!")}),
	}
	_, out, code, err := run(t, raw, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if out != "Hello, world!" {
		t.Errorf("output = %q, want %q", out, "Hello, world!")
	}
}

func TestIntegerArithmetic(t *testing.T) {
	raw := []program.RawInstruction{
		program.NewRawInstruction(1, "DEFVAR", []program.Argument{varArg(memory.GF, "x")}),
		program.NewRawInstruction(2, "ADD", []program.Argument{varArg(memory.GF, "x"), intArg(3), intArg(4)}),
		program.NewRawInstruction(3, "WRITE", []program.Argument{varArg(memory.GF, "x")}),
	}
	_, out, code, err := run(t, raw, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 0 || out != "7" {
		t.Errorf("out=%q code=%d, want \"7\"/0", out, code)
	}
}

func TestDivisionByZeroAborts(t *testing.T) {
	raw := []program.RawInstruction{
		program.NewRawInstruction(1, "DEFVAR", []program.Argument{varArg(memory.GF, "x")}),
		program.NewRawInstruction(2, "IDIV", []program.Argument{varArg(memory.GF, "x"), intArg(1), intArg(0)}),
	}
	_, _, code, err := run(t, raw, "")
	if code != int(ipperr.OperandValue) {
		t.Errorf("exit code = %d, want %d", code, ipperr.OperandValue)
	}
	if err == nil {
		t.Error("expected a non-nil error")
	}
}

func TestFrameAbsentOnUnpushedLocal(t *testing.T) {
	raw := []program.RawInstruction{
		program.NewRawInstruction(1, "DEFVAR", []program.Argument{varArg(memory.LF, "x")}),
	}
	_, _, code, _ := run(t, raw, "")
	if code != int(ipperr.FrameAbsent) {
		t.Errorf("exit code = %d, want %d", code, ipperr.FrameAbsent)
	}
}

func TestCallAndReturn(t *testing.T) {
	raw := []program.RawInstruction{
		program.NewRawInstruction(1, "DEFVAR", []program.Argument{varArg(memory.GF, "x")}),
		program.NewRawInstruction(2, "CALL", []program.Argument{program.NewLabelArgument("sub")}),
		program.NewRawInstruction(3, "WRITE", []program.Argument{varArg(memory.GF, "x")}),
		program.NewRawInstruction(4, "EXIT", []program.Argument{intArg(0)}),
		program.NewRawInstruction(5, "LABEL", []program.Argument{program.NewLabelArgument("sub")}),
		program.NewRawInstruction(6, "MOVE", []program.Argument{varArg(memory.GF, "x"), intArg(99)}),
		program.NewRawInstruction(7, "RETURN", nil),
	}
	_, out, code, err := run(t, raw, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 0 || out != "99" {
		t.Errorf("out=%q code=%d, want \"99\"/0", out, code)
	}
}

func TestReadEOFYieldsNil(t *testing.T) {
	prog := build(t, []program.RawInstruction{
		program.NewRawInstruction(1, "DEFVAR", []program.Argument{varArg(memory.GF, "x")}),
		program.NewRawInstruction(2, "READ", []program.Argument{varArg(memory.GF, "x"), program.NewTypeArgument("int")}),
	})
	mem := memory.New()
	var out bytes.Buffer
	e := New(mem, prog, strings.NewReader(""), &out)
	if _, err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	v, err := mem.Read(memory.GF, "x")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if v.Kind() != value.Nil {
		t.Errorf("READ on EOF should yield Nil, got %s", v.TypeName())
	}
}

func TestPushsPopsRoundTrip(t *testing.T) {
	raw := []program.RawInstruction{
		program.NewRawInstruction(1, "DEFVAR", []program.Argument{varArg(memory.GF, "x")}),
		program.NewRawInstruction(2, "PUSHS", []program.Argument{intArg(5)}),
		program.NewRawInstruction(3, "POPS", []program.Argument{varArg(memory.GF, "x")}),
		program.NewRawInstruction(4, "WRITE", []program.Argument{varArg(memory.GF, "x")}),
	}
	_, out, code, err := run(t, raw, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 0 || out != "5" {
		t.Errorf("out=%q code=%d, want \"5\"/0", out, code)
	}
}

func TestExitRangeCheck(t *testing.T) {
	raw := []program.RawInstruction{
		program.NewRawInstruction(1, "EXIT", []program.Argument{intArg(50)}),
	}
	_, _, code, err := run(t, raw, "")
	if code != int(ipperr.OperandValue) {
		t.Errorf("exit code = %d, want %d", code, ipperr.OperandValue)
	}
	if err == nil {
		t.Error("expected a non-nil error")
	}
}

func TestExitWithinRangeHalts(t *testing.T) {
	raw := []program.RawInstruction{
		program.NewRawInstruction(1, "EXIT", []program.Argument{intArg(9)}),
	}
	_, _, code, err := run(t, raw, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 9 {
		t.Errorf("exit code = %d, want 9", code)
	}
}

func TestTypeIsTotal(t *testing.T) {
	raw := []program.RawInstruction{
		program.NewRawInstruction(1, "DEFVAR", []program.Argument{varArg(memory.GF, "x")}),
		program.NewRawInstruction(2, "DEFVAR", []program.Argument{varArg(memory.GF, "t")}),
		program.NewRawInstruction(3, "TYPE", []program.Argument{varArg(memory.GF, "t"), varArg(memory.GF, "x")}),
		program.NewRawInstruction(4, "WRITE", []program.Argument{varArg(memory.GF, "t")}),
	}
	_, out, code, err := run(t, raw, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 0 || out != "" {
		t.Errorf("out=%q code=%d, want \"\"/0 (TYPE on uninitialized must not error)", out, code)
	}
}

func TestConcatStrlenGetcharSetchar(t *testing.T) {
	raw := []program.RawInstruction{
		program.NewRawInstruction(1, "DEFVAR", []program.Argument{varArg(memory.GF, "s")}),
		program.NewRawInstruction(2, "CONCAT", []program.Argument{varArg(memory.GF, "s"), strArg("foo"), strArg("bar")}),
		program.NewRawInstruction(3, "DEFVAR", []program.Argument{varArg(memory.GF, "n")}),
		program.NewRawInstruction(4, "STRLEN", []program.Argument{varArg(memory.GF, "n"), varArg(memory.GF, "s")}),
		program.NewRawInstruction(5, "DEFVAR", []program.Argument{varArg(memory.GF, "c")}),
		program.NewRawInstruction(6, "GETCHAR", []program.Argument{varArg(memory.GF, "c"), varArg(memory.GF, "s"), intArg(0)}),
		program.NewRawInstruction(7, "SETCHAR", []program.Argument{varArg(memory.GF, "s"), intArg(0), strArg("F")}),
		program.NewRawInstruction(8, "WRITE", []program.Argument{varArg(memory.GF, "s")}),
		program.NewRawInstruction(9, "WRITE", []program.Argument{varArg(memory.GF, "n")}),
		program.NewRawInstruction(10, "WRITE", []program.Argument{varArg(memory.GF, "c")}),
	}
	_, out, code, err := run(t, raw, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 0 || out != "Foobar6f" {
		t.Errorf("out=%q code=%d, want \"Foobar6f\"/0", out, code)
	}
}

func TestJumpIfEqFallsThroughWhenUnequal(t *testing.T) {
	raw := []program.RawInstruction{
		program.NewRawInstruction(1, "JUMPIFEQ", []program.Argument{program.NewLabelArgument("skip"), intArg(1), intArg(2)}),
		program.NewRawInstruction(2, "WRITE", []program.Argument{strArg("not skipped")}),
		program.NewRawInstruction(3, "LABEL", []program.Argument{program.NewLabelArgument("skip")}),
	}
	_, out, code, err := run(t, raw, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 0 || out != "not skipped" {
		t.Errorf("out=%q code=%d", out, code)
	}
}

func TestUndefinedLabelAborts(t *testing.T) {
	raw := []program.RawInstruction{
		program.NewRawInstruction(1, "JUMP", []program.Argument{program.NewLabelArgument("nowhere")}),
	}
	_, _, code, err := run(t, raw, "")
	if code != int(ipperr.Semantic) {
		t.Errorf("exit code = %d, want %d", code, ipperr.Semantic)
	}
	if err == nil {
		t.Error("expected a non-nil error")
	}
}
