package program

import (
	"testing"

	"github.com/ipp23lang/ipp23/pkg/ipperr"
	"github.com/ipp23lang/ipp23/pkg/memory"
)

func TestNewSortsByOrder(t *testing.T) {
	raw := []RawInstruction{
		NewRawInstruction(3, "CREATEFRAME", nil),
		NewRawInstruction(1, "CREATEFRAME", nil),
		NewRawInstruction(2, "CREATEFRAME", nil),
	}
	prog, err := New(raw)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i, ins := range prog.Instructions {
		if ins.Order != i+1 {
			t.Errorf("Instructions[%d].Order = %d, want %d", i, ins.Order, i+1)
		}
	}
}

func TestNewRejectsDuplicateOrder(t *testing.T) {
	raw := []RawInstruction{
		NewRawInstruction(1, "CREATEFRAME", nil),
		NewRawInstruction(1, "PUSHFRAME", nil),
	}
	_, err := New(raw)
	assertCode(t, err, ipperr.XMLStructure)
}

func TestNewRejectsNonPositiveOrder(t *testing.T) {
	raw := []RawInstruction{NewRawInstruction(0, "CREATEFRAME", nil)}
	_, err := New(raw)
	assertCode(t, err, ipperr.XMLStructure)
}

func TestNewRejectsUnknownOpcode(t *testing.T) {
	raw := []RawInstruction{NewRawInstruction(1, "FROBNICATE", nil)}
	_, err := New(raw)
	assertCode(t, err, ipperr.XMLStructure)
}

func TestNewRejectsWrongArity(t *testing.T) {
	raw := []RawInstruction{NewRawInstruction(1, "MOVE", []Argument{NewVarArgument(memory.GF, "x")})}
	_, err := New(raw)
	assertCode(t, err, ipperr.XMLStructure)
}

func TestPreprocessRegistersLabels(t *testing.T) {
	raw := []RawInstruction{
		NewRawInstruction(1, "LABEL", []Argument{NewLabelArgument("loop")}),
		NewRawInstruction(2, "CREATEFRAME", nil),
	}
	prog, err := New(raw)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	mem := memory.New()
	if err := prog.Preprocess(mem); err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	idx, err := mem.LookupLabel("loop")
	if err != nil {
		t.Fatalf("LookupLabel: %v", err)
	}
	if idx != 0 {
		t.Errorf("LookupLabel(loop) = %d, want 0", idx)
	}
}

func TestPreprocessRejectsDuplicateLabels(t *testing.T) {
	raw := []RawInstruction{
		NewRawInstruction(1, "LABEL", []Argument{NewLabelArgument("loop")}),
		NewRawInstruction(2, "LABEL", []Argument{NewLabelArgument("loop")}),
	}
	prog, err := New(raw)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = prog.Preprocess(memory.New())
	assertCode(t, err, ipperr.Semantic)
}

func assertCode(t *testing.T, err error, want ipperr.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error with code %s, got nil", want.Name())
	}
	ierr, ok := ipperr.As(err)
	if !ok {
		t.Fatalf("expected *ipperr.Error, got %T", err)
	}
	if ierr.Code != want {
		t.Errorf("error code = %s, want %s", ierr.Code.Name(), want.Name())
	}
}
