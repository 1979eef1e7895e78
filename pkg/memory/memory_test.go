package memory

import (
	"testing"

	"github.com/ipp23lang/ipp23/pkg/ipperr"
	"github.com/ipp23lang/ipp23/pkg/value"
)

func TestDefineAndReadRoundTrip(t *testing.T) {
	m := New()
	if err := m.Define(GF, "x"); err != nil {
		t.Fatalf("Define: %v", err)
	}
	if err := m.Write(GF, "x", value.NewInt(5)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := m.Read(GF, "x")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if i, ok := got.Int(); !ok || i != 5 {
		t.Errorf("Read(GF,x) = %v, want 5", got)
	}
}

func TestDefineDuplicateFails(t *testing.T) {
	m := New()
	if err := m.Define(GF, "x"); err != nil {
		t.Fatalf("Define: %v", err)
	}
	err := m.Define(GF, "x")
	assertCode(t, err, ipperr.Semantic)
}

func TestReadUndefinedFails(t *testing.T) {
	m := New()
	_, err := m.Read(GF, "missing")
	assertCode(t, err, ipperr.UndefVariable)
}

func TestReadReturnsUninitializedUntilWritten(t *testing.T) {
	m := New()
	if err := m.Define(GF, "x"); err != nil {
		t.Fatalf("Define: %v", err)
	}
	got, err := m.Read(GF, "x")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !got.IsUninitialized() {
		t.Error("a defined-but-unwritten slot should read back as Uninitialized")
	}
}

func TestLocalFrameAbsentWithoutPush(t *testing.T) {
	m := New()
	_, err := m.Read(LF, "x")
	assertCode(t, err, ipperr.FrameAbsent)
}

func TestFrameLifecycle(t *testing.T) {
	m := New()
	if _, err := m.GetFrame(TF); err == nil {
		t.Fatal("TF should be absent before CreateFrame")
	}
	m.CreateFrame()
	if err := m.Define(TF, "x"); err != nil {
		t.Fatalf("Define(TF): %v", err)
	}
	if err := m.PushFrame(); err != nil {
		t.Fatalf("PushFrame: %v", err)
	}
	if m.FrameDepth() != 1 {
		t.Fatalf("FrameDepth = %d, want 1", m.FrameDepth())
	}
	if _, err := m.Read(LF, "x"); err != nil {
		t.Fatalf("Read(LF,x) after PushFrame: %v", err)
	}
	if err := m.PopFrame(); err != nil {
		t.Fatalf("PopFrame: %v", err)
	}
	if _, err := m.Read(TF, "x"); err != nil {
		t.Fatalf("Read(TF,x) after PopFrame: %v", err)
	}
}

func TestPushFrameWithoutCreateFails(t *testing.T) {
	m := New()
	err := m.PushFrame()
	assertCode(t, err, ipperr.FrameAbsent)
}

func TestPopFrameOnEmptyStackFails(t *testing.T) {
	m := New()
	err := m.PopFrame()
	assertCode(t, err, ipperr.FrameAbsent)
}

func TestDataStackRoundTrip(t *testing.T) {
	m := New()
	m.DataPush(value.NewInt(1))
	m.DataPush(value.NewStr("a"))
	top, err := m.DataPop()
	if err != nil {
		t.Fatalf("DataPop: %v", err)
	}
	if s, ok := top.Str(); !ok || s != "a" {
		t.Errorf("DataPop = %v, want \"a\"", top)
	}
	if m.DataDepth() != 1 {
		t.Errorf("DataDepth = %d, want 1", m.DataDepth())
	}
}

func TestDataPopEmptyFails(t *testing.T) {
	m := New()
	_, err := m.DataPop()
	assertCode(t, err, ipperr.MissingValue)
}

func TestCallStackRoundTrip(t *testing.T) {
	m := New()
	m.CallPush(7)
	got, err := m.CallPop()
	if err != nil {
		t.Fatalf("CallPop: %v", err)
	}
	if got != 7 {
		t.Errorf("CallPop = %d, want 7", got)
	}
}

func TestCallPopEmptyFails(t *testing.T) {
	m := New()
	_, err := m.CallPop()
	assertCode(t, err, ipperr.MissingValue)
}

func TestLabelDuplicateFails(t *testing.T) {
	m := New()
	if err := m.DefineLabel("loop", 3); err != nil {
		t.Fatalf("DefineLabel: %v", err)
	}
	err := m.DefineLabel("loop", 9)
	assertCode(t, err, ipperr.Semantic)
}

func TestLabelLookupUndefinedFails(t *testing.T) {
	m := New()
	_, err := m.LookupLabel("nowhere")
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
