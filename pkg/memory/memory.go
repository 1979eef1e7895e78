// Package memory implements IPPcode23's frame-based memory model: the
// global/local/temporary frames, the frame stack, the data stack, the
// call stack, and the label table. One Memory exists per run; the
// engine package threads it explicitly rather than reaching for a
// package-level singleton (see spec Design Note on singleton memory —
// the teacher's Interpreter struct is threaded the same way, never a
// global).
package memory

import (
	"github.com/ipp23lang/ipp23/pkg/ipperr"
	"github.com/ipp23lang/ipp23/pkg/value"
)

// Role names a frame by its role in the program.
type Role int

const (
	GF Role = iota
	LF
	TF
)

func (r Role) String() string {
	switch r {
	case GF:
		return "GF"
	case LF:
		return "LF"
	case TF:
		return "TF"
	default:
		return "?"
	}
}

// Frame maps a variable's simple name to its slot value.
type Frame map[string]value.Value

// Memory is the single per-run store threaded through the engine.
type Memory struct {
	global    Frame
	temporary Frame   // nil when absent
	frames    []Frame // frame stack; frames[len-1] is the active LF
	data      []value.Value
	calls     []int
	labels    map[string]int
	pc        int
}

// New creates an empty Memory with only the global frame present.
func New() *Memory {
	return &Memory{
		global: make(Frame),
		labels: make(map[string]int),
	}
}

// GetFrame returns the active frame for role, or FRAME_ABSENT if LF/TF
// is not currently present.
func (m *Memory) GetFrame(role Role) (Frame, error) {
	switch role {
	case GF:
		return m.global, nil
	case LF:
		if len(m.frames) == 0 {
			return nil, ipperr.New(ipperr.FrameAbsent, "no local frame on the frame stack")
		}
		return m.frames[len(m.frames)-1], nil
	case TF:
		if m.temporary == nil {
			return nil, ipperr.New(ipperr.FrameAbsent, "temporary frame is absent")
		}
		return m.temporary, nil
	default:
		return nil, ipperr.New(ipperr.FrameAbsent, "unknown frame role")
	}
}

// Define adds a fresh Uninitialized slot named name to role's frame.
// Fails with SEMANTIC_ERROR if the slot already exists.
func (m *Memory) Define(role Role, name string) error {
	frame, err := m.GetFrame(role)
	if err != nil {
		return err
	}
	if _, exists := frame[name]; exists {
		return ipperr.New(ipperr.Semantic, "variable %s@%s already defined", role, name)
	}
	frame[name] = value.NewUninitialized()
	return nil
}

// Read returns the current value of role@name. Fails with
// UNDEF_VARIABLE if the slot was never defined, FRAME_ABSENT if the
// frame itself is absent. A defined-but-unwritten slot reads back as
// value.NewUninitialized(), not an error — callers that reject
// Uninitialized check for it themselves (MISSING_VALUE).
func (m *Memory) Read(role Role, name string) (value.Value, error) {
	frame, err := m.GetFrame(role)
	if err != nil {
		return value.Value{}, err
	}
	v, exists := frame[name]
	if !exists {
		return value.Value{}, ipperr.New(ipperr.UndefVariable, "variable %s@%s not defined", role, name)
	}
	return v, nil
}

// Write replaces the value of an existing slot. The slot must already
// be defined (by DEFVAR); Write never creates one.
func (m *Memory) Write(role Role, name string, v value.Value) error {
	frame, err := m.GetFrame(role)
	if err != nil {
		return err
	}
	if _, exists := frame[name]; !exists {
		return ipperr.New(ipperr.UndefVariable, "variable %s@%s not defined", role, name)
	}
	frame[name] = v
	return nil
}

// CreateFrame replaces TF with a fresh empty frame, discarding any
// prior TF contents.
func (m *Memory) CreateFrame() {
	m.temporary = make(Frame)
}

// PushFrame moves TF onto the frame stack as the new LF, leaving TF
// absent until the next CreateFrame. Fails with FRAME_ABSENT if TF is
// not currently present.
func (m *Memory) PushFrame() error {
	if m.temporary == nil {
		return ipperr.New(ipperr.FrameAbsent, "cannot push an absent temporary frame")
	}
	m.frames = append(m.frames, m.temporary)
	m.temporary = nil
	return nil
}

// PopFrame moves the current LF back into TF, popping the frame
// stack. Fails with FRAME_ABSENT if the frame stack is empty.
func (m *Memory) PopFrame() error {
	if len(m.frames) == 0 {
		return ipperr.New(ipperr.FrameAbsent, "frame stack is empty")
	}
	m.temporary = m.frames[len(m.frames)-1]
	m.frames = m.frames[:len(m.frames)-1]
	return nil
}

// DataPush pushes v onto the data stack.
func (m *Memory) DataPush(v value.Value) {
	m.data = append(m.data, v)
}

// DataPop pops the top of the data stack. Fails with MISSING_VALUE if
// the stack is empty.
func (m *Memory) DataPop() (value.Value, error) {
	if len(m.data) == 0 {
		return value.Value{}, ipperr.New(ipperr.MissingValue, "data stack is empty")
	}
	v := m.data[len(m.data)-1]
	m.data = m.data[:len(m.data)-1]
	return v, nil
}

// CallPush pushes a return program-counter value onto the call stack.
func (m *Memory) CallPush(pc int) {
	m.calls = append(m.calls, pc)
}

// CallPop pops a return program-counter value. Fails with
// MISSING_VALUE if the call stack is empty.
func (m *Memory) CallPop() (int, error) {
	if len(m.calls) == 0 {
		return 0, ipperr.New(ipperr.MissingValue, "call stack is empty")
	}
	pc := m.calls[len(m.calls)-1]
	m.calls = m.calls[:len(m.calls)-1]
	return pc, nil
}

// PC returns the current program counter.
func (m *Memory) PC() int { return m.pc }

// SetPC overwrites the program counter.
func (m *Memory) SetPC(pc int) { m.pc = pc }

// DefineLabel registers a label at an instruction index. Fails with
// SEMANTIC_ERROR if the label is already registered (labels are
// globally unique).
func (m *Memory) DefineLabel(name string, index int) error {
	if _, exists := m.labels[name]; exists {
		return ipperr.New(ipperr.Semantic, "duplicate label %q", name)
	}
	m.labels[name] = index
	return nil
}

// LookupLabel resolves a label to its instruction index. Fails with
// SEMANTIC_ERROR if the label was never defined.
func (m *Memory) LookupLabel(name string) (int, error) {
	idx, exists := m.labels[name]
	if !exists {
		return 0, ipperr.New(ipperr.Semantic, "undefined label %q", name)
	}
	return idx, nil
}

// FrameDepth returns the number of frames currently on the frame
// stack, exposed for tests verifying PUSHFRAME/POPFRAME round-trips.
func (m *Memory) FrameDepth() int { return len(m.frames) }

// DataDepth returns the number of values on the data stack.
func (m *Memory) DataDepth() int { return len(m.data) }

// CallDepth returns the number of return addresses on the call stack.
func (m *Memory) CallDepth() int { return len(m.calls) }
