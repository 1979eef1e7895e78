// Package program holds the parsed, order-validated representation of
// an IPPcode23 program: a flat, 0-indexed instruction list plus the
// normalized opcode and argument list each instruction carries. It is
// the target type the loader (pkg/loader) builds and the engine
// (pkg/engine) walks; see spec §4.4.
package program

import (
	"sort"
	"strings"

	"github.com/ipp23lang/ipp23/pkg/ipperr"
	"github.com/ipp23lang/ipp23/pkg/memory"
	"github.com/ipp23lang/ipp23/pkg/value"
)

// ArgKind is the static kind an argument carries in from the XML,
// independent of the value it may resolve to at runtime.
type ArgKind string

const (
	KindVar    ArgKind = "var"
	KindInt    ArgKind = "int"
	KindBool   ArgKind = "bool"
	KindString ArgKind = "string"
	KindNil    ArgKind = "nil"
	KindLabel  ArgKind = "label"
	KindType   ArgKind = "type"
)

// Argument is one resolved-at-load-time operand. For KindVar it
// carries the frame role and variable name; for literal kinds
// (int/bool/string/nil) it carries the precomputed Value; for
// KindLabel it carries the label's name as Text; for KindType it
// carries one of the probe type names as Text.
type Argument struct {
	Kind    ArgKind
	Text    string // raw text, used for label names and type-probe literals
	Role    memory.Role
	Name    string
	Literal value.Value
}

// NewVarArgument builds a var-kind argument from XML's "FRAME@name" form.
func NewVarArgument(role memory.Role, name string) Argument {
	return Argument{Kind: KindVar, Role: role, Name: name}
}

// NewLiteralArgument builds a literal-kind argument from an already
// parsed Value.
func NewLiteralArgument(kind ArgKind, v value.Value) Argument {
	return Argument{Kind: kind, Literal: v}
}

// NewLabelArgument builds a label-kind argument.
func NewLabelArgument(name string) Argument {
	return Argument{Kind: KindLabel, Text: name}
}

// NewTypeArgument builds a type-kind argument (one of int/bool/string/nil).
func NewTypeArgument(typeName string) Argument {
	return Argument{Kind: KindType, Text: typeName}
}

// Instruction is one normalized, order-resolved program step.
type Instruction struct {
	Opcode string // normalized uppercase
	Order  int    // 1-based XML order attribute, kept for diagnostics
	Args   []Argument
}

// Program is the ordered instruction list the engine executes,
// 0-indexed: Instructions[i] is the instruction at program index i,
// regardless of the XML order values that produced that position.
type Program struct {
	Instructions []Instruction
}

// RawInstruction is the shape the loader hands to New: a parsed
// instruction with its XML order still attached, not yet sorted.
type RawInstruction struct {
	Order  int
	Opcode string
	Args   []Argument
}

// NewRawInstruction builds a RawInstruction for the loader.
func NewRawInstruction(order int, opcode string, args []Argument) RawInstruction {
	return RawInstruction{Order: order, Opcode: strings.ToUpper(opcode), Args: args}
}

// New validates ordinals and sorts raw instructions into execution
// order. Ordinals must be strictly positive and, after ascending
// sort, strictly increasing (no duplicates); violations fail with
// XML_STRUCTURE per spec §4.4.
func New(raw []RawInstruction) (*Program, error) {
	for _, r := range raw {
		if r.Order <= 0 {
			return nil, ipperr.New(ipperr.XMLStructure, "instruction order %d is not strictly positive", r.Order)
		}
		if _, ok := OpcodeArity[r.Opcode]; !ok {
			return nil, ipperr.New(ipperr.XMLStructure, "unknown opcode %q", r.Opcode)
		}
		if want := OpcodeArity[r.Opcode]; want != len(r.Args) {
			return nil, ipperr.New(ipperr.XMLStructure, "opcode %q expects %d argument(s), got %d", r.Opcode, want, len(r.Args))
		}
	}

	sorted := make([]RawInstruction, len(raw))
	copy(sorted, raw)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Order == sorted[i-1].Order {
			return nil, ipperr.New(ipperr.XMLStructure, "duplicate instruction order %d", sorted[i].Order)
		}
	}

	instrs := make([]Instruction, len(sorted))
	for i, r := range sorted {
		instrs[i] = Instruction{Opcode: r.Opcode, Order: r.Order, Args: r.Args}
	}
	return &Program{Instructions: instrs}, nil
}

// Preprocess performs the one-shot label pass: it walks the program in
// execution order and registers every LABEL definition into mem's
// label table before any instruction runs. Duplicate labels fail with
// SEMANTIC_ERROR and abort before execution starts (spec §4.5, §7).
func (p *Program) Preprocess(mem *memory.Memory) error {
	for idx, ins := range p.Instructions {
		if ins.Opcode != "LABEL" {
			continue
		}
		name := ins.Args[0].Text
		if err := mem.DefineLabel(name, idx); err != nil {
			if e, ok := ipperr.As(err); ok {
				return e.WithInstruction(ins.Opcode, ins.Order)
			}
			return err
		}
	}
	return nil
}

// Len returns the number of instructions in the program.
func (p *Program) Len() int { return len(p.Instructions) }
