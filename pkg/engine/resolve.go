package engine

import (
	"github.com/ipp23lang/ipp23/pkg/ipperr"
	"github.com/ipp23lang/ipp23/pkg/program"
	"github.com/ipp23lang/ipp23/pkg/value"
)

// resolveSymb implements the argument resolver (spec §4.3): a var
// argument reads the named slot (possibly Uninitialized); a literal
// argument returns its precomputed Value. Labels and type probes are
// not symbols and are rejected with OPERAND_TYPE.
func (e *Engine) resolveSymb(arg program.Argument) (value.Value, error) {
	switch arg.Kind {
	case program.KindVar:
		return e.Memory.Read(arg.Role, arg.Name)
	case program.KindInt, program.KindBool, program.KindString, program.KindNil:
		return arg.Literal, nil
	default:
		return value.Value{}, ipperr.New(ipperr.OperandType, "expected a symbol, got %s argument", arg.Kind)
	}
}

// resolveDefined is resolveSymb plus the "must not be Uninitialized"
// rule most consumers apply (MOVE, PUSHS, WRITE, and all the
// arithmetic/comparison/logic/string families).
func (e *Engine) resolveDefined(arg program.Argument) (value.Value, error) {
	v, err := e.resolveSymb(arg)
	if err != nil {
		return value.Value{}, err
	}
	if v.IsUninitialized() {
		return value.Value{}, ipperr.New(ipperr.MissingValue, "operand is uninitialized")
	}
	return v, nil
}

func (e *Engine) resolveInt(arg program.Argument) (int64, error) {
	v, err := e.resolveDefined(arg)
	if err != nil {
		return 0, err
	}
	i, ok := v.Int()
	if !ok {
		return 0, ipperr.New(ipperr.OperandType, "expected int, got %s", v.TypeName())
	}
	return i, nil
}

func (e *Engine) resolveBool(arg program.Argument) (bool, error) {
	v, err := e.resolveDefined(arg)
	if err != nil {
		return false, err
	}
	b, ok := v.Bool()
	if !ok {
		return false, ipperr.New(ipperr.OperandType, "expected bool, got %s", v.TypeName())
	}
	return b, nil
}

func (e *Engine) resolveStr(arg program.Argument) (string, error) {
	v, err := e.resolveDefined(arg)
	if err != nil {
		return "", err
	}
	s, ok := v.Str()
	if !ok {
		return "", ipperr.New(ipperr.OperandType, "expected string, got %s", v.TypeName())
	}
	return s, nil
}

// writeVar stores v into a var-kind destination argument.
func (e *Engine) writeVar(arg program.Argument, v value.Value) error {
	if arg.Kind != program.KindVar {
		return ipperr.New(ipperr.OperandType, "destination is not a variable")
	}
	return e.Memory.Write(arg.Role, arg.Name, v)
}

// eqCompatible reports whether a and b may be compared by EQ: same
// kind among {int, bool, string}, or either side Nil.
func eqCompatible(a, b value.Value) bool {
	if a.Kind() == value.Nil || b.Kind() == value.Nil {
		return true
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case value.Int, value.Bool, value.Str:
		return true
	default:
		return false
	}
}

// evalEQ implements EQ's comparison once eqCompatible has held.
func evalEQ(a, b value.Value) bool {
	if a.Kind() == value.Nil && b.Kind() == value.Nil {
		return true
	}
	if a.Kind() == value.Nil || b.Kind() == value.Nil {
		return false
	}
	return a.Equal(b)
}

// orderCompatible reports whether a and b may be compared by LT/GT:
// same kind among {int, bool, string}; Nil is never admissible.
func orderCompatible(a, b value.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case value.Int, value.Bool, value.Str:
		return true
	default:
		return false
	}
}
