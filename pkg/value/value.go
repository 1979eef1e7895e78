// Package value defines the tagged value model for IPPcode23: the
// handful of kinds a variable slot or stack cell can hold, plus the
// uninitialized placeholder a freshly declared variable starts as.
package value

import (
	"fmt"
	"strconv"
)

// Kind identifies which variant of Value is populated.
type Kind int

const (
	Uninitialized Kind = iota
	Int
	Bool
	Str
	Nil
)

// TypeName returns the textual type name used by TYPE and diagnostics,
// or "" for Uninitialized.
func (k Kind) TypeName() string {
	switch k {
	case Int:
		return "int"
	case Bool:
		return "bool"
	case Str:
		return "string"
	case Nil:
		return "nil"
	default:
		return ""
	}
}

// Value is a single IPPcode23 runtime value: exactly one of the kinds
// above is populated, selected by Kind.
type Value struct {
	kind Kind
	i    int64
	b    bool
	s    string
}

// NewInt wraps a signed 64-bit integer.
func NewInt(i int64) Value { return Value{kind: Int, i: i} }

// NewBool wraps a boolean.
func NewBool(b bool) Value { return Value{kind: Bool, b: b} }

// NewStr wraps a string of Unicode code points.
func NewStr(s string) Value { return Value{kind: Str, s: s} }

// NewNil returns the unique nil value.
func NewNil() Value { return Value{kind: Nil} }

// NewUninitialized returns the placeholder held by a freshly declared,
// not-yet-written slot. It is also the Value zero value.
func NewUninitialized() Value { return Value{kind: Uninitialized} }

// Kind reports which variant is populated.
func (v Value) Kind() Kind { return v.kind }

// IsUninitialized reports whether v is the Uninitialized placeholder.
func (v Value) IsUninitialized() bool { return v.kind == Uninitialized }

// Int returns the wrapped integer and true, or (0, false) if v is not Int.
func (v Value) Int() (int64, bool) {
	if v.kind != Int {
		return 0, false
	}
	return v.i, true
}

// Bool returns the wrapped boolean and true, or (false, false) if v is not Bool.
func (v Value) Bool() (bool, bool) {
	if v.kind != Bool {
		return false, false
	}
	return v.b, true
}

// Str returns the wrapped string and true, or ("", false) if v is not Str.
func (v Value) Str() (string, bool) {
	if v.kind != Str {
		return "", false
	}
	return v.s, true
}

// TypeName returns the textual name of v's kind, or "" if Uninitialized.
func (v Value) TypeName() string { return v.kind.TypeName() }

// WriteString renders v the way WRITE prints it to standard output:
// integers in decimal, booleans as true/false, strings verbatim, nil
// as the empty string.
func (v Value) WriteString() string {
	switch v.kind {
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Bool:
		if v.b {
			return "true"
		}
		return "false"
	case Str:
		return v.s
	case Nil:
		return ""
	default:
		return ""
	}
}

// DebugString renders v for DPRINT/BREAK diagnostics, where the kind
// is useful context and Uninitialized must be distinguishable from nil.
func (v Value) DebugString() string {
	switch v.kind {
	case Uninitialized:
		return "<uninitialized>"
	case Nil:
		return "nil"
	case Str:
		return fmt.Sprintf("%q", v.s)
	default:
		return v.WriteString()
	}
}

// Equal implements IPPcode23's EQ semantics: same-kind values compare
// by payload; Nil equals only Nil; anything else compares unequal
// across kinds. It does not itself enforce EQ's admissible-kind rule
// (int/bool/string/nil) — callers check Kind before calling this.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case Int:
		return v.i == other.i
	case Bool:
		return v.b == other.b
	case Str:
		return v.s == other.s
	case Nil:
		return true
	default:
		return false
	}
}

// Less implements LT's ordering for int, bool (false < true), and
// string (code-point lexicographic). Callers must ensure both values
// share the admissible kind before calling.
func (v Value) Less(other Value) bool {
	switch v.kind {
	case Int:
		return v.i < other.i
	case Bool:
		return !v.b && other.b
	case Str:
		return v.s < other.s
	default:
		return false
	}
}
