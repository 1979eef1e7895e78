// Package ipperr defines IPPcode23's runtime error taxonomy and its
// mapping to process exit codes, shared by every layer of the engine
// (memory, program, loader, engine) the way the teacher centralizes
// error codes in a single table (types.Err* / types.ErrorMessage).
package ipperr

import (
	"errors"
	"fmt"
)

// Code is a runtime error kind; its numeric value is also the
// process exit code that kind produces.
type Code int

const (
	XMLMalformed  Code = 31 // not well-formed XML (loader-only, kept here for one exit-code table)
	XMLStructure  Code = 32 // ill-formed instruction stream, unknown opcode, bad operand literal
	Semantic      Code = 52 // duplicate label, redefined variable
	OperandType   Code = 53
	UndefVariable Code = 54
	FrameAbsent   Code = 55
	MissingValue  Code = 56 // pop empty / read uninitialized
	OperandValue  Code = 57 // division by zero, bad EXIT code
	StringError   Code = 58
)

// names mirrors the teacher's ErrorMessage lookup table.
var names = map[Code]string{
	XMLMalformed:  "XML_MALFORMED",
	XMLStructure:  "XML_STRUCTURE",
	Semantic:      "SEMANTIC_ERROR",
	OperandType:   "OPERAND_TYPE",
	UndefVariable: "UNDEF_VARIABLE",
	FrameAbsent:   "FRAME_ABSENT",
	MissingValue:  "MISSING_VALUE",
	OperandValue:  "OPERAND_VALUE",
	StringError:   "STRING_ERROR",
}

// Name returns the taxonomy name for a code, or "UNKNOWN_ERROR".
func (c Code) Name() string {
	if n, ok := names[c]; ok {
		return n
	}
	return "UNKNOWN_ERROR"
}

// ExitCode returns the process exit code for c (identical to its
// numeric value; kept as a named conversion for call-site clarity).
func (c Code) ExitCode() int { return int(c) }

// Error is the concrete error type raised by every engine layer. Its
// Opcode/Order fields are filled in by the dispatcher (see
// pkg/engine) so that diagnostics name the failing instruction per
// the spec's §7 requirement; lower layers (memory, value parsing)
// leave them zero and the dispatcher attaches them on the way out.
type Error struct {
	Code   Code
	Opcode string
	Order  int
	Detail string
}

func (e *Error) Error() string {
	if e.Opcode != "" {
		return fmt.Sprintf("%s: %s (instruction #%d %s)", e.Code.Name(), e.Detail, e.Order, e.Opcode)
	}
	return fmt.Sprintf("%s: %s", e.Code.Name(), e.Detail)
}

// New constructs an Error with no instruction context attached yet.
func New(code Code, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{Code: code, Detail: detail}
}

// WithInstruction returns a copy of e annotated with the opcode and
// ordinal of the instruction that raised it.
func (e *Error) WithInstruction(opcode string, order int) *Error {
	cp := *e
	cp.Opcode = opcode
	cp.Order = order
	return &cp
}

// As reports whether err is (or wraps) an *Error and, if so, returns it.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
