package program

// OpcodeArity is the uniform, per-opcode argument-count table the
// loader and program construction consult before dispatch (spec
// §4.4's "small table consulted uniformly before dispatch", and
// Design Note §9's preference for a fixed opcode→behavior mapping
// over one class per opcode). Each instruction body additionally
// checks the *kind* of value each argument resolves to at execution
// time — arity is structural and checked once; value-kind rules
// (int vs bool vs string) depend on runtime frame contents and are
// enforced where the teacher's builtins enforce them, inline.
var OpcodeArity = map[string]int{
	// Frames & functions
	"MOVE":        2,
	"CREATEFRAME": 0,
	"PUSHFRAME":   0,
	"POPFRAME":    0,
	"DEFVAR":      1,
	"CALL":        1,
	"RETURN":      0,

	// Data stack
	"PUSHS": 1,
	"POPS":  1,

	// Arithmetic
	"ADD":  3,
	"SUB":  3,
	"MUL":  3,
	"IDIV": 3,

	// Comparison
	"LT": 3,
	"GT": 3,
	"EQ": 3,

	// Logic
	"AND": 3,
	"OR":  3,
	"NOT": 2,

	// Conversions
	"INT2CHAR": 2,
	"STRI2INT": 3,

	// I/O
	"READ":  2,
	"WRITE": 1,

	// Strings
	"CONCAT":  3,
	"STRLEN":  2,
	"GETCHAR": 3,
	"SETCHAR": 3,

	// Types
	"TYPE": 2,

	// Control flow
	"LABEL":     1,
	"JUMP":      1,
	"JUMPIFEQ":  3,
	"JUMPIFNEQ": 3,
	"EXIT":      1,

	// Debug
	"DPRINT": 1,
	"BREAK":  0,
}
