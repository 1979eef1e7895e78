package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// intLiteral is the grammar for IPPcode23's three integer textual
// forms: decimal, 0x/-0x hex, and 0o/-0o octal. Mirrors how
// pkg/parser builds PSIL's token grammar as a tagged Go struct.
type intLiteral struct {
	Hex *string `  @Hex`
	Oct *string `| @Oct`
	Dec *string `| @Dec`
}

var intLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Hex", Pattern: `-?0[xX][0-9a-fA-F]+`},
	{Name: "Oct", Pattern: `-?0[oO][0-7]+`},
	{Name: "Dec", Pattern: `-?[0-9]+`},
})

var intParser = participle.MustBuild[intLiteral](
	participle.Lexer(intLexer),
)

// ParseInt parses one of IPPcode23's integer literal forms.
func ParseInt(text string) (int64, error) {
	lit, err := intParser.ParseString("", text)
	if err != nil {
		return 0, fmt.Errorf("malformed int literal %q: %w", text, err)
	}
	switch {
	case lit.Hex != nil:
		return strconv.ParseInt(*lit.Hex, 0, 64)
	case lit.Oct != nil:
		// Go's strconv treats "0o" the same as "0O"; ParseInt with
		// base 0 understands the 0o prefix directly.
		return strconv.ParseInt(*lit.Oct, 0, 64)
	case lit.Dec != nil:
		return strconv.ParseInt(*lit.Dec, 10, 64)
	default:
		return 0, fmt.Errorf("malformed int literal %q", text)
	}
}

// ParseLiteral constructs a Value from the textual form IPPcode23
// uses for a given argument kind ("int", "bool", "string", "nil").
// String text is taken raw and passed through EscapeExpand here, so
// callers (the loader among them) hand in the unexpanded XML text.
func ParseLiteral(kindTag, text string) (Value, error) {
	switch kindTag {
	case "int":
		i, err := ParseInt(text)
		if err != nil {
			return Value{}, err
		}
		return NewInt(i), nil
	case "bool":
		switch text {
		case "true":
			return NewBool(true), nil
		case "false":
			return NewBool(false), nil
		default:
			return Value{}, fmt.Errorf("malformed bool literal %q", text)
		}
	case "string":
		expanded, err := EscapeExpand(text)
		if err != nil {
			return Value{}, err
		}
		return NewStr(expanded), nil
	case "nil":
		if text != "nil" {
			return Value{}, fmt.Errorf("malformed nil literal %q", text)
		}
		return NewNil(), nil
	default:
		return Value{}, fmt.Errorf("unknown literal kind %q", kindTag)
	}
}

// EscapeExpand replaces every \ddd triplet (three decimal digits) in
// s with the corresponding Unicode code point. Any other backslash is
// invalid. Applied once, at parse time, so that CONCAT/STRLEN/GETCHAR/
// SETCHAR always see already-expanded code points.
func EscapeExpand(s string) (string, error) {
	var out strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '\\' {
			out.WriteRune(runes[i])
			continue
		}
		if i+3 >= len(runes) {
			return "", fmt.Errorf("truncated escape sequence in %q", s)
		}
		digits := string(runes[i+1 : i+4])
		for _, d := range digits {
			if d < '0' || d > '9' {
				return "", fmt.Errorf("invalid escape sequence \\%s in %q", digits, s)
			}
		}
		code, err := strconv.Atoi(digits)
		if err != nil {
			return "", fmt.Errorf("invalid escape sequence \\%s in %q", digits, s)
		}
		out.WriteRune(rune(code))
		i += 3
	}
	return out.String(), nil
}
