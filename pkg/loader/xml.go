// Package loader is IPPcode23's external collaborator (spec §6): it
// turns one XML document into a *program.Program the engine can run.
// It is deliberately thin — structural XML shape and literal parsing
// only, no instruction semantics — matching the spec's framing of the
// loader as a syntactic validator that hands the engine a fully
// parsed program.
package loader

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/ipp23lang/ipp23/pkg/ipperr"
	"github.com/ipp23lang/ipp23/pkg/memory"
	"github.com/ipp23lang/ipp23/pkg/program"
	"github.com/ipp23lang/ipp23/pkg/value"
)

type xmlDocument struct {
	XMLName      xml.Name        `xml:"program"`
	Instructions []xmlInstruction `xml:"instruction"`
}

type xmlInstruction struct {
	Order  string   `xml:"order,attr"`
	Opcode string   `xml:"opcode,attr"`
	Args   []xmlArg `xml:",any"`
}

type xmlArg struct {
	XMLName xml.Name
	Type    string `xml:"type,attr"`
	Text    string `xml:",chardata"`
}

// literalArgKinds are the argument type tags parsed straight through
// value.ParseLiteral.
var literalArgKinds = map[string]program.ArgKind{
	"int":    program.KindInt,
	"bool":   program.KindBool,
	"string": program.KindString,
	"nil":    program.KindNil,
}

// Load reads one IPPcode23 XML document and returns the validated,
// order-sorted Program. Malformed XML fails with exit code 31;
// malformed instruction/argument content fails with 32 (XML_STRUCTURE).
func Load(r io.Reader) (*program.Program, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, ipperr.New(ipperr.XMLMalformed, "not well-formed XML: %v", err)
	}

	raw := make([]program.RawInstruction, 0, len(doc.Instructions))
	for _, xi := range doc.Instructions {
		order, err := strconv.Atoi(strings.TrimSpace(xi.Order))
		if err != nil {
			return nil, ipperr.New(ipperr.XMLStructure, "instruction order %q is not an integer", xi.Order)
		}
		if xi.Opcode == "" {
			return nil, ipperr.New(ipperr.XMLStructure, "instruction #%d is missing an opcode", order)
		}

		args := make([]program.Argument, 0, len(xi.Args))
		for _, xa := range xi.Args {
			arg, err := convertArg(xa)
			if err != nil {
				if e, ok := ipperr.As(err); ok {
					return nil, e.WithInstruction(strings.ToUpper(xi.Opcode), order)
				}
				return nil, err
			}
			args = append(args, arg)
		}
		raw = append(raw, program.NewRawInstruction(order, xi.Opcode, args))
	}

	return program.New(raw)
}

func convertArg(xa xmlArg) (program.Argument, error) {
	switch {
	case xa.Type == "var":
		role, name, err := parseVarRef(strings.TrimSpace(xa.Text))
		if err != nil {
			return program.Argument{}, err
		}
		return program.NewVarArgument(role, name), nil

	case literalArgKinds[xa.Type] != "":
		kind := literalArgKinds[xa.Type]
		text := xa.Text
		if xa.Type != "string" {
			text = strings.TrimSpace(text)
		}
		v, err := value.ParseLiteral(xa.Type, text)
		if err != nil {
			return program.Argument{}, ipperr.New(ipperr.XMLStructure, "%v", err)
		}
		return program.NewLiteralArgument(kind, v), nil

	case xa.Type == "label":
		return program.NewLabelArgument(strings.TrimSpace(xa.Text)), nil

	case xa.Type == "type":
		t := strings.TrimSpace(xa.Text)
		switch t {
		case "int", "bool", "string", "nil":
			return program.NewTypeArgument(t), nil
		default:
			return program.Argument{}, ipperr.New(ipperr.XMLStructure, "unknown type probe %q", t)
		}

	default:
		return program.Argument{}, ipperr.New(ipperr.XMLStructure, "unknown argument type %q", xa.Type)
	}
}

// parseVarRef splits IPPcode23's "FRAME@name" textual form.
func parseVarRef(s string) (memory.Role, string, error) {
	parts := strings.SplitN(s, "@", 2)
	if len(parts) != 2 || parts[1] == "" {
		return 0, "", ipperr.New(ipperr.XMLStructure, "malformed variable reference %q", s)
	}
	switch parts[0] {
	case "GF":
		return memory.GF, parts[1], nil
	case "LF":
		return memory.LF, parts[1], nil
	case "TF":
		return memory.TF, parts[1], nil
	default:
		return 0, "", ipperr.New(ipperr.XMLStructure, "unknown frame %q in %q", parts[0], s)
	}
}
