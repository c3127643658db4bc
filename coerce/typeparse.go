// Package coerce implements the variable & type coercer of spec §4.D: a
// recursive-descent parser for the TypeDescriptor grammar (§3.2) and the
// Coerce function that reshapes a supplied Value to match it.
package coerce

import (
	"strings"

	"github.com/dbschema/dbschema/internal/cerr"
	"github.com/dbschema/dbschema/value"
)

// ParseType parses a type string such as "list(number)" or
// "object({name=string, age=optional(number)})" into a value.Type.
func ParseType(s string) (*value.Type, error) {
	p := &typeParser{src: s}
	p.skipSpace()
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, cerr.New(cerr.KindTypeMismatch, cerr.Location{}, "unexpected trailing input in type %q at position %d", s, p.pos)
	}
	return t, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n') {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		return cerr.New(cerr.KindTypeMismatch, cerr.Location{}, "expected %q in type %q at position %d", c, p.src, p.pos)
	}
	p.pos++
	return nil
}

func (p *typeParser) parseIdent() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *typeParser) parseType() (*value.Type, error) {
	p.skipSpace()
	word := p.parseIdent()
	switch word {
	case "any":
		return value.Any(), nil
	case "string":
		return value.String_(), nil
	case "number":
		return value.Number_(), nil
	case "bool":
		return value.Bool_(), nil
	case "list", "set", "map":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		switch word {
		case "list":
			return value.ListOf(elem), nil
		case "set":
			return value.SetOf(elem), nil
		default:
			return value.MapOf(elem), nil
		}
	case "tuple":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		if err := p.expect('['); err != nil {
			return nil, err
		}
		var elems []*value.Type
		p.skipSpace()
		for p.peek() != ']' {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			elems = append(elems, t)
			p.skipSpace()
			if p.peek() == ',' {
				p.pos++
				p.skipSpace()
			}
		}
		if err := p.expect(']'); err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return value.TupleOf(elems...), nil
	case "optional":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		// optional(T) only has meaning as an object field; bare use marks
		// the wrapped type itself (the caller unwraps when walking fields).
		return inner, nil
	case "object":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		if err := p.expect('{'); err != nil {
			return nil, err
		}
		var fields []value.ObjectField
		p.skipSpace()
		for p.peek() != '}' {
			name := p.parseIdent()
			if name == "" {
				return nil, cerr.New(cerr.KindTypeMismatch, cerr.Location{}, "expected field name in object type %q at position %d", p.src, p.pos)
			}
			if err := p.expect('='); err != nil {
				return nil, err
			}
			p.skipSpace()
			optional := strings.HasPrefix(p.src[p.pos:], "optional")
			ft, err := p.parseType()
			if err != nil {
				return nil, err
			}
			fields = append(fields, value.ObjectField{Name: name, Type: ft, Optional: optional})
			p.skipSpace()
			if p.peek() == ',' {
				p.pos++
				p.skipSpace()
			}
		}
		if err := p.expect('}'); err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return value.ObjectOf(fields...), nil
	default:
		return nil, cerr.New(cerr.KindTypeMismatch, cerr.Location{}, "unknown type keyword %q in %q", word, p.src)
	}
}
