package value

import "fmt"

// TypeKind identifies a case of the type grammar in spec §3.2.
type TypeKind uint8

const (
	TypeAny TypeKind = iota
	TypeString
	TypeNumber
	TypeBool
	TypeList
	TypeSet
	TypeMap
	TypeTuple
	TypeObject
)

func (k TypeKind) String() string {
	switch k {
	case TypeAny:
		return "any"
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeBool:
		return "bool"
	case TypeList:
		return "list"
	case TypeSet:
		return "set"
	case TypeMap:
		return "map"
	case TypeTuple:
		return "tuple"
	case TypeObject:
		return "object"
	default:
		return "invalid"
	}
}

// Type is a parsed type descriptor, e.g. "list(number)" or
// "object({name=string, age=optional(number)})" (spec §3.2/§4.D).
type Type struct {
	Kind TypeKind

	// Elem is the element type for List, Set and Map.
	Elem *Type

	// Tuple lists each element's type for TypeTuple.
	Tuple []*Type

	// Fields describes each member for TypeObject, in declaration order.
	Fields []ObjectField
}

// ObjectField is one member of an object type. Optional fields may be
// omitted by the caller; a missing Optional field coerces to Null
// (spec §3.2).
type ObjectField struct {
	Name     string
	Type     *Type
	Optional bool
}

func Any() *Type    { return &Type{Kind: TypeAny} }
func String_() *Type { return &Type{Kind: TypeString} }
func Number_() *Type { return &Type{Kind: TypeNumber} }
func Bool_() *Type   { return &Type{Kind: TypeBool} }

func ListOf(elem *Type) *Type { return &Type{Kind: TypeList, Elem: elem} }
func SetOf(elem *Type) *Type  { return &Type{Kind: TypeSet, Elem: elem} }
func MapOf(elem *Type) *Type  { return &Type{Kind: TypeMap, Elem: elem} }
func TupleOf(elems ...*Type) *Type { return &Type{Kind: TypeTuple, Tuple: elems} }
func ObjectOf(fields ...ObjectField) *Type { return &Type{Kind: TypeObject, Fields: fields} }

// String renders the type back into the source grammar, used in
// TypeMismatch diagnostics.
func (t *Type) String() string {
	if t == nil {
		return "any"
	}
	switch t.Kind {
	case TypeAny, TypeString, TypeNumber, TypeBool:
		return t.Kind.String()
	case TypeList:
		return fmt.Sprintf("list(%s)", t.Elem)
	case TypeSet:
		return fmt.Sprintf("set(%s)", t.Elem)
	case TypeMap:
		return fmt.Sprintf("map(%s)", t.Elem)
	case TypeTuple:
		s := "tuple(["
		for i, e := range t.Tuple {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + "])"
	case TypeObject:
		s := "object({"
		for i, f := range t.Fields {
			if i > 0 {
				s += ", "
			}
			if f.Optional {
				s += fmt.Sprintf("%s=optional(%s)", f.Name, f.Type)
			} else {
				s += fmt.Sprintf("%s=%s", f.Name, f.Type)
			}
		}
		return s + "})"
	default:
		return "invalid"
	}
}
