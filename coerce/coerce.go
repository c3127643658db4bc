package coerce

import (
	"fmt"

	"github.com/dbschema/dbschema/internal/cerr"
	"github.com/dbschema/dbschema/value"
)

// Warning is a non-fatal finding produced while coercing (e.g. an unknown
// object key being dropped, spec §4.D).
type Warning struct {
	Path    string
	Message string
}

// Coerce reshapes v to structurally match t, per spec §4.D:
//   - string ← number/bool is always allowed.
//   - number ← string is allowed if the string parses numerically.
//   - bool ← string is allowed for "true"/"false".
//   - list(T)/set(T)/map(T) coerce elementwise.
//   - object coercion drops unknown keys (warning) and fills missing
//     optional fields with Null.
//
// path identifies the position being coerced for TypeMismatch diagnostics
// (e.g. "var.tables[2].name").
func Coerce(t *value.Type, v value.Value, path string) (value.Value, []Warning, error) {
	var warnings []Warning
	out, err := coerce(t, v, path, &warnings)
	return out, warnings, err
}

func coerce(t *value.Type, v value.Value, path string, warnings *[]Warning) (value.Value, error) {
	if t == nil || t.Kind == value.TypeAny {
		return v, nil
	}
	if v.IsNull() {
		return value.Null(), nil
	}
	switch t.Kind {
	case value.TypeString:
		s, err := v.ToString()
		if err != nil {
			return value.Value{}, mismatch(t, v, path)
		}
		return value.String(s), nil
	case value.TypeNumber:
		n, err := v.ToNumber()
		if err != nil {
			return value.Value{}, mismatch(t, v, path)
		}
		return value.NumberVal(n), nil
	case value.TypeBool:
		b, err := v.ToBool()
		if err != nil {
			return value.Value{}, mismatch(t, v, path)
		}
		return value.Bool(b), nil
	case value.TypeList, value.TypeSet:
		if v.Kind() != value.KindList {
			return value.Value{}, mismatch(t, v, path)
		}
		items := v.List()
		out := make([]value.Value, 0, len(items))
		for i, it := range items {
			cv, err := coerce(t.Elem, it, fmt.Sprintf("%s[%d]", path, i), warnings)
			if err != nil {
				return value.Value{}, err
			}
			out = append(out, cv)
		}
		if t.Kind == value.TypeSet {
			out = dedupe(out)
		}
		return value.List(out...), nil
	case value.TypeMap:
		if v.Kind() != value.KindObject {
			return value.Value{}, mismatch(t, v, path)
		}
		obj := v.Object()
		out := value.NewObject()
		for _, k := range obj.Keys() {
			fv, _ := obj.Get(k)
			cv, err := coerce(t.Elem, fv, fmt.Sprintf("%s.%s", path, k), warnings)
			if err != nil {
				return value.Value{}, err
			}
			out.Set(k, cv)
		}
		return value.ObjectVal(out), nil
	case value.TypeTuple:
		if v.Kind() != value.KindList {
			return value.Value{}, mismatch(t, v, path)
		}
		items := v.List()
		if len(items) != len(t.Tuple) {
			return value.Value{}, cerr.New(cerr.KindTypeMismatch, cerr.Location{}, "TypeMismatch at %s: tuple expects %d elements, got %d", path, len(t.Tuple), len(items))
		}
		out := make([]value.Value, len(items))
		for i, it := range items {
			cv, err := coerce(t.Tuple[i], it, fmt.Sprintf("%s[%d]", path, i), warnings)
			if err != nil {
				return value.Value{}, err
			}
			out[i] = cv
		}
		return value.List(out...), nil
	case value.TypeObject:
		if v.Kind() != value.KindObject {
			return value.Value{}, mismatch(t, v, path)
		}
		src := v.Object()
		out := value.NewObject()
		known := make(map[string]bool, len(t.Fields))
		for _, f := range t.Fields {
			known[f.Name] = true
			fv, ok := src.Get(f.Name)
			if !ok {
				if f.Optional {
					out.Set(f.Name, value.Null())
					continue
				}
				return value.Value{}, cerr.New(cerr.KindTypeMismatch, cerr.Location{}, "TypeMismatch at %s: missing required field %q", path, f.Name)
			}
			cv, err := coerce(f.Type, fv, fmt.Sprintf("%s.%s", path, f.Name), warnings)
			if err != nil {
				return value.Value{}, err
			}
			out.Set(f.Name, cv)
		}
		for _, k := range src.Keys() {
			if !known[k] {
				*warnings = append(*warnings, Warning{Path: path, Message: fmt.Sprintf("unknown field %q dropped", k)})
			}
		}
		return value.ObjectVal(out), nil
	default:
		return value.Value{}, cerr.New(cerr.KindTypeMismatch, cerr.Location{}, "TypeMismatch at %s: unsupported type kind", path)
	}
}

func dedupe(items []value.Value) []value.Value {
	var out []value.Value
	for _, it := range items {
		dup := false
		for _, seen := range out {
			if seen.Equal(it) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, it)
		}
	}
	return out
}

func mismatch(t *value.Type, v value.Value, path string) error {
	return cerr.New(cerr.KindTypeMismatch, cerr.Location{}, "TypeMismatch at %s: expected %s, got %s", path, t, v.Kind())
}
