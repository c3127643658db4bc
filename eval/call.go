package eval

import (
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/dbschema/dbschema/internal/cerr"
	"github.com/dbschema/dbschema/value"
)

// Builtin is a registered function implementation (spec §6.5). Each
// builtin validates its own arity and argument types, returning an
// ArityMismatch or ArgumentType cerr.Error on misuse.
type Builtin func(args []value.Value, loc cerr.Location) (value.Value, error)

func evalCall(e *hclsyntax.FunctionCallExpr, scope *Scope, loc cerr.Location) (value.Value, error) {
	fn, ok := builtins[e.Name]
	if !ok {
		return value.Value{}, cerr.New(cerr.KindUnknownName, loc, "unknown function %q", e.Name)
	}
	args := make([]value.Value, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := Eval(a, scope)
		if err != nil {
			return value.Value{}, err
		}
		args = append(args, v)
	}
	return fn(args, loc)
}

func arity(args []value.Value, loc cerr.Location, name string, n int) error {
	if len(args) != n {
		return cerr.New(cerr.KindArityMismatch, loc, "%s expects %d argument(s), got %d", name, n, len(args))
	}
	return nil
}

func arityRange(args []value.Value, loc cerr.Location, name string, min, max int) error {
	if len(args) < min || (max >= 0 && len(args) > max) {
		return cerr.New(cerr.KindArityMismatch, loc, "%s expects between %d and %d argument(s), got %d", name, min, max, len(args))
	}
	return nil
}

func wantString(v value.Value, loc cerr.Location, name string, pos int) (string, error) {
	s, err := v.ToString()
	if err != nil {
		return "", cerr.New(cerr.KindArgumentType, loc, "%s argument %d: %v", name, pos, err)
	}
	return s, nil
}

func wantNumber(v value.Value, loc cerr.Location, name string, pos int) (value.Number, error) {
	n, err := v.ToNumber()
	if err != nil {
		return value.Number{}, cerr.New(cerr.KindArgumentType, loc, "%s argument %d: %v", name, pos, err)
	}
	return n, nil
}

func wantList(v value.Value, loc cerr.Location, name string, pos int) ([]value.Value, error) {
	if v.Kind() != value.KindList {
		return nil, cerr.New(cerr.KindArgumentType, loc, "%s argument %d: expected a list, got %s", name, pos, v.Kind())
	}
	return v.List(), nil
}
