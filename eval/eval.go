package eval

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/dbschema/dbschema/internal/cerr"
	"github.com/dbschema/dbschema/value"
)

// Eval evaluates an hclsyntax.Expression against scope, implementing the
// evaluator contract of spec §4.C: "Inputs: an ExprNode, a Scope. Result:
// a Value or an EvalError{kind, source_location, chain}."
//
// hclsyntax.Expression IS the ExprNode of spec §3.4 — the lexer/parser
// (package lang) keeps attribute values as these nodes, unevaluated,
// until this function runs them against a concrete Scope.
func Eval(expr hclsyntax.Expression, scope *Scope) (value.Value, error) {
	rng := expr.Range()
	loc := cerr.Location{File: rng.Filename, Line: rng.Start.Line, Column: rng.Start.Column}

	switch e := expr.(type) {
	case *hclsyntax.LiteralValueExpr:
		return fromCty(e.Val, loc)

	case *hclsyntax.TemplateExpr:
		return evalTemplate(e, scope, loc)

	case *hclsyntax.TemplateWrapExpr:
		return Eval(e.Wrapped, scope)

	case *hclsyntax.TemplateJoinExpr:
		return evalTemplateJoin(e, scope, loc)

	case *hclsyntax.ScopeTraversalExpr:
		return evalTraversal(e.Traversal, scope, loc)

	case *hclsyntax.RelativeTraversalExpr:
		base, err := Eval(e.Source, scope)
		if err != nil {
			return value.Value{}, err
		}
		return applyTraversal(base, e.Traversal, loc)

	case *hclsyntax.AnonSymbolExpr:
		v, ok := scope.Lookup(splatItemName)
		if !ok {
			return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "splat symbol used outside splat expression")
		}
		return v, nil

	case *hclsyntax.IndexExpr:
		return evalIndex(e, scope, loc)

	case *hclsyntax.ConditionalExpr:
		return evalConditional(e, scope, loc)

	case *hclsyntax.ForExpr:
		return evalFor(e, scope, loc)

	case *hclsyntax.SplatExpr:
		return evalSplat(e, scope, loc)

	case *hclsyntax.FunctionCallExpr:
		return evalCall(e, scope, loc)

	case *hclsyntax.TupleConsExpr:
		items := make([]value.Value, 0, len(e.Exprs))
		for _, x := range e.Exprs {
			v, err := Eval(x, scope)
			if err != nil {
				return value.Value{}, err
			}
			items = append(items, v)
		}
		return value.List(items...), nil

	case *hclsyntax.ObjectConsExpr:
		return evalObjectCons(e, scope, loc)

	case *hclsyntax.UnaryOpExpr:
		return evalUnary(e, scope, loc)

	case *hclsyntax.BinaryOpExpr:
		return evalBinary(e, scope, loc)

	case *hclsyntax.ParenthesesExpr:
		return Eval(e.Expression, scope)

	default:
		return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "unsupported expression type %T", expr)
	}
}

// fromCty converts a literal leaf value carried by hclsyntax (always a
// cty.Value) into dbschema's own tagged value.Value. This is the one
// place cty crosses into the rest of the evaluator.
func fromCty(v cty.Value, loc cerr.Location) (value.Value, error) {
	if v.IsNull() {
		return value.Null(), nil
	}
	switch {
	case v.Type() == cty.String:
		return value.String(v.AsString()), nil
	case v.Type() == cty.Bool:
		return value.Bool(v.True()), nil
	case v.Type() == cty.Number:
		bf := v.AsBigFloat()
		if i, acc := bf.Int64(); acc == 0 /* Exact */ {
			return value.IntVal(i), nil
		}
		f, _ := bf.Float64()
		return value.FloatVal(f), nil
	default:
		return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "unsupported literal type %s", v.Type().FriendlyName())
	}
}

// evalTraversal resolves an identifier reference and subsequent
// attribute/index steps (spec §4.C "Identifier reference" + "Traversal").
func evalTraversal(t hcl.Traversal, scope *Scope, loc cerr.Location) (value.Value, error) {
	if len(t) == 0 {
		return value.Value{}, cerr.New(cerr.KindUnknownName, loc, "empty traversal")
	}
	root, ok := t[0].(hcl.TraverseRoot)
	if !ok {
		return value.Value{}, cerr.New(cerr.KindUnknownName, loc, "invalid traversal root")
	}
	v, found := scope.Lookup(root.Name)
	if !found {
		return value.Value{}, cerr.New(cerr.KindUnknownName, loc, "unknown reference %q", root.Name)
	}
	return applyTraversal(v, t[1:], loc)
}

// applyTraversal applies a.b.c / a[k] steps left-to-right (spec §4.C).
func applyTraversal(v value.Value, t hcl.Traversal, loc cerr.Location) (value.Value, error) {
	cur := v
	for _, step := range t {
		switch s := step.(type) {
		case hcl.TraverseAttr:
			if cur.Kind() != value.KindObject {
				return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "cannot access attribute %q of %s", s.Name, cur.Kind())
			}
			fv, ok := cur.Object().Get(s.Name)
			if !ok {
				return value.Value{}, cerr.New(cerr.KindMissingKey, loc, "object has no attribute %q", s.Name)
			}
			cur = fv
		case hcl.TraverseIndex:
			idx, err := fromCty(s.Key, loc)
			if err != nil {
				return value.Value{}, err
			}
			cur, err = indexInto(cur, idx, loc)
			if err != nil {
				return value.Value{}, err
			}
		default:
			return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "unsupported traversal step %T", step)
		}
	}
	return cur, nil
}

func indexInto(coll, key value.Value, loc cerr.Location) (value.Value, error) {
	switch coll.Kind() {
	case value.KindList:
		if key.Kind() != value.KindNumber {
			return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "list index must be a number, got %s", key.Kind())
		}
		items := coll.List()
		i := key.Number().Int64()
		if i < 0 || i >= int64(len(items)) {
			return value.Value{}, cerr.New(cerr.KindMissingKey, loc, "index %d out of range [0, %d)", i, len(items))
		}
		return items[i], nil
	case value.KindObject:
		if key.Kind() != value.KindString {
			return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "object key must be a string, got %s", key.Kind())
		}
		fv, ok := coll.Object().Get(key.Str())
		if !ok {
			return value.Value{}, cerr.New(cerr.KindMissingKey, loc, "object has no key %q", key.Str())
		}
		return fv, nil
	default:
		return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "cannot index into %s", coll.Kind())
	}
}

func evalIndex(e *hclsyntax.IndexExpr, scope *Scope, loc cerr.Location) (value.Value, error) {
	coll, err := Eval(e.Collection, scope)
	if err != nil {
		return value.Value{}, err
	}
	key, err := Eval(e.Key, scope)
	if err != nil {
		return value.Value{}, err
	}
	return indexInto(coll, key, loc)
}

func evalConditional(e *hclsyntax.ConditionalExpr, scope *Scope, loc cerr.Location) (value.Value, error) {
	c, err := Eval(e.Condition, scope)
	if err != nil {
		return value.Value{}, err
	}
	if c.Kind() != value.KindBool {
		return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "conditional requires a bool, got %s", c.Kind())
	}
	if c.Bool() {
		return Eval(e.TrueResult, scope)
	}
	return Eval(e.FalseResult, scope)
}

func evalObjectCons(e *hclsyntax.ObjectConsExpr, scope *Scope, loc cerr.Location) (value.Value, error) {
	obj := value.NewObject()
	for _, item := range e.Items {
		key, err := evalObjectKey(item.KeyExpr, scope)
		if err != nil {
			return value.Value{}, err
		}
		val, err := Eval(item.ValueExpr, scope)
		if err != nil {
			return value.Value{}, err
		}
		obj.Set(key, val)
	}
	return value.ObjectVal(obj), nil
}

// evalObjectKey handles both bareword keys (name = value) and quoted/
// computed keys ("${x}" = value), matching spec §4.A's "either bareword
// or quoted keys".
func evalObjectKey(keyExpr hclsyntax.Expression, scope *Scope) (string, error) {
	if kw := hcl.ExprAsKeyword(keyExpr); kw != "" {
		return kw, nil
	}
	v, err := Eval(keyExpr, scope)
	if err != nil {
		return "", err
	}
	s, err := v.ToString()
	if err != nil {
		return "", cerr.New(cerr.KindTypeMismatch, cerr.Location{}, "object key must be a string: %v", err)
	}
	return s, nil
}

func evalUnary(e *hclsyntax.UnaryOpExpr, scope *Scope, loc cerr.Location) (value.Value, error) {
	v, err := Eval(e.Val, scope)
	if err != nil {
		return value.Value{}, err
	}
	switch e.Op {
	case hclsyntax.OpLogicalNot:
		if v.Kind() != value.KindBool {
			return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "! requires a bool, got %s", v.Kind())
		}
		return value.Bool(!v.Bool()), nil
	case hclsyntax.OpNegate:
		if v.Kind() != value.KindNumber {
			return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "unary - requires a number, got %s", v.Kind())
		}
		n := v.Number()
		if n.IsInt() {
			return value.IntVal(-n.Int64()), nil
		}
		return value.FloatVal(-n.Float64()), nil
	default:
		return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "unsupported unary operator")
	}
}

// evalBinary supports the comparison and logical operators of spec §6.1.
// Arithmetic is deliberately unsupported (spec §6.1 "Arithmetic is not
// part of the evaluator"); encountering +,-,*,/,% here is a TypeMismatch,
// not a silently-computed result.
func evalBinary(e *hclsyntax.BinaryOpExpr, scope *Scope, loc cerr.Location) (value.Value, error) {
	switch e.Op {
	case hclsyntax.OpLogicalAnd, hclsyntax.OpLogicalOr:
		lv, err := Eval(e.LHS, scope)
		if err != nil {
			return value.Value{}, err
		}
		if lv.Kind() != value.KindBool {
			return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "&&/|| requires bool operands, got %s", lv.Kind())
		}
		// Short-circuit (spec §4.C "Conditional ... short-circuit" applies
		// equally to && and ||, the only other branching operators).
		if e.Op == hclsyntax.OpLogicalAnd && !lv.Bool() {
			return value.Bool(false), nil
		}
		if e.Op == hclsyntax.OpLogicalOr && lv.Bool() {
			return value.Bool(true), nil
		}
		rv, err := Eval(e.RHS, scope)
		if err != nil {
			return value.Value{}, err
		}
		if rv.Kind() != value.KindBool {
			return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "&&/|| requires bool operands, got %s", rv.Kind())
		}
		return rv, nil
	}

	lv, err := Eval(e.LHS, scope)
	if err != nil {
		return value.Value{}, err
	}
	rv, err := Eval(e.RHS, scope)
	if err != nil {
		return value.Value{}, err
	}
	switch e.Op {
	case hclsyntax.OpEqual:
		return value.Bool(lv.Equal(rv)), nil
	case hclsyntax.OpNotEqual:
		return value.Bool(!lv.Equal(rv)), nil
	case hclsyntax.OpLessThan, hclsyntax.OpLessThanOrEqual, hclsyntax.OpGreaterThan, hclsyntax.OpGreaterThanOrEqual:
		if lv.Kind() != value.KindNumber || rv.Kind() != value.KindNumber {
			return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "comparison requires numbers, got %s and %s", lv.Kind(), rv.Kind())
		}
		c := lv.Number().Compare(rv.Number())
		switch e.Op {
		case hclsyntax.OpLessThan:
			return value.Bool(c < 0), nil
		case hclsyntax.OpLessThanOrEqual:
			return value.Bool(c <= 0), nil
		case hclsyntax.OpGreaterThan:
			return value.Bool(c > 0), nil
		default:
			return value.Bool(c >= 0), nil
		}
	default:
		return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "arithmetic is not supported by this evaluator")
	}
}

// evalTemplate implements string templates: literal pieces concatenate,
// each ${e} substitutes to_string(eval(e)) (spec §4.C).
func evalTemplate(e *hclsyntax.TemplateExpr, scope *Scope, loc cerr.Location) (value.Value, error) {
	if e.IsStringLiteral() {
		v, err := Eval(e.Parts[0], scope)
		if err != nil {
			return value.Value{}, err
		}
		return v, nil
	}
	var out string
	for _, part := range e.Parts {
		v, err := Eval(part, scope)
		if err != nil {
			return value.Value{}, err
		}
		s, err := v.ToString()
		if err != nil {
			return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "template interpolation: %v", err)
		}
		out += s
	}
	return value.String(out), nil
}

// evalTemplateJoin implements the %{for}...%{endfor} template directive,
// which hclsyntax desugars into a ForExpr producing a tuple that a
// TemplateJoinExpr concatenates.
func evalTemplateJoin(e *hclsyntax.TemplateJoinExpr, scope *Scope, loc cerr.Location) (value.Value, error) {
	v, err := Eval(e.Tuple, scope)
	if err != nil {
		return value.Value{}, err
	}
	if v.Kind() != value.KindList {
		return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "template %%{for} body must produce a list")
	}
	var out string
	for _, item := range v.List() {
		s, err := item.ToString()
		if err != nil {
			return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "template %%{for} element: %v", err)
		}
		out += s
	}
	return value.String(out), nil
}
