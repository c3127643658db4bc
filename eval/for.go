package eval

import (
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/dbschema/dbschema/internal/cerr"
	"github.com/dbschema/dbschema/value"
)

// evalFor implements the for-comprehension forms of spec §4.C: the list
// form "[for v in coll : expr]" / "[for k, v in coll : expr if cond]" and
// the object form "{for k, v in coll : kexpr => vexpr}", including the
// "..." grouping variant that collects same-key results into a list.
func evalFor(e *hclsyntax.ForExpr, scope *Scope, loc cerr.Location) (value.Value, error) {
	coll, err := Eval(e.CollExpr, scope)
	if err != nil {
		return value.Value{}, err
	}

	type pair struct {
		key value.Value
		val value.Value
	}
	var pairs []pair
	switch coll.Kind() {
	case value.KindList:
		for i, item := range coll.List() {
			pairs = append(pairs, pair{key: value.IntVal(int64(i)), val: item})
		}
	case value.KindObject:
		for _, k := range coll.Object().SortedKeys() {
			v, _ := coll.Object().Get(k)
			pairs = append(pairs, pair{key: value.String(k), val: v})
		}
	default:
		return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "for comprehension requires a list or object, got %s", coll.Kind())
	}

	if e.KeyExpr != nil {
		out := value.NewObject()
		groups := make(map[string][]value.Value)
		order := make([]string, 0, len(pairs))
		for _, p := range pairs {
			child := scope.Child()
			if e.KeyVar != "" {
				child.Set(e.KeyVar, p.key)
			}
			child.Set(e.ValVar, p.val)
			if e.CondExpr != nil {
				keep, err := evalCond(e.CondExpr, child, loc)
				if err != nil {
					return value.Value{}, err
				}
				if !keep {
					continue
				}
			}
			kv, err := Eval(e.KeyExpr, child)
			if err != nil {
				return value.Value{}, err
			}
			ks, err := kv.ToString()
			if err != nil {
				return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "for comprehension key: %v", err)
			}
			vv, err := Eval(e.ValExpr, child)
			if err != nil {
				return value.Value{}, err
			}
			if _, seen := groups[ks]; !seen {
				order = append(order, ks)
			}
			groups[ks] = append(groups[ks], vv)
		}
		for _, k := range order {
			vs := groups[k]
			if e.Group {
				out.Set(k, value.List(vs...))
			} else {
				out.Set(k, vs[len(vs)-1])
			}
		}
		return value.ObjectVal(out), nil
	}

	var items []value.Value
	for _, p := range pairs {
		child := scope.Child()
		if e.KeyVar != "" {
			child.Set(e.KeyVar, p.key)
		}
		child.Set(e.ValVar, p.val)
		if e.CondExpr != nil {
			keep, err := evalCond(e.CondExpr, child, loc)
			if err != nil {
				return value.Value{}, err
			}
			if !keep {
				continue
			}
		}
		vv, err := Eval(e.ValExpr, child)
		if err != nil {
			return value.Value{}, err
		}
		items = append(items, vv)
	}
	return value.List(items...), nil
}

func evalCond(cond hclsyntax.Expression, scope *Scope, loc cerr.Location) (bool, error) {
	v, err := Eval(cond, scope)
	if err != nil {
		return false, err
	}
	if v.Kind() != value.KindBool {
		return false, cerr.New(cerr.KindTypeMismatch, loc, "for comprehension if-clause must be a bool, got %s", v.Kind())
	}
	return v.Bool(), nil
}

// evalSplat implements the splat operator "source.*.attr" (spec §4.C):
// for a list source it maps the trailing traversal over each element and
// produces a list; null splats to an empty list; anything else (a
// string, number, bool, or object) is a TypeMismatch, per spec §9.
func evalSplat(e *hclsyntax.SplatExpr, scope *Scope, loc cerr.Location) (value.Value, error) {
	src, err := Eval(e.Source, scope)
	if err != nil {
		return value.Value{}, err
	}
	if src.IsNull() {
		return value.List(), nil
	}
	if src.Kind() != value.KindList {
		return value.Value{}, cerr.New(cerr.KindTypeMismatch, loc, "splat operator requires a list or null, got %s", src.Kind())
	}
	elems := src.List()
	out := make([]value.Value, 0, len(elems))
	for _, el := range elems {
		child := scope.Child()
		v, err := Eval(e.Each, scopeWithItem(child, el))
		if err != nil {
			return value.Value{}, err
		}
		out = append(out, v)
	}
	return value.List(out...), nil
}

// scopeWithItem binds the anonymous splat item. hclsyntax resolves
// *hclsyntax.AnonSymbolExpr nodes inside e.Each back to the same Source
// value; since this evaluator walks e.Each with Eval, and AnonSymbolExpr
// has no traversal of its own to intercept, splat's Each subtree is
// limited to RelativeTraversalExpr chains rooted at the anonymous symbol
// — handled directly in Eval (eval.go) by special-casing AnonSymbolExpr.
func scopeWithItem(s *Scope, item value.Value) *Scope {
	s.Set(splatItemName, item)
	return s
}

const splatItemName = "__splat_item__"
