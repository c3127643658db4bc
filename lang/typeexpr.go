package lang

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/dbschema/dbschema/internal/cerr"
)

// TypeExprString renders a `variable` block's `type = ...` expression back
// into the TypeDescriptor grammar string of spec §3.2 (e.g. "list(number)",
// "object({name=string, age=optional(number)})"). The grammar's keywords
// (`string`, `list(...)`, `object({...})`, `optional(...)`) parse as plain
// identifier traversals and function calls under hclsyntax — there is no
// literal syntax for a type — so this walks those same node shapes the way
// `hashicorp/hcl/v2/ext/typeexpr` does for Terraform's own type
// constraints, rather than evaluating the expression as a value.
func TypeExprString(expr hclsyntax.Expression) (string, error) {
	switch e := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(e.Traversal) != 1 {
			return "", typeExprErr(expr, "type keyword must be a single identifier")
		}
		root, ok := e.Traversal[0].(hcl.TraverseRoot)
		if !ok {
			return "", typeExprErr(expr, "invalid type keyword")
		}
		return root.Name, nil
	case *hclsyntax.FunctionCallExpr:
		switch e.Name {
		case "list", "set", "map", "optional":
			if len(e.Args) != 1 {
				return "", typeExprErr(expr, "%s(...) takes exactly one type argument", e.Name)
			}
			inner, err := TypeExprString(e.Args[0])
			if err != nil {
				return "", err
			}
			return e.Name + "(" + inner + ")", nil
		case "tuple":
			if len(e.Args) != 1 {
				return "", typeExprErr(expr, "tuple(...) takes exactly one list argument")
			}
			tc, ok := e.Args[0].(*hclsyntax.TupleConsExpr)
			if !ok {
				return "", typeExprErr(expr, "tuple(...) argument must be a list of types")
			}
			parts := make([]string, 0, len(tc.Exprs))
			for _, x := range tc.Exprs {
				s, err := TypeExprString(x)
				if err != nil {
					return "", err
				}
				parts = append(parts, s)
			}
			return "tuple([" + strings.Join(parts, ", ") + "])", nil
		case "object":
			if len(e.Args) != 1 {
				return "", typeExprErr(expr, "object(...) takes exactly one object argument")
			}
			oc, ok := e.Args[0].(*hclsyntax.ObjectConsExpr)
			if !ok {
				return "", typeExprErr(expr, "object(...) argument must be an object of field types")
			}
			parts := make([]string, 0, len(oc.Items))
			for _, item := range oc.Items {
				name := hcl.ExprAsKeyword(item.KeyExpr)
				if name == "" {
					return "", typeExprErr(expr, "object type field names must be barewords")
				}
				fieldType, err := TypeExprString(item.ValueExpr)
				if err != nil {
					return "", err
				}
				parts = append(parts, name+"="+fieldType)
			}
			return "object({" + strings.Join(parts, ", ") + "})", nil
		default:
			return "", typeExprErr(expr, "unknown type constructor %q", e.Name)
		}
	default:
		return "", typeExprErr(expr, "unsupported type expression")
	}
}

func typeExprErr(expr hclsyntax.Expression, format string, args ...any) error {
	rng := expr.Range()
	return cerr.New(cerr.KindTypeMismatch, cerr.Location{File: rng.Filename, Line: rng.Start.Line, Column: rng.Start.Column}, format, args...)
}
