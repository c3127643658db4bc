package eval_test

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/require"

	"github.com/dbschema/dbschema/eval"
	"github.com/dbschema/dbschema/internal/cerr"
	"github.com/dbschema/dbschema/value"
)

func parseExpr(t *testing.T, src string) hclsyntax.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors(), "%v", diags)
	return expr
}

func evalStr(t *testing.T, src string, scope *eval.Scope) value.Value {
	t.Helper()
	v, err := eval.Eval(parseExpr(t, src), scope)
	require.NoError(t, err)
	return v
}

// TestEval_TemplateEquality checks that a string template interpolating a
// string variable equals the same text written as a plain literal
// (spec §8 "Evaluator algebra": template equality).
func TestEval_TemplateEquality(t *testing.T) {
	scope := eval.NewRootScope()
	scope.Set("name", value.String("widgets"))

	got := evalStr(t, `"hello ${name}!"`, scope)
	want := evalStr(t, `"hello widgets!"`, scope)
	require.True(t, got.Equal(want))
}

// TestEval_ConcatAssociative checks concat(concat(a,b),c) == concat(a,concat(b,c)).
func TestEval_ConcatAssociative(t *testing.T) {
	scope := eval.NewRootScope()
	left := evalStr(t, `concat(concat([1,2], [3]), [4,5])`, scope)
	right := evalStr(t, `concat([1,2], concat([3], [4,5]))`, scope)
	require.True(t, left.Equal(right))
}

// TestEval_DistinctIsSubsequence checks that distinct() preserves only
// first occurrences and never introduces new elements.
func TestEval_DistinctIsSubsequence(t *testing.T) {
	scope := eval.NewRootScope()
	got := evalStr(t, `distinct([1, 2, 2, 3, 1, 4])`, scope)
	items := got.List()
	require.Len(t, items, 4)
	want := []int64{1, 2, 3, 4}
	for i, it := range items {
		require.Equal(t, want[i], it.Number().Int64())
	}
}

// TestEval_SortIsPermutation checks that sort() returns the same
// multiset of elements, in non-decreasing order.
func TestEval_SortIsPermutation(t *testing.T) {
	scope := eval.NewRootScope()
	got := evalStr(t, `sort([3, 1, 2])`, scope).List()
	require.Len(t, got, 3)
	for i := 0; i+1 < len(got); i++ {
		require.LessOrEqual(t, got[i].Number().Compare(got[i+1].Number()), 0)
	}
	sum := int64(0)
	for _, v := range got {
		sum += v.Number().Int64()
	}
	require.Equal(t, int64(6), sum)
}

// TestEval_CoalesceReturnsFirstNonNull checks that coalesce skips leading
// nulls and returns the first non-null argument.
func TestEval_CoalesceReturnsFirstNonNull(t *testing.T) {
	scope := eval.NewRootScope()
	got := evalStr(t, `coalesce(null, null, "found", "ignored")`, scope)
	require.Equal(t, "found", got.Str())
}

// TestEval_LogicalAndShortCircuits checks that && doesn't evaluate its
// right operand once the left is false (an unknown reference on the
// right side must not surface as an error).
func TestEval_LogicalAndShortCircuits(t *testing.T) {
	scope := eval.NewRootScope()
	got := evalStr(t, `false && undefined_name`, scope)
	require.False(t, got.Bool())
}

func TestEval_ArithmeticIsUnsupported(t *testing.T) {
	scope := eval.NewRootScope()
	_, err := eval.Eval(parseExpr(t, `1 + 2`), scope)
	require.Error(t, err)
}

func TestEval_TraversalThroughObjectAndList(t *testing.T) {
	scope := eval.NewRootScope()
	obj := value.NewObject()
	obj.Set("names", value.List(value.String("a"), value.String("b")))
	scope.Set("var", value.ObjectVal(obj))

	got := evalStr(t, `var.names[1]`, scope)
	require.Equal(t, "b", got.Str())
}

// TestEval_SplatOnNonListIsTypeMismatch implements spec §9's "splat on
// non-lists is an error" resolution.
func TestEval_SplatOnNonListIsTypeMismatch(t *testing.T) {
	scope := eval.NewRootScope()
	scope.Set("name", value.String("widgets"))

	_, err := eval.Eval(parseExpr(t, `name.*.id`), scope)
	require.Error(t, err)

	ce, ok := err.(*cerr.Error)
	require.True(t, ok, "expected *cerr.Error, got %T", err)
	require.True(t, ce.Is(cerr.KindTypeMismatch))
}

func TestEval_SplatOnNullIsEmptyList(t *testing.T) {
	scope := eval.NewRootScope()
	scope.Set("name", value.Null())

	got := evalStr(t, `name.*.id`, scope)
	require.Empty(t, got.List())
}

func TestEval_EachBindingInChildScope(t *testing.T) {
	root := eval.NewRootScope()
	child := root.WithEach(value.String("k1"), value.String("v1"))

	got := evalStr(t, `each.key`, child)
	require.Equal(t, "k1", got.Str())

	_, ok := root.Lookup("each")
	require.False(t, ok, "each must not leak into the parent scope")
}
