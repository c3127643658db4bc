package coerce_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dbschema/dbschema/coerce"
	"github.com/dbschema/dbschema/internal/cerr"
	"github.com/dbschema/dbschema/value"
)

// TestCoerce_ListOfNumberFromMixedInput implements spec §8's
// coerce(list(number), [1,2,"3"]) == [1,2,3] example.
func TestCoerce_ListOfNumberFromMixedInput(t *testing.T) {
	in := value.List(value.IntVal(1), value.IntVal(2), value.String("3"))
	out, warnings, err := coerce.Coerce(value.ListOf(value.Number_()), in, "var.nums")
	require.NoError(t, err)
	require.Empty(t, warnings)

	items := out.List()
	require.Len(t, items, 3)
	for i, want := range []int64{1, 2, 3} {
		require.Equal(t, want, items[i].Number().Int64())
	}
}

// TestCoerce_ObjectFillsOptionalWithNull implements spec §8's
// coerce(object({a=string,b=optional(number)}), {a="x"}) == {a="x",b=null}.
func TestCoerce_ObjectFillsOptionalWithNull(t *testing.T) {
	objType := value.ObjectOf(
		value.ObjectField{Name: "a", Type: value.String_()},
		value.ObjectField{Name: "b", Type: value.Number_(), Optional: true},
	)
	in := value.NewObject()
	in.Set("a", value.String("x"))

	out, _, err := coerce.Coerce(objType, value.ObjectVal(in), "var.obj")
	require.NoError(t, err)

	a, ok := out.Object().Get("a")
	require.True(t, ok)
	require.Equal(t, "x", a.Str())

	b, ok := out.Object().Get("b")
	require.True(t, ok)
	require.True(t, b.IsNull())
}

// TestCoerce_NumberFromUnparsableStringFails implements spec §8's
// coerce(number, "abc") failing with TypeMismatch.
func TestCoerce_NumberFromUnparsableStringFails(t *testing.T) {
	_, _, err := coerce.Coerce(value.Number_(), value.String("abc"), "var.n")
	require.Error(t, err)

	ce, ok := err.(*cerr.Error)
	require.True(t, ok, "expected *cerr.Error, got %T", err)
	require.True(t, ce.Is(cerr.KindTypeMismatch))
}

func TestCoerce_ObjectDropsUnknownKeyWithWarning(t *testing.T) {
	objType := value.ObjectOf(value.ObjectField{Name: "a", Type: value.String_()})
	in := value.NewObject()
	in.Set("a", value.String("x"))
	in.Set("extra", value.Bool(true))

	out, warnings, err := coerce.Coerce(objType, value.ObjectVal(in), "var.obj")
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, "extra")

	_, ok := out.Object().Get("extra")
	require.False(t, ok)
}

func TestCoerce_SetDedupesElements(t *testing.T) {
	in := value.List(value.IntVal(1), value.IntVal(1), value.IntVal(2))
	out, _, err := coerce.Coerce(value.SetOf(value.Number_()), in, "var.s")
	require.NoError(t, err)
	require.Len(t, out.List(), 2)
}

func TestCoerce_MissingRequiredFieldFails(t *testing.T) {
	objType := value.ObjectOf(value.ObjectField{Name: "a", Type: value.String_()})
	_, _, err := coerce.Coerce(objType, value.ObjectVal(value.NewObject()), "var.obj")
	require.Error(t, err)
}
