package ir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dbschema/dbschema/expand"
	"github.com/dbschema/dbschema/internal/cerr"
	"github.com/dbschema/dbschema/ir"
	"github.com/dbschema/dbschema/value"
)

// TestBuild_UnknownAttributeWarnsByDefault implements spec §4.G/§7: an
// unrecognized attribute on a known block kind is a non-fatal warning in
// default mode.
func TestBuild_UnknownAttributeWarnsByDefault(t *testing.T) {
	blocks := []*expand.Block{{
		Kind: "schema",
		Name: "app",
		Attrs: map[string]value.Value{
			"if_not_exists": value.Bool(true),
			"owner":         value.String("nobody"),
		},
	}}

	coll, warnings, err := ir.Build(blocks, false)
	require.NoError(t, err)
	require.Len(t, coll.Schemas, 1)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, `"owner"`)
}

// TestBuild_UnknownAttributeFailsInStrict implements the strict-mode half
// of the same rule.
func TestBuild_UnknownAttributeFailsInStrict(t *testing.T) {
	blocks := []*expand.Block{{
		Kind: "schema",
		Name: "app",
		Attrs: map[string]value.Value{
			"owner": value.String("nobody"),
		},
	}}

	_, _, err := ir.Build(blocks, true)
	require.Error(t, err)

	ce, ok := err.(*cerr.Error)
	require.True(t, ok, "expected *cerr.Error, got %T", err)
	require.True(t, ce.Is(cerr.KindUnknownAttribute))
}

func TestBuild_CommonMetaAttributesAreAlwaysKnown(t *testing.T) {
	blocks := []*expand.Block{{
		Kind: "enum",
		Name: "status",
		Attrs: map[string]value.Value{
			"values":      value.List(value.String("a"), value.String("b")),
			"schema":      value.String("app"),
			"lint_ignore": value.List(value.String("naming")),
		},
	}}

	_, warnings, err := ir.Build(blocks, true)
	require.NoError(t, err)
	require.Empty(t, warnings)
}

// TestBuild_UnknownNestedTableAttributeFailsInStrict implements the same
// rule one level down, for a table's nested column block.
func TestBuild_UnknownNestedTableAttributeFailsInStrict(t *testing.T) {
	blocks := []*expand.Block{{
		Kind: "table",
		Name: "users",
		Attrs: map[string]value.Value{},
		Blocks: []*expand.Block{{
			Kind: "column",
			Name: "id",
			Attrs: map[string]value.Value{
				"type":    value.String("serial"),
				"bogus":   value.Bool(true),
			},
		}},
	}}

	_, _, err := ir.Build(blocks, true)
	require.Error(t, err)

	ce, ok := err.(*cerr.Error)
	require.True(t, ok, "expected *cerr.Error, got %T", err)
	require.True(t, ce.Is(cerr.KindUnknownAttribute))
}

func TestBuild_GenericKindExemptFromUnknownAttributeCheck(t *testing.T) {
	blocks := []*expand.Block{{
		Kind: "role",
		Name: "app_user",
		Attrs: map[string]value.Value{
			"login":    value.Bool(true),
			"anything": value.String("goes"),
		},
	}}

	coll, warnings, err := ir.Build(blocks, true)
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Len(t, coll.Roles, 1)
}
