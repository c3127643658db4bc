package dbprisma_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dbschema/dbschema/dbprisma"
	"github.com/dbschema/dbschema/ir"
)

func TestEmit_EnumAndTableOnly(t *testing.T) {
	c := &ir.Collection{
		Enums: []*ir.Enum{
			{Meta: ir.Meta{Name: "status"}, Values: []string{"active", "inactive"}},
		},
		Tables: []*ir.Table{
			{
				Meta: ir.Meta{Name: "users"},
				Columns: []ir.Column{
					{Name: "id", Type: "serial", Nullable: false},
					{Name: "email", Type: "text", Nullable: false},
					{Name: "created_at", Type: "timestamptz", Nullable: false},
				},
				PrimaryKey: &ir.PrimaryKey{Columns: []string{"id"}},
			},
		},
		Functions: []*ir.Function{
			{Meta: ir.Meta{Name: "touch_updated_at"}, Body: "BEGIN RETURN NEW; END;"},
		},
		Triggers: []*ir.Trigger{
			{Meta: ir.Meta{Name: "set_updated_at"}, Table: "users"},
		},
	}

	out, err := dbprisma.Emit(c)
	require.NoError(t, err)
	require.Contains(t, out, "enum Status {")
	require.Contains(t, out, "active")
	require.Contains(t, out, "model User {")
	require.Contains(t, out, "id Int @id @default(autoincrement())")
	require.Contains(t, out, "created_at DateTime")
	require.NotContains(t, out, "touch_updated_at")
	require.NotContains(t, out, "set_updated_at")
}

func TestEmit_ForeignKeyRelation(t *testing.T) {
	c := &ir.Collection{
		Tables: []*ir.Table{
			{
				Meta: ir.Meta{Name: "orders"},
				Columns: []ir.Column{
					{Name: "id", Type: "serial"},
					{Name: "user_id", Type: "integer"},
				},
				ForeignKeys: []ir.ForeignKey{
					{Columns: []string{"user_id"}, RefTable: "users", RefColumns: []string{"id"}},
				},
			},
		},
	}
	out, err := dbprisma.Emit(c)
	require.NoError(t, err)
	require.Contains(t, out, "user User @relation(fields: [user_id], references: [id])")
}
